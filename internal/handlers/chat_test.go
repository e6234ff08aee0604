package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourhelpa/helpa/internal/classifier"
	"github.com/yourhelpa/helpa/internal/engine"
	"github.com/yourhelpa/helpa/internal/matching"
	"github.com/yourhelpa/helpa/internal/services"
	"github.com/yourhelpa/helpa/internal/storage"
	"github.com/yourhelpa/helpa/pkg/message"
	"github.com/yourhelpa/helpa/pkg/profile"
)

func newChatHandler(t *testing.T) (*ChatHandler, *storage.MockStorage) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := storage.NewMockStorage()
	clf := classifier.New(services.NewMockLLMAPI(), time.Second, logger)
	eng := engine.New(store, clf, matching.NewMockProvider(), time.Second, time.Second, logger)
	return NewChatHandler(eng, store, logger), store
}

func postChat(t *testing.T, h *ChatHandler, body string) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var response ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestChatHandler_RunsTurn(t *testing.T) {
	h, _ := newChatHandler(t)

	w, response := postChat(t, h, `{"visitor_id": "dev-user", "display_name": "Dev", "text": "hi"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, response.Error)
	assert.Equal(t, profile.StateMainMenu, response.State)
	require.Len(t, response.Messages, 1)
	assert.Equal(t, message.KindList, response.Messages[0].Kind)
}

func TestChatHandler_ActionInput(t *testing.T) {
	h, store := newChatHandler(t)
	p := profile.NewProfile("dev-user", "Dev")
	p.State = profile.StateMainMenu
	store.Seed(p)

	w, response := postChat(t, h, `{"visitor_id": "dev-user", "action_id": "OPT_FIND_SERVICE"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, profile.StateCollectingRequest, response.State)
}

func TestChatHandler_MissingVisitorID(t *testing.T) {
	h, _ := newChatHandler(t)

	w, response := postChat(t, h, `{"text": "hi"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, response.Error, "visitor_id")
}

func TestChatHandler_InvalidBody(t *testing.T) {
	h, _ := newChatHandler(t)

	w, response := postChat(t, h, "{not json")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, response.Error)
}

func TestChatHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newChatHandler(t)

	req := httptest.NewRequest("GET", "/v1/chat", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
