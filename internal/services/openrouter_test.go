package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourhelpa/helpa/pkg/chat"
)

func TestOpenRouterService_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req OpenRouterChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "openai/gpt-4o-mini", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, DefaultOpenRouterTemperature, req.Temperature)
		require.NotEmpty(t, req.Messages)

		response := OpenRouterChatResponse{
			ID:    "gen-123",
			Model: req.Model,
			Choices: []OpenRouterChatChoice{
				{Message: struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				}{Role: "assistant", Content: `{"intent":"GREETING"}`}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	svc := NewOpenRouterService("test-key", "openai/gpt-4o-mini")
	svc.SetBaseURL(server.URL)

	resp, err := svc.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"intent":"GREETING"}`, resp.Message)
}

func TestOpenRouterService_Chat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	svc := NewOpenRouterService("test-key", "openai/gpt-4o-mini")
	svc.SetBaseURL(server.URL)

	_, err := svc.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hello"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenRouterService_Chat_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model not found", "type": "invalid_request"},
		})
	}))
	defer server.Close()

	svc := NewOpenRouterService("test-key", "bad/model")
	svc.SetBaseURL(server.URL)

	_, err := svc.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hello"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOpenRouterService_Chat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(OpenRouterChatResponse{ID: "gen-123"})
	}))
	defer server.Close()

	svc := NewOpenRouterService("test-key", "openai/gpt-4o-mini")
	svc.SetBaseURL(server.URL)

	resp, err := svc.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, msgNoResponse, resp.Message)
}
