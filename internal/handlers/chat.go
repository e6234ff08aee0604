package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourhelpa/helpa/internal/channel"
	"github.com/yourhelpa/helpa/internal/engine"
	"github.com/yourhelpa/helpa/internal/storage"
	"github.com/yourhelpa/helpa/pkg/message"
	"github.com/yourhelpa/helpa/pkg/profile"
)

// ChatRequest is one simulated inbound event for the dev chat endpoint.
type ChatRequest struct {
	VisitorID   string `json:"visitor_id"`
	DisplayName string `json:"display_name,omitempty"`
	Text        string `json:"text,omitempty"`
	ActionID    string `json:"action_id,omitempty"`
}

// ChatResponse carries the turn's outbound messages plus the resulting
// conversation state, so the console can show where the visitor landed.
type ChatResponse struct {
	State    profile.State        `json:"state,omitempty"`
	Messages []message.Renderable `json:"messages,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// ChatHandler runs one turn synchronously, bypassing the channel
// transport. It backs cmd/console and local development.
type ChatHandler struct {
	engine  *engine.Engine
	storage storage.Storage
	logger  *slog.Logger
}

func NewChatHandler(eng *engine.Engine, store storage.Storage, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		engine:  eng,
		storage: store,
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for chat
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeJSON(w, h.logger, ChatResponse{Error: "Method not allowed. Only POST is supported."})
		return
	}

	var request ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, ChatResponse{Error: "Invalid request body. Expected JSON with 'visitor_id' and 'text' or 'action_id'."})
		return
	}

	if request.VisitorID == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, ChatResponse{Error: "visitor_id cannot be empty."})
		return
	}

	event := channel.Event{
		VisitorID:   request.VisitorID,
		DisplayName: request.DisplayName,
		Text:        request.Text,
		ActionID:    request.ActionID,
	}

	outbound := h.engine.HandleEvent(r.Context(), event)

	response := ChatResponse{Messages: outbound}
	if p, err := h.storage.LoadProfile(r.Context(), request.VisitorID); err == nil && p != nil {
		response.State = p.State
	}

	w.WriteHeader(http.StatusOK)
	writeJSON(w, h.logger, response)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}
