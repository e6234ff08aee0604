package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/yourhelpa/helpa/internal/channel"
	"github.com/yourhelpa/helpa/internal/engine"
)

// WebhookHandler is the channel-facing adapter: GET serves Meta's
// verification handshake, POST accepts event envelopes and dispatches
// each event as a turn. Replies go out through the Sender; Meta always
// gets a prompt 200 so deliveries are not retried.
type WebhookHandler struct {
	engine      *engine.Engine
	dispatcher  *engine.Dispatcher
	sender      channel.Sender
	verifyToken string
	logger      *slog.Logger
}

func NewWebhookHandler(
	eng *engine.Engine,
	dispatcher *engine.Dispatcher,
	sender channel.Sender,
	verifyToken string,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		engine:      eng,
		dispatcher:  dispatcher,
		sender:      sender,
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// ServeHTTP handles HTTP requests for the webhook endpoint
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.verify(w, r)
	case http.MethodPost:
		h.receive(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// verify implements the hub.challenge handshake.
func (h *WebhookHandler) verify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		h.logger.Info("Webhook verified")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(challenge)); err != nil {
			h.logger.Error("Error writing challenge response", "error", err)
		}
		return
	}

	h.logger.Warn("Webhook verification rejected", "mode", mode)
	w.WriteHeader(http.StatusForbidden)
}

func (h *WebhookHandler) receive(w http.ResponseWriter, r *http.Request) {
	var envelope channel.WebhookEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		h.logger.Warn("Invalid webhook body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	events := channel.ParseWebhook(envelope)
	for _, event := range events {
		ev := event
		h.dispatcher.Enqueue(ev.VisitorID, func() {
			h.processTurn(ev)
		})
	}

	// Acknowledge immediately; turn processing continues in the
	// dispatcher's per-visitor queues.
	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) processTurn(event channel.Event) {
	ctx := context.Background()
	outbound := h.engine.HandleEvent(ctx, event)

	for _, renderable := range outbound {
		if err := h.sender.Send(ctx, event.VisitorID, renderable); err != nil {
			h.logger.Error("Failed to send reply",
				"visitor_id", event.VisitorID,
				"kind", renderable.Kind,
				"error", err)
		}
	}
}
