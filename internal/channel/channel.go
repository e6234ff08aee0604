// Package channel adapts the WhatsApp Business (Meta Graph API) transport
// to the engine's contracts: inbound webhook envelopes normalize to
// Events, and outbound renderables are posted back as Graph payloads.
package channel

import (
	"context"
	"strings"

	"github.com/yourhelpa/helpa/pkg/message"
)

// Event is one normalized inbound message. Exactly one of Text and
// ActionID is meaningful per event.
type Event struct {
	VisitorID   string `json:"visitor_id"`
	DisplayName string `json:"display_name,omitempty"`
	Text        string `json:"text,omitempty"`
	ActionID    string `json:"action_id,omitempty"`
}

// Input returns the single string the classifier operates on: the action
// id when a button or list row was tapped, else the trimmed text.
func (e Event) Input() string {
	if e.ActionID != "" {
		return e.ActionID
	}
	return strings.TrimSpace(e.Text)
}

// Sender delivers renderables to a visitor on the channel.
type Sender interface {
	Send(ctx context.Context, visitorID string, r message.Renderable) error
}
