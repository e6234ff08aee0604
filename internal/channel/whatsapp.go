package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourhelpa/helpa/pkg/message"
)

// WebhookEnvelope is the Meta webhook delivery shape for WhatsApp
// Business accounts.
type WebhookEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Field string `json:"field"`
			Value struct {
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
				Messages []struct {
					Type string `json:"type"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text,omitempty"`
					Interactive *struct {
						ButtonReply *struct {
							ID string `json:"id"`
						} `json:"button_reply,omitempty"`
						ListReply *struct {
							ID string `json:"id"`
						} `json:"list_reply,omitempty"`
					} `json:"interactive,omitempty"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook normalizes a webhook envelope into Events. Only text and
// interactive messages produce events; everything else (media, statuses)
// is ignored.
func ParseWebhook(envelope WebhookEnvelope) []Event {
	if envelope.Object != "whatsapp_business_account" {
		return nil
	}

	var events []Event
	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" || len(change.Value.Contacts) == 0 {
				continue
			}

			contact := change.Value.Contacts[0]
			for _, msg := range change.Value.Messages {
				event := Event{
					VisitorID:   contact.WaID,
					DisplayName: contact.Profile.Name,
				}
				switch msg.Type {
				case "text":
					if msg.Text == nil {
						continue
					}
					event.Text = msg.Text.Body
				case "interactive":
					if msg.Interactive == nil {
						continue
					}
					if msg.Interactive.ButtonReply != nil {
						event.ActionID = msg.Interactive.ButtonReply.ID
					} else if msg.Interactive.ListReply != nil {
						event.ActionID = msg.Interactive.ListReply.ID
					} else {
						continue
					}
				default:
					continue
				}
				events = append(events, event)
			}
		}
	}
	return events
}

// WhatsAppSender implements Sender against the Meta Graph API.
type WhatsAppSender struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
	logger        *slog.Logger
}

var _ Sender = (*WhatsAppSender)(nil)

func NewWhatsAppSender(baseURL, accessToken, phoneNumberID string, logger *slog.Logger) *WhatsAppSender {
	return &WhatsAppSender{
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Send renders the renderable into a Graph API payload and posts it.
func (s *WhatsAppSender) Send(ctx context.Context, visitorID string, r message.Renderable) error {
	payload, err := buildPayload(visitorID, r)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Debug("Message sent", "visitor_id", visitorID, "kind", r.Kind)
	return nil
}

// buildPayload maps a renderable onto the Graph API message shapes.
func buildPayload(visitorID string, r message.Renderable) (map[string]any, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                visitorID,
	}

	switch r.Kind {
	case message.KindText:
		payload["type"] = "text"
		payload["text"] = map[string]any{"body": r.Text.Body}

	case message.KindButton:
		interactive := map[string]any{
			"type": "button",
			"body": map[string]any{"text": r.Button.Body},
			"action": map[string]any{
				"buttons": []any{
					map[string]any{
						"type":  "reply",
						"reply": map[string]any{"id": r.Button.YesID, "title": "✅ YES"},
					},
					map[string]any{
						"type":  "reply",
						"reply": map[string]any{"id": r.Button.NoID, "title": "❌ NO"},
					},
				},
			},
		}
		if r.Button.Footer != "" {
			interactive["footer"] = map[string]any{"text": r.Button.Footer}
		}
		payload["type"] = "interactive"
		payload["interactive"] = interactive

	case message.KindList:
		sections := make([]any, 0, len(r.List.Sections))
		for _, section := range r.List.Sections {
			rows := make([]any, 0, len(section.Rows))
			for _, row := range section.Rows {
				entry := map[string]any{"id": row.ID, "title": row.Title}
				if row.Description != "" {
					entry["description"] = row.Description
				}
				rows = append(rows, entry)
			}
			sections = append(sections, map[string]any{"title": section.Title, "rows": rows})
		}

		button := r.List.Button
		if button == "" {
			button = "View Options"
		}
		interactive := map[string]any{
			"type":   "list",
			"header": map[string]any{"type": "text", "text": r.List.Header},
			"body":   map[string]any{"text": r.List.Body},
			"action": map[string]any{"button": button, "sections": sections},
		}
		if r.List.Footer != "" {
			interactive["footer"] = map[string]any{"text": r.List.Footer}
		}
		payload["type"] = "interactive"
		payload["interactive"] = interactive

	default:
		return nil, fmt.Errorf("unknown renderable kind: %s", r.Kind)
	}

	return payload, nil
}
