// Package classifier turns inbound messages into tagged Intents. Button
// and list actions parse deterministically; only free text reaches the
// language model, and any model failure degrades to UNKNOWN.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yourhelpa/helpa/internal/services"
	"github.com/yourhelpa/helpa/pkg/chat"
	"github.com/yourhelpa/helpa/pkg/intent"
	"github.com/yourhelpa/helpa/pkg/persona"
	"github.com/yourhelpa/helpa/pkg/profile"
)

// Classifier classifies one inbound message per turn.
type Classifier struct {
	llm     services.LLMService
	logger  *slog.Logger
	timeout time.Duration
}

func New(llm services.LLMService, timeout time.Duration, logger *slog.Logger) *Classifier {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Classifier{
		llm:     llm,
		logger:  logger,
		timeout: timeout,
	}
}

// extraction is the JSON shape the model is instructed to return.
type extraction struct {
	Intent   string `json:"intent"`
	Category string `json:"category"`
	Summary  string `json:"summary"`
	City     string `json:"city"`
}

const extractionInstruction = `Classify the user's message for a local-services marketplace.
Return ONLY a JSON object with these keys:
  "intent": one of GREETING, SERVICE_REQUEST, PRODUCT_REQUEST, MENU, CONFIRM, CORRECT, UNKNOWN
  "category": the service or item category if mentioned, else ""
  "summary": a short summary of what the user needs, else ""
  "city": the city if mentioned, else ""
No prose, no markdown fences.`

// Classify returns the Intent for raw input. It never returns an error:
// reserved prefixes and keywords are handled without any model call, and
// a model failure or malformed reply yields UNKNOWN with empty slots.
func (c *Classifier) Classify(ctx context.Context, raw string, p *profile.Profile) intent.Intent {
	if parsed, ok := intent.ParseReserved(raw); ok {
		return parsed
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return intent.Unknown()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: persona.SystemInstruction(persona.Get(p.Persona))},
		{Role: chat.ChatRoleSystem, Content: extractionInstruction},
		{Role: chat.ChatRoleUser, Content: fmt.Sprintf("Conversation state: %s\nUser message: %q", p.State, trimmed)},
	}

	resp, err := c.llm.Chat(ctx, messages)
	if err != nil {
		c.logger.Warn("Intent classification failed, degrading to UNKNOWN",
			"visitor_id", p.VisitorID, "error", err)
		return intent.Unknown()
	}

	parsed, err := parseExtraction(resp.Message)
	if err != nil {
		c.logger.Warn("Malformed classification response, degrading to UNKNOWN",
			"visitor_id", p.VisitorID, "error", err)
		return intent.Unknown()
	}

	tag := strings.ToUpper(strings.TrimSpace(parsed.Intent))
	if !intent.ValidTag(tag) {
		tag = intent.TagUnknown
	}

	return intent.Intent{
		Tag:      tag,
		Category: strings.TrimSpace(parsed.Category),
		Summary:  strings.TrimSpace(parsed.Summary),
		City:     strings.TrimSpace(parsed.City),
	}
}

// parseExtraction tolerates models that wrap JSON in markdown fences or
// surrounding prose.
func parseExtraction(content string) (*extraction, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Fall back to the outermost braces if the model added prose.
	if !strings.HasPrefix(cleaned, "{") {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in response")
		}
		cleaned = cleaned[start : end+1]
	}

	var ex extraction
	if err := json.Unmarshal([]byte(cleaned), &ex); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}
	return &ex, nil
}
