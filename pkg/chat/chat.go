package chat

const (
	ChatRoleUser   = "user"      // visitor
	ChatRoleAgent  = "assistant" // persona
	ChatRoleSystem = "system"
)

// ChatMessage represents a single chat message in a conversation with the
// language model. The shape follows the OpenAI-style chat completions API.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatResponse represents the model's reply content.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}
