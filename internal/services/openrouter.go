package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yourhelpa/helpa/pkg/chat"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	msgNoResponse     = "(no response)"

	DefaultOpenRouterTemperature = 0.3
	DefaultOpenRouterMaxTokens   = 300
)

// OpenRouterService implements LLMService for OpenRouter's
// OpenAI-compatible chat completions API.
type OpenRouterService struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
}

// OpenRouterChatRequest represents the request structure for OpenRouter chat completions
type OpenRouterChatRequest struct {
	Model       string             `json:"model"`
	Messages    []chat.ChatMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Stream      bool               `json:"stream"`
}

// OpenRouterChatChoice represents a single choice in the OpenRouter response
type OpenRouterChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// OpenRouterChatResponse represents the response structure for OpenRouter chat completions
type OpenRouterChatResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []OpenRouterChatChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

// NewOpenRouterService creates a new OpenRouter service
func NewOpenRouterService(apiKey string, modelName string) *OpenRouterService {
	return &OpenRouterService{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   openRouterBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base URL. Used by tests.
func (o *OpenRouterService) SetBaseURL(baseURL string) {
	o.baseURL = baseURL
}

// InitModel initializes the model (OpenRouter doesn't require explicit model initialization)
func (o *OpenRouterService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

// chatCompletion makes a chat completion request to OpenRouter
func (o *OpenRouterService) chatCompletion(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	openRouterReq := OpenRouterChatRequest{
		Model:       o.modelName,
		Messages:    messages,
		Temperature: DefaultOpenRouterTemperature,
		MaxTokens:   DefaultOpenRouterMaxTokens,
		Stream:      false,
	}

	reqBody, err := json.Marshal(openRouterReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var openRouterResp OpenRouterChatResponse
	if err := json.Unmarshal(body, &openRouterResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if openRouterResp.Error != nil {
		return "", fmt.Errorf("API error: %s", openRouterResp.Error.Message)
	}

	if len(openRouterResp.Choices) == 0 {
		return msgNoResponse, nil
	}

	return openRouterResp.Choices[0].Message.Content, nil
}

// Chat generates a chat response using OpenRouter
func (o *OpenRouterService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	content, err := o.chatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	return &chat.ChatResponse{
		Message: content,
	}, nil
}
