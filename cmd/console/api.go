package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/yourhelpa/helpa/internal/handlers"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// sendTurn posts one simulated inbound event to the dev chat endpoint.
// Input starting with a reserved action prefix is sent as an action id,
// so button and list taps can be simulated by typing the id.
func sendTurn(client *http.Client, baseURL, visitorID, name, input string) (*handlers.ChatResponse, error) {
	req := handlers.ChatRequest{
		VisitorID:   visitorID,
		DisplayName: name,
	}
	if isActionID(input) {
		req.ActionID = input
	} else {
		req.Text = input
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/chat",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp handlers.ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != "" {
			return nil, fmt.Errorf("API error: %s", chatResp.Error)
		}
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	return &chatResp, nil
}

func isActionID(input string) bool {
	for _, prefix := range []string{"OPT_", "CONFIRM_", "CORRECT_", "SELECT_"} {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}
	return false
}
