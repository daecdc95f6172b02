package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client is an alternative generative fallback backed by the Anthropic API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(apiKey string, log *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      "claude-sonnet-4-20250514",
		httpClient: &http.Client{},
		log:        log,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Respond generates a reply to the utterance, replaying the conversation
// history as alternating user and assistant messages.
func (c *Client) Respond(ctx context.Context, utterance, systemPrompt string, history []string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("anthropic: API key not configured")
	}

	messages := make([]message, 0, len(history)+1)
	for _, line := range history {
		switch {
		case strings.HasPrefix(line, "caller: "):
			messages = append(messages, message{Role: "user", Content: strings.TrimPrefix(line, "caller: ")})
		case strings.HasPrefix(line, "agent: "):
			messages = append(messages, message{Role: "assistant", Content: strings.TrimPrefix(line, "agent: ")})
		}
	}
	messages = append(messages, message{Role: "user", Content: utterance})

	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages:  messages,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("anthropic: API error status %d: %s", resp.StatusCode, string(body))
	}

	var result messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}

	for _, block := range result.Content {
		if block.Type == "text" && block.Text != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("anthropic: no text content returned")
}
