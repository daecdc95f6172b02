package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client provides access to OpenAI chat completions and speech synthesis.
type Client struct {
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a new OpenAI API client
func NewClient(apiKey string, log *zap.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        log,
	}
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Respond generates a reply to the utterance, replaying the conversation
// history as alternating user and assistant messages.
func (c *Client) Respond(ctx context.Context, utterance, systemPrompt string, history []string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	for _, line := range history {
		switch {
		case strings.HasPrefix(line, "caller: "):
			messages = append(messages, Message{Role: "user", Content: strings.TrimPrefix(line, "caller: ")})
		case strings.HasPrefix(line, "agent: "):
			messages = append(messages, Message{Role: "assistant", Content: strings.TrimPrefix(line, "agent: ")})
		}
	}
	messages = append(messages, Message{Role: "user", Content: utterance})

	reply, err := c.ChatCompletion(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// ChatCompletion sends a chat completion request to OpenAI
func (c *Client) ChatCompletion(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai: API key not configured")
	}

	reqBody := chatRequest{
		Model:    "gpt-4o-mini",
		Messages: messages,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: API error status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	return result.Choices[0].Message.Content, nil
}
