package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fieldserve/repairline/internal/infrastructure/circuitbreaker"
)

const defaultModel = "gemini-2.0-flash"

// Client is the generative fallback backed by the Gemini REST API.
type Client struct {
	apiKey string
	model  string
	http   *circuitbreaker.HTTPClient
	log    *zap.Logger
}

func NewClient(apiKey string, log *zap.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		model:  defaultModel,
		http:   circuitbreaker.NewHTTPClientWithSettings("gemini", 15*time.Second, log),
		log:    log,
	}
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Respond generates a reply to the utterance given the conversation history.
// History lines carry "caller: " and "agent: " prefixes; they map onto the
// user and model roles.
func (c *Client) Respond(ctx context.Context, utterance, systemPrompt string, history []string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini: API key not configured")
	}

	req := generateRequest{
		Contents: historyContents(history),
	}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	req.Contents = append(req.Contents, content{Role: "user", Parts: []part{{Text: utterance}}})

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", c.model, c.apiKey)
	resp, err := c.http.Post(ctx, url, "application/json", payload)
	if err != nil && resp == nil {
		return "", fmt.Errorf("gemini: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini: API error status %d: %s", resp.StatusCode, body)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}

func historyContents(history []string) []content {
	out := make([]content, 0, len(history))
	for _, line := range history {
		switch {
		case strings.HasPrefix(line, "caller: "):
			out = append(out, content{Role: "user", Parts: []part{{Text: strings.TrimPrefix(line, "caller: ")}}})
		case strings.HasPrefix(line, "agent: "):
			out = append(out, content{Role: "model", Parts: []part{{Text: strings.TrimPrefix(line, "agent: ")}}})
		}
	}
	return out
}
