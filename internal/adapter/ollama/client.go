// Package ollama implements the TextGenerator interface against a local
// Ollama instance. It exists for offline development where no Gemini key is
// available; the active backend is a config switch.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"taste-orchestrator/internal/domain"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   string                 `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// Client sends prompts to Ollama's chat endpoint.
type Client struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewClient constructs a generator using the provided endpoint and model name.
func NewClient(baseURL, model string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Client:  httpClient,
	}
}

// GenerateJSON asks the model to emit JSON via Ollama's format constraint.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, prompt, "json")
}

// GenerateText asks the model for free prose.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, prompt, "")
}

func (c *Client) chat(ctx context.Context, prompt, format string) (string, error) {
	reqBody := chatRequest{
		Model:    c.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   format,
		Options: map[string]interface{}{
			"temperature": 0.7,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("ollama: build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama: chat endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("ollama: decode chat response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("ollama: %s", parsed.Error)
	}

	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return "", fmt.Errorf("ollama: empty response")
	}
	return content, nil
}

// Version returns the wrapped model name.
func (c *Client) Version() string {
	return c.Model
}

var _ domain.TextGenerator = (*Client)(nil)
