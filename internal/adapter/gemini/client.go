// Package gemini adapts the official genai SDK to the pipeline's
// TextGenerator interface. Every call is a single attempt with a bounded
// timeout; retry policy lives with the caller (there is none by design).
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taste-orchestrator/internal/domain"

	"golang.org/x/time/rate"
	genai "google.golang.org/genai"
)

// Client wraps a genai client for one model. Outbound calls are paced with a
// token bucket so a burst of pipeline turns cannot trip the API quota.
type Client struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewClient constructs the adapter. rps <= 0 disables pacing.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration, rps float64, burst int) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	return &Client{
		cli:     cli,
		model:   model,
		timeout: timeout,
		limiter: limiter,
	}, nil
}

// GenerateJSON asks the model for a JSON-only response.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
}

// GenerateText asks the model for free prose.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, nil)
}

func (c *Client) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini: rate limit wait: %w", err)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.cli.Models.GenerateContent(callCtx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty candidate set")
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("gemini: empty response text")
	}
	return text, nil
}

// Version returns the wrapped model name.
func (c *Client) Version() string {
	return c.model
}

var _ domain.TextGenerator = (*Client)(nil)
