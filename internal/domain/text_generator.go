package domain

import "context"

// TextGenerator defines the capability to send prompts to a generative-text
// backend and receive textual responses. GenerateJSON asks the backend for a
// JSON-only answer (used by intent extraction); GenerateText returns free
// prose (used by narrative synthesis). Both are single attempts — the
// pipeline never retries.
type TextGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}
