package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taste-orchestrator/internal/domain"
)

// SynthesisInput carries the user context and whatever ranked entities the
// pipeline managed to gather. An empty entity list triggers the degraded
// prompt; it is a designed mode, not an error.
type SynthesisInput struct {
	UserContext string
	Entities    []domain.RankedEntity
	Style       NarrativeStyle
	Location    string
	Budget      float64
}

// SynthesizeUsecase produces the final natural-language answer. This is the
// last fallback tier: a backend failure here is fatal to the turn and
// propagates to the caller.
type SynthesizeUsecase interface {
	Execute(ctx context.Context, input SynthesisInput) (string, error)
}

type synthesizeUsecase struct {
	generator domain.TextGenerator
	logger    *slog.Logger
}

// NewSynthesizeUsecase builds the synthesis stage over a text generator.
func NewSynthesizeUsecase(generator domain.TextGenerator, logger *slog.Logger) SynthesizeUsecase {
	return &synthesizeUsecase{generator: generator, logger: logger}
}

func (u *synthesizeUsecase) Execute(ctx context.Context, input SynthesisInput) (string, error) {
	prompt := BuildSynthesisPrompt(SynthesisPromptInput{
		UserContext: input.UserContext,
		Entities:    input.Entities,
		Style:       input.Style,
		Location:    input.Location,
		Budget:      input.Budget,
	})

	text, err := u.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("narrative synthesis failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("narrative synthesis returned empty text")
	}

	u.logger.Info("narrative_synthesized",
		slog.String("style", string(input.Style)),
		slog.Int("entities", len(input.Entities)),
		slog.Int("text_bytes", len(text)))
	return text, nil
}
