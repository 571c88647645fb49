package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taste-orchestrator/internal/domain"
)

// ExtractIntentUsecase turns a conversation transcript into a structured
// Intent. A nil Intent with a nil error is a soft miss: the model either
// declined (literal null) or produced something unparseable. A non-nil
// error means the backend itself was unreachable; callers decide whether
// that degrades or aborts the turn.
type ExtractIntentUsecase interface {
	Execute(ctx context.Context, transcript string) (*domain.Intent, error)
}

type extractIntentUsecase struct {
	generator domain.TextGenerator
	logger    *slog.Logger
}

// NewExtractIntentUsecase builds the extraction stage over a text generator.
func NewExtractIntentUsecase(generator domain.TextGenerator, logger *slog.Logger) ExtractIntentUsecase {
	return &extractIntentUsecase{generator: generator, logger: logger}
}

func (u *extractIntentUsecase) Execute(ctx context.Context, transcript string) (*domain.Intent, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	raw, err := u.generator.GenerateJSON(ctx, BuildIntentPrompt(transcript))
	if err != nil {
		return nil, fmt.Errorf("intent extraction call failed: %w", err)
	}

	intent, err := domain.ParseIntent(raw)
	if err != nil {
		// Unparseable output is not an error to the caller; the pipeline
		// continues without an intent.
		u.logger.Warn("intent_unparseable",
			slog.String("reason", err.Error()),
			slog.Int("response_bytes", len(raw)))
		return nil, nil
	}

	u.logger.Info("intent_extracted",
		slog.Any("domains", intent.Domains),
		slog.Int("mood_tags", len(intent.MoodTags)),
		slog.String("location", intent.Location),
		slog.Int("take", intent.EffectiveTake()))
	return intent, nil
}
