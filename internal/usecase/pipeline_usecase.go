package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taste-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// PipelineConfig parameterizes one pipeline variant. The taste and trip
// surfaces are the same pipeline with different allowed domains, narrative
// style and insights filter dialect.
type PipelineConfig struct {
	Name           string
	Style          NarrativeStyle
	Dialect        domain.FilterDialect
	AllowedDomains []domain.EntityDomain
	DefaultTake    int
}

// PipelineInput is one user turn: the assembled transcript plus the optional
// knobs the caller may pass through.
type PipelineInput struct {
	Transcript string
	Budget     float64
	Debug      bool
}

// PipelineResult is the externally visible outcome of a turn. Text is always
// set on success; Intent and Entities carry the intermediate state for debug
// callers (Intent stays nil when extraction missed).
type PipelineResult struct {
	PipelineID string
	Text       string
	Intent     *domain.Intent
	Entities   []domain.RankedEntity
	Degraded   bool
}

// PipelineUsecase sequences extraction, resolution, fetch and synthesis with
// the fallback policy: extraction and fetch failures degrade, only synthesis
// failures abort the turn.
type PipelineUsecase interface {
	Execute(ctx context.Context, input PipelineInput) (*PipelineResult, error)
}

type pipelineUsecase struct {
	cfg        PipelineConfig
	extract    ExtractIntentUsecase
	resolve    ResolveTagsUsecase
	fetch      FetchRecommendationsUsecase
	synthesize SynthesizeUsecase
	logger     *slog.Logger
}

// NewPipelineUsecase wires the four stages into one configurable pipeline.
func NewPipelineUsecase(
	cfg PipelineConfig,
	extract ExtractIntentUsecase,
	resolve ResolveTagsUsecase,
	fetch FetchRecommendationsUsecase,
	synthesize SynthesizeUsecase,
	logger *slog.Logger,
) PipelineUsecase {
	return &pipelineUsecase{
		cfg:        cfg,
		extract:    extract,
		resolve:    resolve,
		fetch:      fetch,
		synthesize: synthesize,
		logger:     logger,
	}
}

func (u *pipelineUsecase) Execute(ctx context.Context, input PipelineInput) (*PipelineResult, error) {
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, fmt.Errorf("transcript is required")
	}

	result := &PipelineResult{PipelineID: uuid.NewString()}
	log := u.logger.With(
		slog.String("pipeline", u.cfg.Name),
		slog.String("pipeline_id", result.PipelineID))

	intent, err := u.extract.Execute(ctx, input.Transcript)
	if err != nil {
		// Backend unreachable during extraction: same degraded path as an
		// unparseable intent, but worth the louder log line.
		log.Warn("intent_extraction_failed", slog.String("error", err.Error()))
		intent = nil
	}
	result.Intent = intent

	if intent != nil {
		result.Entities = u.gather(ctx, intent, log)
	}

	result.Degraded = len(result.Entities) == 0
	if result.Degraded {
		log.Info("pipeline_degraded", slog.Bool("intent_present", intent != nil))
	}

	text, err := u.synthesize.Execute(ctx, SynthesisInput{
		UserContext: input.Transcript,
		Entities:    result.Entities,
		Style:       u.cfg.Style,
		Location:    intentLocation(intent),
		Budget:      input.Budget,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", u.cfg.Name, err)
	}
	result.Text = text

	log.Info("pipeline_done",
		slog.Bool("degraded", result.Degraded),
		slog.Int("entities", len(result.Entities)))
	return result, nil
}

// gather runs resolution and fetch, absorbing every failure into "zero
// entities". Nothing in this phase may abort the turn.
func (u *pipelineUsecase) gather(ctx context.Context, intent *domain.Intent, log *slog.Logger) []domain.RankedEntity {
	queryable := u.clampDomains(intent)
	if queryable == nil {
		log.Warn("no_queryable_domains", slog.Any("requested", intent.Domains))
		return nil
	}

	resolved, err := u.resolve.Execute(ctx, intent.MoodTags)
	if err != nil {
		log.Warn("tag_resolution_failed", slog.String("error", err.Error()))
		resolved = &domain.ResolvedTags{}
	}

	out, err := u.fetch.Execute(ctx, queryable, resolved)
	if err != nil {
		log.Warn("recommendation_fetch_failed", slog.String("error", err.Error()))
		return nil
	}
	if out.Failed {
		log.Warn("recommendation_fetch_all_domains_failed")
	}
	return out.Entities
}

// clampDomains drops intent domains the pipeline is not configured to serve
// and returns a copy of the intent restricted to the remainder. The intent
// itself is never mutated. A nil return means nothing is queryable.
func (u *pipelineUsecase) clampDomains(intent *domain.Intent) *domain.Intent {
	if len(u.cfg.AllowedDomains) == 0 {
		return intent
	}
	allowed := make(map[domain.EntityDomain]bool, len(u.cfg.AllowedDomains))
	for _, d := range u.cfg.AllowedDomains {
		allowed[d] = true
	}
	var kept []domain.EntityDomain
	for _, d := range intent.Domains {
		if allowed[d] {
			kept = append(kept, d)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	clamped := *intent
	clamped.Domains = kept
	return &clamped
}

func intentLocation(intent *domain.Intent) string {
	if intent == nil {
		return ""
	}
	return intent.Location
}
