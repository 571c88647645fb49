package usecase

import (
	"context"
	"log/slog"

	"taste-orchestrator/internal/domain"

	"golang.org/x/sync/errgroup"
)

// RecommendationsOutput is the flattened, domain-ordered result of the
// insights fan-out. Failed is true only when every domain's request errored,
// so callers can tell a dead service apart from a legitimately empty result.
type RecommendationsOutput struct {
	Entities []domain.RankedEntity
	Failed   bool
}

// FetchRecommendationsUsecase issues one insights request per intent domain
// and concatenates the results in domain order. A failed or empty domain
// contributes zero entities without aborting the others.
type FetchRecommendationsUsecase interface {
	Execute(ctx context.Context, intent *domain.Intent, resolved *domain.ResolvedTags) (*RecommendationsOutput, error)
}

type fetchRecommendationsUsecase struct {
	insights    domain.InsightsProvider
	dialect     domain.FilterDialect
	defaultTake int
	logger      *slog.Logger
}

// NewFetchRecommendationsUsecase builds the fetch stage. The filter dialect
// is fixed per pipeline configuration.
func NewFetchRecommendationsUsecase(insights domain.InsightsProvider, dialect domain.FilterDialect, defaultTake int, logger *slog.Logger) FetchRecommendationsUsecase {
	if defaultTake <= 0 {
		defaultTake = domain.DefaultTake
	}
	return &fetchRecommendationsUsecase{
		insights:    insights,
		dialect:     dialect,
		defaultTake: defaultTake,
		logger:      logger,
	}
}

func (u *fetchRecommendationsUsecase) Execute(ctx context.Context, intent *domain.Intent, resolved *domain.ResolvedTags) (*RecommendationsOutput, error) {
	if intent == nil || len(intent.Domains) == 0 {
		return &RecommendationsOutput{}, nil
	}

	take := intent.Take
	if take <= 0 {
		take = u.defaultTake
	}

	// Results are collected into per-domain slots so the flattened output
	// preserves domain order no matter which request finishes first.
	perDomain := make([][]domain.RankedEntity, len(intent.Domains))
	failures := make([]bool, len(intent.Domains))

	g, gctx := errgroup.WithContext(ctx)
	for i, dom := range intent.Domains {
		query := domain.InsightsQuery{
			Domain:    dom,
			Take:      take,
			Location:  intent.Location,
			TagIDs:    resolved.TagIDs(),
			EntityIDs: resolved.EntityIDs(),
			Dialect:   u.dialect,
		}
		if intent.TimeRange != nil {
			query.TimeStart = intent.TimeRange.Start
			query.TimeEnd = intent.TimeRange.End
		}

		g.Go(func() error {
			entities, err := u.insights.Insights(gctx, query)
			if err != nil {
				failures[i] = true
				u.logger.Warn("insights_request_failed",
					slog.String("domain", string(dom)),
					slog.String("error", err.Error()))
				return nil
			}
			perDomain[i] = entities
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RecommendationsOutput{Failed: true}
	for i, entities := range perDomain {
		if !failures[i] {
			out.Failed = false
		}
		out.Entities = append(out.Entities, entities...)
	}

	u.logger.Info("recommendations_fetched",
		slog.Int("domains", len(intent.Domains)),
		slog.Int("entities", len(out.Entities)),
		slog.Bool("all_failed", out.Failed))
	return out, nil
}
