package usecase

import (
	"context"
	"errors"
	"log/slog"

	"taste-orchestrator/internal/domain"

	"golang.org/x/sync/errgroup"
)

// ResolveTagsUsecase maps free-text mood phrases to canonical tag and entity
// identifiers. Both lookups for every phrase run concurrently; a lookup that
// fails contributes nothing for its phrase instead of failing the whole
// resolution. Only context cancellation surfaces as an error.
type ResolveTagsUsecase interface {
	Execute(ctx context.Context, phrases []string) (*domain.ResolvedTags, error)
}

type resolveTagsUsecase struct {
	tags     domain.TagSearcher
	entities domain.EntitySearcher
	take     int
	logger   *slog.Logger
}

// NewResolveTagsUsecase builds the resolution stage. take caps the candidate
// identifiers fetched per phrase per search kind.
func NewResolveTagsUsecase(tags domain.TagSearcher, entities domain.EntitySearcher, take int, logger *slog.Logger) ResolveTagsUsecase {
	return &resolveTagsUsecase{tags: tags, entities: entities, take: take, logger: logger}
}

func (u *resolveTagsUsecase) Execute(ctx context.Context, phrases []string) (*domain.ResolvedTags, error) {
	resolved := &domain.ResolvedTags{Sets: make([]domain.ResolvedTagSet, len(phrases))}
	if len(phrases) == 0 {
		return resolved, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	for i, phrase := range phrases {
		resolved.Sets[i].Phrase = phrase

		g.Go(func() error {
			ids, err := u.tags.SearchTags(gctx, phrase, u.take)
			if err != nil {
				return u.absorb(gctx, "tag_search_failed", phrase, err)
			}
			resolved.Sets[i].TagIDs = ids
			return nil
		})

		g.Go(func() error {
			ids, err := u.entities.SearchEntities(gctx, phrase, u.take)
			if err != nil {
				return u.absorb(gctx, "entity_search_failed", phrase, err)
			}
			resolved.Sets[i].EntityIDs = ids
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	u.logger.Info("tags_resolved",
		slog.Int("phrases", len(phrases)),
		slog.Int("tag_ids", len(resolved.TagIDs())),
		slog.Int("entity_ids", len(resolved.EntityIDs())))
	return resolved, nil
}

// absorb logs a per-phrase lookup failure and swallows it unless the whole
// invocation was cancelled, in which case the cancellation propagates.
func (u *resolveTagsUsecase) absorb(ctx context.Context, event, phrase string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctx.Err() != nil {
			return err
		}
	}
	u.logger.Warn(event,
		slog.String("phrase", phrase),
		slog.String("error", err.Error()))
	return nil
}
