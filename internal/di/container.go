package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taste-orchestrator/internal/adapter/gemini"
	"taste-orchestrator/internal/adapter/ollama"
	"taste-orchestrator/internal/adapter/qloo"
	"taste-orchestrator/internal/adapter/taste_http"
	"taste-orchestrator/internal/domain"
	"taste-orchestrator/internal/infra/config"
	"taste-orchestrator/internal/infra/httpclient"
	"taste-orchestrator/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Generator domain.TextGenerator
	Graph     domain.CultureGraph

	TastePipeline usecase.PipelineUsecase
	TripPipeline  usecase.PipelineUsecase

	Handler *taste_http.Handler
}

// NewApplicationComponents wires config → adapters → usecases → handler.
// The two pipeline variants share every stage except narrative style,
// filter dialect, and the set of queryable domains.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	qlooHTTP := httpclient.NewPooledClient(time.Duration(cfg.Qloo.Timeout) * time.Second)
	graph := qloo.NewClient(cfg.Qloo.BaseURL, cfg.Qloo.APIKey, qlooHTTP)

	extract := usecase.NewExtractIntentUsecase(generator, log)
	resolve := usecase.NewResolveTagsUsecase(graph, graph, cfg.Qloo.SearchTake, log)
	synthesize := usecase.NewSynthesizeUsecase(generator, log)

	tasteFetch := usecase.NewFetchRecommendationsUsecase(graph, domain.DialectSignal, cfg.Pipeline.DefaultTake, log)
	tastePipeline := usecase.NewPipelineUsecase(
		usecase.PipelineConfig{
			Name:           "taste",
			Style:          usecase.StylePlain,
			Dialect:        domain.DialectSignal,
			AllowedDomains: domain.AllDomains,
			DefaultTake:    cfg.Pipeline.DefaultTake,
		},
		extract, resolve, tasteFetch, synthesize, log,
	)

	tripFetch := usecase.NewFetchRecommendationsUsecase(graph, domain.DialectFilter, cfg.Pipeline.DefaultTake, log)
	tripPipeline := usecase.NewPipelineUsecase(
		usecase.PipelineConfig{
			Name:           "trip",
			Style:          usecase.StyleItinerary,
			Dialect:        domain.DialectFilter,
			AllowedDomains: []domain.EntityDomain{domain.DomainPlace},
			DefaultTake:    cfg.Pipeline.DefaultTake,
		},
		extract, resolve, tripFetch, synthesize, log,
	)

	handler := taste_http.NewHandler(tastePipeline, tripPipeline, taste_http.Limits{
		MaxMessages:        cfg.Pipeline.MaxMessages,
		MaxTranscriptBytes: cfg.Pipeline.MaxTranscriptBytes,
	})

	return &ApplicationComponents{
		Generator:     generator,
		Graph:         graph,
		TastePipeline: tastePipeline,
		TripPipeline:  tripPipeline,
		Handler:       handler,
	}, nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (domain.TextGenerator, error) {
	switch cfg.Backend {
	case "ollama":
		httpClient := httpclient.NewPooledClient(time.Duration(cfg.Ollama.Timeout) * time.Second)
		return ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.Model, httpClient), nil
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
		return gemini.NewClient(ctx,
			cfg.Gemini.APIKey,
			cfg.Gemini.Model,
			time.Duration(cfg.Gemini.Timeout)*time.Second,
			cfg.Gemini.RPS,
			cfg.Gemini.Burst,
		)
	default:
		return nil, fmt.Errorf("unknown text backend %q", cfg.Backend)
	}
}
