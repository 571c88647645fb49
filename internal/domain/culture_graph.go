package domain

import "context"

// FilterDialect selects how resolved identifiers are attached to an insights
// request. The service accepts both forms; which one a deployment should use
// depends on the account's API generation, so it is a configuration choice.
type FilterDialect string

const (
	// DialectFilter sends ids as filter.tags / filter.entities.
	DialectFilter FilterDialect = "filter"
	// DialectSignal sends ids as signal.interests.tags / signal.interests.entities.
	DialectSignal FilterDialect = "signal"
)

// TagSearcher resolves a free-text phrase to canonical tag identifiers.
type TagSearcher interface {
	SearchTags(ctx context.Context, query string, take int) ([]string, error)
}

// EntitySearcher resolves a free-text phrase to canonical entity identifiers.
type EntitySearcher interface {
	SearchEntities(ctx context.Context, query string, take int) ([]string, error)
}

// InsightsQuery is one per-domain request against the insights endpoint.
type InsightsQuery struct {
	Domain    EntityDomain
	Take      int
	Location  string
	TimeStart string
	TimeEnd   string
	TagIDs    []string
	EntityIDs []string
	Dialect   FilterDialect
}

// InsightsProvider returns ranked entities for one domain. An empty slice
// with a nil error is a legitimate outcome and must not be conflated with
// a transport failure.
type InsightsProvider interface {
	Insights(ctx context.Context, query InsightsQuery) ([]RankedEntity, error)
}

// CultureGraph bundles the three capabilities the backing cultural-graph
// service exposes. Adapters implement all of it; usecases depend only on
// the slice they need.
type CultureGraph interface {
	TagSearcher
	EntitySearcher
	InsightsProvider
}
