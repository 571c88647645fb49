// Package qloo is the HTTP adapter for the cultural-graph service: tag
// search, entity search, and the insights endpoint. Authentication is a
// per-request x-api-key header; timeouts come from the injected http.Client.
package qloo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"taste-orchestrator/internal/domain"
)

// Client talks to one cultural-graph deployment.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewClient constructs the adapter over a shared pooled http.Client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  httpClient,
	}
}

type tagSearchResponse struct {
	Results struct {
		Tags []struct {
			ID string `json:"id"`
		} `json:"tags"`
	} `json:"results"`
}

type entitySearchResponse struct {
	Results struct {
		Entities []struct {
			ID string `json:"id"`
		} `json:"entities"`
	} `json:"results"`
}

type insightsResponse struct {
	Results struct {
		Entities []wireEntity `json:"entities"`
	} `json:"results"`
}

type wireEntity struct {
	Name          string  `json:"name"`
	Year          int     `json:"year,omitempty"`
	Description   string  `json:"description,omitempty"`
	Affinity      float64 `json:"affinity,omitempty"`
	AffinityScore float64 `json:"affinity_score,omitempty"`
}

// SearchTags resolves a free-text phrase to canonical tag ids, capped at take.
func (c *Client) SearchTags(ctx context.Context, query string, take int) ([]string, error) {
	var parsed tagSearchResponse
	if err := c.get(ctx, "/v2/tags/search", searchParams(query, take), &parsed); err != nil {
		return nil, fmt.Errorf("tag search: %w", err)
	}
	ids := make([]string, 0, len(parsed.Results.Tags))
	for _, t := range parsed.Results.Tags {
		if t.ID != "" {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

// SearchEntities resolves a free-text phrase to canonical entity ids, capped at take.
func (c *Client) SearchEntities(ctx context.Context, query string, take int) ([]string, error) {
	var parsed entitySearchResponse
	if err := c.get(ctx, "/v2/entities/search", searchParams(query, take), &parsed); err != nil {
		return nil, fmt.Errorf("entity search: %w", err)
	}
	ids := make([]string, 0, len(parsed.Results.Entities))
	for _, e := range parsed.Results.Entities {
		if e.ID != "" {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}

// Insights fetches ranked entities for one domain. An empty result list with
// a nil error is legitimate; only transport and non-2xx responses error.
func (c *Client) Insights(ctx context.Context, query domain.InsightsQuery) ([]domain.RankedEntity, error) {
	params := url.Values{}
	params.Set("filter.type", query.Domain.URN())
	params.Set("take", strconv.Itoa(query.Take))
	if query.Location != "" {
		params.Set("filter.location.query", query.Location)
	}
	if query.TimeStart != "" {
		params.Set("filter.time.start", query.TimeStart)
	}
	if query.TimeEnd != "" {
		params.Set("filter.time.end", query.TimeEnd)
	}

	tagParam, entityParam := dialectParams(query.Dialect)
	if len(query.TagIDs) > 0 {
		params.Set(tagParam, strings.Join(query.TagIDs, ","))
	}
	if len(query.EntityIDs) > 0 {
		params.Set(entityParam, strings.Join(query.EntityIDs, ","))
	}

	var parsed insightsResponse
	if err := c.get(ctx, "/v2/insights", params, &parsed); err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}

	entities := make([]domain.RankedEntity, 0, len(parsed.Results.Entities))
	for _, e := range parsed.Results.Entities {
		affinity := e.Affinity
		if affinity == 0 {
			affinity = e.AffinityScore
		}
		entities = append(entities, domain.RankedEntity{
			Name:        e.Name,
			Year:        e.Year,
			Description: e.Description,
			Affinity:    affinity,
		})
	}
	return entities, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := fmt.Sprintf("%s%s?%s", c.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func searchParams(query string, take int) url.Values {
	params := url.Values{}
	params.Set("query", query)
	params.Set("take", strconv.Itoa(take))
	return params
}

func dialectParams(dialect domain.FilterDialect) (tagParam, entityParam string) {
	if dialect == domain.DialectSignal {
		return "signal.interests.tags", "signal.interests.entities"
	}
	return "filter.tags", "filter.entities"
}

var _ domain.CultureGraph = (*Client)(nil)
