package qloo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"taste-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", srv.Client()), srv
}

func TestSearchTags(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	var gotKey string

	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("x-api-key")
		_, _ = w.Write([]byte(`{"results":{"tags":[{"id":"urn:tag:genre:horror"},{"id":""},{"id":"urn:tag:mood:dark"}]}}`))
	})

	ids, err := client.SearchTags(context.Background(), "scary", 3)
	require.NoError(t, err)

	assert.Equal(t, "/v2/tags/search", gotPath)
	assert.Equal(t, "scary", gotQuery.Get("query"))
	assert.Equal(t, "3", gotQuery.Get("take"))
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, []string{"urn:tag:genre:horror", "urn:tag:mood:dark"}, ids)
}

func TestSearchEntities(t *testing.T) {
	var gotPath string
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"results":{"entities":[{"id":"urn:entity:ABC"}]}}`))
	})

	ids, err := client.SearchEntities(context.Background(), "studio ghibli", 3)
	require.NoError(t, err)
	assert.Equal(t, "/v2/entities/search", gotPath)
	assert.Equal(t, []string{"urn:entity:ABC"}, ids)
}

func TestInsights_FilterDialect(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"results":{"entities":[
			{"name":"Koh Lanta","description":"Quiet island","affinity":0.92},
			{"name":"Railay Beach","affinity_score":0.87}
		]}}`))
	})

	entities, err := client.Insights(context.Background(), domain.InsightsQuery{
		Domain:    domain.DomainPlace,
		Take:      6,
		Location:  "Thailand",
		TimeStart: "2025-08-10",
		TimeEnd:   "2025-08-17",
		TagIDs:    []string{"urn:tag:beach", "urn:tag:calm"},
		EntityIDs: []string{"urn:entity:X"},
		Dialect:   domain.DialectFilter,
	})
	require.NoError(t, err)

	assert.Equal(t, "urn:entity:place", gotQuery.Get("filter.type"))
	assert.Equal(t, "6", gotQuery.Get("take"))
	assert.Equal(t, "Thailand", gotQuery.Get("filter.location.query"))
	assert.Equal(t, "2025-08-10", gotQuery.Get("filter.time.start"))
	assert.Equal(t, "2025-08-17", gotQuery.Get("filter.time.end"))
	assert.Equal(t, "urn:tag:beach,urn:tag:calm", gotQuery.Get("filter.tags"))
	assert.Equal(t, "urn:entity:X", gotQuery.Get("filter.entities"))
	assert.Empty(t, gotQuery.Get("signal.interests.tags"))

	require.Len(t, entities, 2)
	assert.Equal(t, "Koh Lanta", entities[0].Name)
	assert.InDelta(t, 0.92, entities[0].Affinity, 1e-9)
	// affinity_score is the fallback when affinity is absent.
	assert.InDelta(t, 0.87, entities[1].Affinity, 1e-9)
}

func TestInsights_SignalDialect(t *testing.T) {
	var gotQuery url.Values
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"results":{"entities":[]}}`))
	})

	_, err := client.Insights(context.Background(), domain.InsightsQuery{
		Domain:  domain.DomainMovie,
		Take:    8,
		TagIDs:  []string{"urn:tag:horror"},
		Dialect: domain.DialectSignal,
	})
	require.NoError(t, err)

	assert.Equal(t, "urn:tag:horror", gotQuery.Get("signal.interests.tags"))
	assert.Empty(t, gotQuery.Get("filter.tags"))
	// Optional params stay off the wire when unset.
	assert.False(t, gotQuery.Has("filter.location.query"))
	assert.False(t, gotQuery.Has("filter.time.start"))
}

func TestInsights_EmptyResultIsNotError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":{"entities":[]}}`))
	})

	entities, err := client.Insights(context.Background(), domain.InsightsQuery{
		Domain: domain.DomainBook,
		Take:   8,
	})
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestGet_Non2xxStatus(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.SearchTags(context.Background(), "anything", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGet_MalformedBody(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.SearchEntities(context.Background(), "anything", 3)
	assert.Error(t, err)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://example.com/", "k", http.DefaultClient)
	assert.Equal(t, "https://example.com", client.BaseURL)
}
