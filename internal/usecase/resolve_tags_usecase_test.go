package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taste-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher serves canned ids per phrase for both search kinds, with
// optional per-phrase errors and delays to exercise the concurrent path.
type fakeSearcher struct {
	mu       sync.Mutex
	tagIDs   map[string][]string
	entIDs   map[string][]string
	fail     map[string]bool
	delay    map[string]time.Duration
	takeSeen []int
}

func (f *fakeSearcher) SearchTags(ctx context.Context, query string, take int) ([]string, error) {
	return f.lookup(ctx, f.tagIDs, query, take)
}

func (f *fakeSearcher) SearchEntities(ctx context.Context, query string, take int) ([]string, error) {
	return f.lookup(ctx, f.entIDs, query, take)
}

func (f *fakeSearcher) lookup(ctx context.Context, table map[string][]string, query string, take int) ([]string, error) {
	if d := f.delay[query]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	f.takeSeen = append(f.takeSeen, take)
	f.mu.Unlock()
	if f.fail[query] {
		return nil, errors.New("search unavailable")
	}
	return table[query], nil
}

func TestResolveTags_PhraseOrderPreserved(t *testing.T) {
	searcher := &fakeSearcher{
		tagIDs: map[string][]string{
			"relaxing": {"urn:tag:calm", "urn:tag:slow"},
			"beach":    {"urn:tag:coastal"},
		},
		entIDs: map[string][]string{
			"relaxing": {"urn:entity:spa"},
			"beach":    {"urn:entity:kohlanta", "urn:entity:phuket"},
		},
		// First phrase finishes last; flattened order must still be
		// phrase order, not completion order.
		delay: map[string]time.Duration{"relaxing": 30 * time.Millisecond},
	}

	uc := usecase.NewResolveTagsUsecase(searcher, searcher, 3, testLogger())
	resolved, err := uc.Execute(context.Background(), []string{"relaxing", "beach"})

	require.NoError(t, err)
	assert.Equal(t, []string{"urn:tag:calm", "urn:tag:slow", "urn:tag:coastal"}, resolved.TagIDs())
	assert.Equal(t, []string{"urn:entity:spa", "urn:entity:kohlanta", "urn:entity:phuket"}, resolved.EntityIDs())
}

func TestResolveTags_FailedPhraseContributesNothing(t *testing.T) {
	searcher := &fakeSearcher{
		tagIDs: map[string][]string{
			"lo-fi":  {"urn:tag:lofi"},
			"ghibli": {"urn:tag:ghibli"},
		},
		entIDs: map[string][]string{
			"lo-fi":  {"urn:entity:lofi-girl"},
			"ghibli": {"urn:entity:totoro"},
		},
		fail: map[string]bool{"ghibli": true},
	}

	uc := usecase.NewResolveTagsUsecase(searcher, searcher, 3, testLogger())
	resolved, err := uc.Execute(context.Background(), []string{"lo-fi", "ghibli"})

	require.NoError(t, err)
	assert.Equal(t, []string{"urn:tag:lofi"}, resolved.TagIDs())
	assert.Equal(t, []string{"urn:entity:lofi-girl"}, resolved.EntityIDs())
}

func TestResolveTags_DuplicatesKept(t *testing.T) {
	searcher := &fakeSearcher{
		tagIDs: map[string][]string{
			"calm":  {"urn:tag:calm"},
			"quiet": {"urn:tag:calm"},
		},
		entIDs: map[string][]string{},
	}

	uc := usecase.NewResolveTagsUsecase(searcher, searcher, 3, testLogger())
	resolved, err := uc.Execute(context.Background(), []string{"calm", "quiet"})

	require.NoError(t, err)
	assert.Equal(t, []string{"urn:tag:calm", "urn:tag:calm"}, resolved.TagIDs())
}

func TestResolveTags_EmptyPhrases(t *testing.T) {
	searcher := &fakeSearcher{}
	uc := usecase.NewResolveTagsUsecase(searcher, searcher, 3, testLogger())

	resolved, err := uc.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resolved.TagIDs())
	assert.Empty(t, resolved.EntityIDs())
}

func TestResolveTags_TakeCapForwarded(t *testing.T) {
	searcher := &fakeSearcher{
		tagIDs: map[string][]string{"noir": {"urn:tag:noir"}},
		entIDs: map[string][]string{"noir": {"urn:entity:noir"}},
	}

	uc := usecase.NewResolveTagsUsecase(searcher, searcher, 3, testLogger())
	_, err := uc.Execute(context.Background(), []string{"noir"})

	require.NoError(t, err)
	for _, take := range searcher.takeSeen {
		assert.Equal(t, 3, take)
	}
}

func TestResolveTags_CancellationPropagates(t *testing.T) {
	searcher := &fakeSearcher{
		tagIDs: map[string][]string{"slow": {"urn:tag:slow"}},
		entIDs: map[string][]string{"slow": {"urn:entity:slow"}},
		delay:  map[string]time.Duration{"slow": time.Second},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := usecase.NewResolveTagsUsecase(searcher, searcher, 3, testLogger())
	_, err := uc.Execute(ctx, []string{"slow"})
	assert.Error(t, err)
}
