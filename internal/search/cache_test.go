package search

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/proxima-io/go-proximity-engine/services"
)

type countingSearcher struct {
	calls int32
	delay time.Duration
}

func (cs *countingSearcher) Search(query services.SearchQuery) (services.SearchResult, error) {
	atomic.AddInt32(&cs.calls, 1)
	if cs.delay > 0 {
		time.Sleep(cs.delay)
	}
	return services.SearchResult{Total: 1, QueryId: "test"}, nil
}

func TestQueryCache_HitAvoidsSecondSearch(t *testing.T) {
	backend := &countingSearcher{}
	cache := NewQueryCache(backend, time.Minute)

	query := services.SearchQuery{QueryString: "quick fox"}

	first, err := cache.Search(query)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if first.Cached {
		t.Error("first lookup should not be marked cached")
	}

	second, err := cache.Search(query)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !second.Cached {
		t.Error("second lookup should be served from the cache")
	}
	if calls := atomic.LoadInt32(&backend.calls); calls != 1 {
		t.Errorf("expected 1 backend call, got %d", calls)
	}
}

func TestQueryCache_DistinctQueriesMiss(t *testing.T) {
	backend := &countingSearcher{}
	cache := NewQueryCache(backend, time.Minute)

	queries := []services.SearchQuery{
		{QueryString: "quick fox"},
		{QueryString: "quick fox", Page: 2},
		{QueryString: "quick fox", RestrictFields: []string{"title"}},
		{QueryString: "quick fox", Proximity: &services.ProximityClause{Distance: 2, Terms: []string{"quick", "fox"}}},
	}
	for _, q := range queries {
		if _, err := cache.Search(q); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}
	if calls := atomic.LoadInt32(&backend.calls); calls != int32(len(queries)) {
		t.Errorf("expected %d backend calls, got %d", len(queries), calls)
	}
}

func TestQueryCache_InvalidateForcesRefresh(t *testing.T) {
	backend := &countingSearcher{}
	cache := NewQueryCache(backend, time.Minute)

	query := services.SearchQuery{QueryString: "quick fox"}
	if _, err := cache.Search(query); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	cache.Invalidate()
	result, err := cache.Search(query)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.Cached {
		t.Error("lookup after invalidation should not be served from the cache")
	}
	if calls := atomic.LoadInt32(&backend.calls); calls != 2 {
		t.Errorf("expected 2 backend calls, got %d", calls)
	}
}

func TestQueryCache_ZeroTTLPassesThrough(t *testing.T) {
	backend := &countingSearcher{}
	cache := NewQueryCache(backend, 0)

	query := services.SearchQuery{QueryString: "quick fox"}
	for i := 0; i < 3; i++ {
		result, err := cache.Search(query)
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.Cached {
			t.Error("caching should be disabled with a zero TTL")
		}
	}
	if calls := atomic.LoadInt32(&backend.calls); calls != 3 {
		t.Errorf("expected 3 backend calls, got %d", calls)
	}
}

func TestQueryCache_ConcurrentIdenticalQueriesCollapse(t *testing.T) {
	backend := &countingSearcher{delay: 20 * time.Millisecond}
	cache := NewQueryCache(backend, time.Minute)

	query := services.SearchQuery{QueryString: "quick fox"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Search(query); err != nil {
				t.Errorf("Search failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls := atomic.LoadInt32(&backend.calls); calls != 1 {
		t.Errorf("expected concurrent identical queries to collapse to 1 backend call, got %d", calls)
	}
}
