package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/proxima-io/go-proximity-engine/internal/metrics"
	"github.com/proxima-io/go-proximity-engine/services"
)

// QueryCache memoizes search results for a single index with a TTL.
// Concurrent identical queries are collapsed through singleflight so the
// underlying search runs once.
type QueryCache struct {
	searcher services.Searcher
	ttl      time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
	metrics *metrics.Metrics
}

type cacheEntry struct {
	result    services.SearchResult
	expiresAt time.Time
}

// NewQueryCache wraps a searcher with a TTL cache. A non-positive TTL
// disables caching and every call passes straight through.
func NewQueryCache(searcher services.Searcher, ttl time.Duration) *QueryCache {
	return &QueryCache{
		searcher: searcher,
		ttl:      ttl,
		entries:  make(map[string]cacheEntry),
	}
}

// SetMetrics attaches the engine's metric collectors.
func (qc *QueryCache) SetMetrics(m *metrics.Metrics) {
	qc.metrics = m
}

// Search implements services.Searcher. Cached results are returned with
// Cached set and a fresh Took; misses run the wrapped searcher.
func (qc *QueryCache) Search(query services.SearchQuery) (services.SearchResult, error) {
	if qc.ttl <= 0 {
		return qc.searcher.Search(query)
	}

	key := cacheKey(query)

	qc.mu.RLock()
	entry, found := qc.entries[key]
	qc.mu.RUnlock()
	if found && time.Now().Before(entry.expiresAt) {
		if qc.metrics != nil {
			qc.metrics.CacheHitsTotal.Inc()
		}
		cached := entry.result
		cached.Cached = true
		return cached, nil
	}

	if qc.metrics != nil {
		qc.metrics.CacheMissesTotal.Inc()
	}

	value, err, _ := qc.group.Do(key, func() (interface{}, error) {
		result, err := qc.searcher.Search(query)
		if err != nil {
			return services.SearchResult{}, err
		}
		qc.mu.Lock()
		qc.entries[key] = cacheEntry{result: result, expiresAt: time.Now().Add(qc.ttl)}
		qc.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return services.SearchResult{}, err
	}
	return value.(services.SearchResult), nil
}

// Invalidate drops all cached results. Called after any document mutation.
func (qc *QueryCache) Invalidate() {
	qc.mu.Lock()
	qc.entries = make(map[string]cacheEntry)
	qc.mu.Unlock()
}

// cacheKey derives a stable key from every query field that affects the
// result set.
func cacheKey(query services.SearchQuery) string {
	var b strings.Builder
	b.WriteString(query.QueryString)
	b.WriteString("|f:")
	b.WriteString(strings.Join(query.RestrictFields, ","))
	if query.Proximity != nil {
		fmt.Fprintf(&b, "|w:%d:%s", query.Proximity.Distance, strings.Join(query.Proximity.Terms, ","))
	}
	fmt.Fprintf(&b, "|p:%d:%d", query.Page, query.PageSize)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
