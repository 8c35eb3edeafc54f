package engine

import (
	"fmt"
	"time"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/index"
	"github.com/proxima-io/go-proximity-engine/internal/indexing"
	"github.com/proxima-io/go-proximity-engine/internal/metrics"
	"github.com/proxima-io/go-proximity-engine/internal/search"
	"github.com/proxima-io/go-proximity-engine/model"
	"github.com/proxima-io/go-proximity-engine/services"
	"github.com/proxima-io/go-proximity-engine/store"
)

// IndexInstance holds all components and services for a single index.
// It implements the services.IndexAccessor interface. Searches go through
// the query cache; document mutations invalidate it.
type IndexInstance struct {
	settings      *config.IndexSettings
	InvertedIndex *index.InvertedIndex
	DocumentStore *store.DocumentStore
	indexer       *indexing.Service
	searcher      services.Searcher
	cache         *search.QueryCache
	metrics       *metrics.Metrics
}

// newIndexInstance creates and initializes an IndexInstance around the given
// (possibly pre-populated) inverted index and document store.
func newIndexInstance(settings *config.IndexSettings, invIndex *index.InvertedIndex, docStore *store.DocumentStore, workers int, cacheTTL time.Duration, m *metrics.Metrics) (*IndexInstance, error) {
	if settings.Name == "" {
		return nil, fmt.Errorf("index name cannot be empty in settings")
	}

	indexerService, err := indexing.NewService(invIndex, docStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}

	searchService, err := search.NewService(invIndex, docStore, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}
	searchService.SetWorkers(workers)
	searchService.SetMetrics(m)

	cache := search.NewQueryCache(searchService, cacheTTL)
	cache.SetMetrics(m)

	return &IndexInstance{
		settings:      settings,
		InvertedIndex: invIndex,
		DocumentStore: docStore,
		indexer:       indexerService,
		searcher:      cache,
		cache:         cache,
		metrics:       m,
	}, nil
}

// NewIndexInstance creates an IndexInstance with fresh, empty storage.
func NewIndexInstance(settings config.IndexSettings, workers int, cacheTTL time.Duration, m *metrics.Metrics) (*IndexInstance, error) {
	docStore := &store.DocumentStore{
		Docs:                   make(map[uint32]model.Document),
		ExternalIDtoInternalID: make(map[string]uint32),
		NextID:                 0,
	}
	invIndex := &index.InvertedIndex{
		Index:    make(map[string]index.PostingList),
		Settings: &settings,
	}
	return newIndexInstance(&settings, invIndex, docStore, workers, cacheTTL, m)
}

// AddDocuments delegates to the underlying Indexer service and drops any
// cached query results.
func (i *IndexInstance) AddDocuments(docs []model.Document) error {
	if err := i.indexer.AddDocuments(docs); err != nil {
		return err
	}
	i.cache.Invalidate()
	if i.metrics != nil {
		i.metrics.DocumentsIndexedTotal.Add(float64(len(docs)))
	}
	return nil
}

// DeleteAllDocuments delegates to the underlying Indexer service and drops
// any cached query results.
func (i *IndexInstance) DeleteAllDocuments() error {
	if err := i.indexer.DeleteAllDocuments(); err != nil {
		return err
	}
	i.cache.Invalidate()
	return nil
}

// DeleteDocument delegates to the underlying Indexer service and drops any
// cached query results.
func (i *IndexInstance) DeleteDocument(docID string) error {
	if err := i.indexer.DeleteDocument(docID); err != nil {
		return err
	}
	i.cache.Invalidate()
	return nil
}

// Search delegates to the cached searcher.
func (i *IndexInstance) Search(query services.SearchQuery) (services.SearchResult, error) {
	return i.searcher.Search(query)
}

// Settings returns a copy of the configuration settings for this index.
func (i *IndexInstance) Settings() config.IndexSettings {
	return *i.settings
}
