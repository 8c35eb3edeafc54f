package services

import (
	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/model"
)

// ProximityClause is a within(distance, term1, term2, ...) predicate: the
// query matches a document only if some choice of one occurrence per term
// fits inside a window of at most Distance token offsets, in any order,
// within a single searchable field. Terms may repeat; repeated terms must
// match distinct occurrences.
type ProximityClause struct {
	Distance int      `json:"distance"` // Maximum span between the furthest-apart chosen occurrences; 0 falls back to the index default
	Terms    []string `json:"terms"`    // Ordered query terms, duplicates allowed
}

// HitResult represents a single document in the search results, including
// the document itself and the fields in which the proximity predicate (if
// any) was satisfied.
type HitResult struct {
	Document      model.Document `json:"document"`
	MatchedFields []string       `json:"matched_fields,omitempty"` // Fields where the within predicate held
}

type SearchResult struct {
	Hits     []HitResult `json:"hits"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Took     int64       `json:"took"`     // milliseconds
	QueryId  string      `json:"query_id"` // unique UUID for this search query
	Cached   bool        `json:"cached"`   // true when served from the query cache
}

type SearchQuery struct {
	QueryString    string           `json:"query"`                     // Free terms, AND semantics across terms
	Proximity      *ProximityClause `json:"proximity,omitempty"`       // Optional within predicate
	RestrictFields []string         `json:"restrict_fields,omitempty"` // Optional: subset of searchable fields to search in
	Page           int              `json:"page"`
	PageSize       int              `json:"page_size"`
}

// Indexer defines operations for adding data to an index
type Indexer interface {
	AddDocuments(docs []model.Document) error
	DeleteAllDocuments() error
	DeleteDocument(docID string) error
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(query SearchQuery) (SearchResult, error)
}

// IndexManager manages the lifecycle of indices
type IndexManager interface {
	CreateIndex(settings config.IndexSettings) error
	GetIndex(name string) (IndexAccessor, error)
	GetIndexSettings(name string) (config.IndexSettings, error)
	DeleteIndex(name string) error
	ListIndexes() []string
	PersistIndexData(indexName string) error
}

type IndexAccessor interface {
	Indexer
	Searcher
	Settings() config.IndexSettings
}
