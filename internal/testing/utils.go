// Package testing provides helpers shared by integration-style tests of the
// proximity engine.
package testing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/internal/engine"
	"github.com/proxima-io/go-proximity-engine/model"
	"github.com/proxima-io/go-proximity-engine/services"
)

// CreateTestEngine creates an engine backed by a per-test temp directory.
// Caching is disabled so mutations are immediately visible to assertions.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.DefaultServerConfig()
	cfg.DataDir = t.TempDir()
	cfg.CacheTTL = 0
	return engine.NewEngine(cfg, nil)
}

// CreateTestIndex creates an index with the given searchable fields and
// returns its accessor.
func CreateTestIndex(t *testing.T, eng *engine.Engine, name string, fields ...string) services.IndexAccessor {
	t.Helper()
	err := eng.CreateIndex(config.IndexSettings{
		Name:             name,
		SearchableFields: fields,
		DefaultDistance:  5,
	})
	require.NoError(t, err, "creating test index %q", name)

	accessor, err := eng.GetIndex(name)
	require.NoError(t, err, "fetching test index %q", name)
	return accessor
}

// SampleArticles returns a small corpus with known token positions, handy
// for proximity assertions.
func SampleArticles() []model.Document {
	return []model.Document{
		{"documentID": "alpha", "title": "quick fox", "body": "the quick brown fox jumps"},
		{"documentID": "bravo", "title": "silver business", "body": "quick decisions pay off when the silver fox appears"},
		{"documentID": "charlie", "title": "sleepy", "body": "the lazy dog sleeps all day"},
	}
}

// AddDocuments indexes docs into the accessor, failing the test on error.
func AddDocuments(t *testing.T, accessor services.IndexAccessor, docs []model.Document) {
	t.Helper()
	require.NoError(t, accessor.AddDocuments(docs), "adding test documents")
}

// HitIDs extracts the external document IDs of a search result in order.
func HitIDs(result services.SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if id, ok := hit.Document.GetDocumentID(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
