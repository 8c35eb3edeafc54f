package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testhelpers "github.com/proxima-io/go-proximity-engine/internal/testing"
	"github.com/proxima-io/go-proximity-engine/services"
)

// End-to-end flow through the public engine surface: create an index, load
// documents, and run free-term and proximity queries against it.
func TestEngineEndToEnd(t *testing.T) {
	eng := testhelpers.CreateTestEngine(t)
	accessor := testhelpers.CreateTestIndex(t, eng, "articles", "title", "body")
	testhelpers.AddDocuments(t, accessor, testhelpers.SampleArticles())

	result, err := accessor.Search(services.SearchQuery{QueryString: "quick fox"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo"}, testhelpers.HitIDs(result))

	result, err = accessor.Search(services.SearchQuery{
		Proximity: &services.ProximityClause{Distance: 2, Terms: []string{"quick", "fox"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, testhelpers.HitIDs(result))

	require.NoError(t, accessor.DeleteDocument("alpha"))
	result, err = accessor.Search(services.SearchQuery{
		Proximity: &services.ProximityClause{Distance: 2, Terms: []string{"quick", "fox"}},
	})
	require.NoError(t, err)
	assert.Empty(t, testhelpers.HitIDs(result))
}
