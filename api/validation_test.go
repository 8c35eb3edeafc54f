package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/model"
)

func TestValidateIndexName(t *testing.T) {
	assert.True(t, ValidateIndexName("articles").Valid)
	assert.False(t, ValidateIndexName("").Valid)
	assert.False(t, ValidateIndexName(" articles ").Valid)
}

func TestValidateDocumentID(t *testing.T) {
	assert.True(t, ValidateDocumentID("doc-1").Valid)
	assert.False(t, ValidateDocumentID("").Valid)
	assert.False(t, ValidateDocumentID(" doc-1").Valid)
}

func TestValidateIndexSettings(t *testing.T) {
	valid := &config.IndexSettings{Name: "articles", SearchableFields: []string{"body"}}
	assert.True(t, ValidateIndexSettings(valid).Valid)
	assert.Equal(t, 5, valid.DefaultDistance, "defaults should be applied during validation")

	assert.False(t, ValidateIndexSettings(nil).Valid)
	assert.False(t, ValidateIndexSettings(&config.IndexSettings{SearchableFields: []string{"body"}}).Valid)
	assert.False(t, ValidateIndexSettings(&config.IndexSettings{Name: "x"}).Valid)
}

func TestValidateDocuments(t *testing.T) {
	valid := []model.Document{{"documentID": "a", "body": "text"}}
	assert.True(t, ValidateDocuments(valid).Valid)

	tests := []struct {
		name string
		docs []model.Document
	}{
		{"empty batch", nil},
		{"missing id", []model.Document{{"body": "text"}}},
		{"non-string id", []model.Document{{"documentID": 7}}},
		{"blank id", []model.Document{{"documentID": "  "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ValidateDocuments(tt.docs).Valid)
		})
	}
}

func TestValidateSearchRequest(t *testing.T) {
	ok := &SearchRequest{
		Query:     "quick",
		Proximity: &ProximityRequest{Distance: 3, Terms: []string{"quick", "fox"}},
	}
	assert.True(t, ValidateSearchRequest(ok).Valid)

	tests := []struct {
		name string
		req  SearchRequest
	}{
		{"negative page", SearchRequest{Page: -1}},
		{"negative page size", SearchRequest{PageSize: -1}},
		{"oversized page", SearchRequest{PageSize: 101}},
		{"negative distance", SearchRequest{Proximity: &ProximityRequest{Distance: -1, Terms: []string{"a"}}}},
		{"no proximity terms", SearchRequest{Proximity: &ProximityRequest{Distance: 2}}},
		{"blank proximity term", SearchRequest{Proximity: &ProximityRequest{Distance: 2, Terms: []string{"a", " "}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, ValidateSearchRequest(&tt.req).Valid)
		})
	}
}
