// Package api provides the HTTP surface of the proximity engine: index and
// document management plus the search endpoint with within-distance
// predicates.
package api

import (
	"fmt"
	"strings"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateIndexName validates an index name parameter
func ValidateIndexName(indexName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if indexName == "" {
		result.AddError("indexName", "Index name is required")
		return result
	}
	if strings.TrimSpace(indexName) != indexName {
		result.AddError("indexName", "Index name cannot have leading or trailing whitespace")
	}
	return result
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("documentID", "Document ID is required")
		return result
	}
	if strings.TrimSpace(documentID) != documentID {
		result.AddError("documentID", "Document ID cannot have leading or trailing whitespace")
	}
	return result
}

// ValidateIndexSettings validates index settings for creation. Defaults are
// applied before validation so a minimal request body is accepted.
func ValidateIndexSettings(settings *config.IndexSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Index settings are required")
		return result
	}

	settings.ApplyDefaults()
	for _, problem := range settings.Validate() {
		result.AddError("settings", problem)
	}
	return result
}

// ValidateDocuments checks that every document carries a usable documentID.
func ValidateDocuments(docs []model.Document) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(docs) == 0 {
		result.AddError("documents", "No documents provided")
		return result
	}

	for i, doc := range docs {
		idValue, exists := doc["documentID"]
		if !exists {
			result.AddError("documentID", fmt.Sprintf("Document at index %d must have a 'documentID' field", i))
			continue
		}
		idString, isString := idValue.(string)
		if !isString {
			result.AddError("documentID", fmt.Sprintf("Document at index %d has documentID of type %T (expected string)", i, idValue))
			continue
		}
		if strings.TrimSpace(idString) == "" {
			result.AddError("documentID", fmt.Sprintf("Document at index %d has an empty documentID", i))
		}
	}
	return result
}

// ValidateSearchRequest checks the parts of a search request that can be
// rejected without touching the index.
func ValidateSearchRequest(req *SearchRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req.Page < 0 {
		result.AddError("page", "Page cannot be negative")
	}
	if req.PageSize < 0 {
		result.AddError("page_size", "Page size cannot be negative")
	}
	if req.PageSize > 100 {
		result.AddError("page_size", "Page size cannot exceed 100")
	}

	if req.Proximity != nil {
		if req.Proximity.Distance < 0 {
			result.AddError("proximity.distance", "Distance cannot be negative")
		}
		if len(req.Proximity.Terms) == 0 {
			result.AddError("proximity.terms", "At least one term is required")
		}
		for i, term := range req.Proximity.Terms {
			if strings.TrimSpace(term) == "" {
				result.AddError("proximity.terms", fmt.Sprintf("Term at index %d is empty", i))
			}
		}
	}
	return result
}
