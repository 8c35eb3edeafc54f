// Package config provides configuration structures for the proximity engine.
// It defines index settings and the server configuration file format.
package config

import (
	"strings"
)

// IndexSettings contains all configuration options for a search index.
// SearchableFields are the document fields that get tokenized with positions
// and can carry proximity (within) predicates.
type IndexSettings struct {
	Name             string   `json:"name"`              // Unique name for the index
	SearchableFields []string `json:"searchable_fields"` // Fields that are tokenized and searchable (e.g., ["title", "body"])

	// DefaultDistance is the window bound applied when a within predicate
	// omits its distance. MaxDistance caps the distance a query may request;
	// 0 means uncapped.
	DefaultDistance int `json:"default_distance"`
	MaxDistance     int `json:"max_distance"`
}

// Validate checks the settings for basic consistency and returns a list of
// human-readable problems, empty when the settings are usable.
func (settings *IndexSettings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.Name) == "" {
		problems = append(problems, "Index name cannot be empty or whitespace-only")
	}

	if len(settings.SearchableFields) == 0 {
		problems = append(problems, "At least one searchable field is required")
	}
	seen := make(map[string]bool)
	for _, field := range settings.SearchableFields {
		if strings.TrimSpace(field) == "" {
			problems = append(problems, "Field name cannot be empty or whitespace-only")
			continue
		}
		if seen[field] {
			problems = append(problems, "Duplicate field '"+field+"' found in searchable_fields")
		}
		seen[field] = true
	}

	if settings.DefaultDistance < 0 {
		problems = append(problems, "default_distance cannot be negative")
	}
	if settings.MaxDistance < 0 {
		problems = append(problems, "max_distance cannot be negative")
	}
	if settings.MaxDistance > 0 && settings.DefaultDistance > settings.MaxDistance {
		problems = append(problems, "default_distance cannot exceed max_distance")
	}

	return problems
}

// ApplyDefaults applies default values to the index settings
func (settings *IndexSettings) ApplyDefaults() {
	if settings.DefaultDistance == 0 {
		settings.DefaultDistance = 5
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.SearchableFields == nil {
		settings.SearchableFields = []string{}
	}
}
