package search

import "github.com/proxima-io/go-proximity-engine/model"

// candidateHit represents a document candidate during search processing.
type candidateHit struct {
	externalID    string
	doc           model.Document
	matchedFields []string // fields where the within predicate held, nil without a predicate
}
