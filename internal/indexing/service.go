package indexing

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/proxima-io/go-proximity-engine/index"
	"github.com/proxima-io/go-proximity-engine/internal/errors"
	"github.com/proxima-io/go-proximity-engine/internal/tokenizer"
	"github.com/proxima-io/go-proximity-engine/model"
	"github.com/proxima-io/go-proximity-engine/store"
)

// Service implements the indexing logic for a single index.
// It fulfills the services.Indexer interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	// settings are accessible via invertedIndex.Settings
}

// NewService creates a new indexing Service.
// It assumes that invertedIndex and documentStore are properly initialized,
// and that invertedIndex.Settings is not nil.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if invertedIndex.Index == nil {
		invertedIndex.Index = make(map[string]index.PostingList)
	}
	if documentStore.Docs == nil {
		documentStore.Docs = make(map[uint32]model.Document)
	}
	if documentStore.ExternalIDtoInternalID == nil {
		documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	}
	if invertedIndex.Settings == nil {
		return nil, fmt.Errorf("inverted index settings cannot be nil")
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
	}, nil
}

// AddDocuments adds a batch of documents to the index.
// This satisfies the services.Indexer interface.
func (s *Service) AddDocuments(docs []model.Document) error {
	// Process documents in micro-batches to minimize lock contention and
	// allow search operations to interleave.
	const microBatchSize = 10

	for i := 0; i < len(docs); i += microBatchSize {
		end := i + microBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := s.addDocumentMicroBatch(docs[i:end]); err != nil {
			return fmt.Errorf("failed to add document micro-batch starting at index %d: %w", i, err)
		}

		// Yield between micro-batches so pending searches can acquire locks.
		if i+microBatchSize < len(docs) {
			time.Sleep(1 * time.Millisecond)
		}
	}
	return nil
}

// addDocumentMicroBatch processes a very small batch of documents with minimal lock time
func (s *Service) addDocumentMicroBatch(docs []model.Document) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	for _, doc := range docs {
		docIDForErrorReporting := "<unknown>"
		if idStr, ok := doc.GetDocumentID(); ok {
			docIDForErrorReporting = idStr
		}
		if err := s.addSingleDocumentUnsafe(doc); err != nil {
			return fmt.Errorf("failed to add document ID %s: %w", docIDForErrorReporting, err)
		}
	}
	return nil
}

// addSingleDocumentUnsafe handles the processing and indexing of a single document.
// It assumes that the caller already holds locks on documentStore and invertedIndex.
func (s *Service) addSingleDocumentUnsafe(doc model.Document) error {
	docIDStr, ok := doc.GetDocumentID()
	if !ok {
		return fmt.Errorf("document documentID not found in document map; documentID must be provided in the document data with key 'documentID'")
	}
	docIDStr = strings.TrimSpace(docIDStr)
	if docIDStr == "" {
		return fmt.Errorf("document documentID cannot be empty or whitespace-only")
	}

	settings := s.invertedIndex.Settings

	// 1. Get/Assign Internal ID
	internalID, exists := s.documentStore.ExternalIDtoInternalID[docIDStr]
	if exists {
		// Update: remove the old version's postings before re-indexing.
		if oldDoc, found := s.documentStore.Docs[internalID]; found {
			s.removeDocumentPostingsUnsafe(oldDoc, internalID)
		} else {
			log.Printf("Warning: Document with internalID %d found in ExternalIDtoInternalID but not in Docs. Cannot clean up old postings for documentID %s.\n", internalID, docIDStr)
		}
	} else {
		internalID = s.documentStore.NextID
		s.documentStore.ExternalIDtoInternalID[docIDStr] = internalID
		s.documentStore.NextID++
	}

	s.documentStore.Docs[internalID] = doc

	// 2. Index each searchable field with token positions.
	for _, fieldName := range settings.SearchableFields {
		fieldVal, fieldExists := doc[fieldName]
		if !fieldExists {
			continue
		}

		textContent := fieldTextContent(fieldVal)
		if strings.TrimSpace(textContent) == "" {
			continue
		}

		positionsByTerm := tokenizer.PositionsByTerm(textContent)
		for term, positions := range positionsByTerm {
			entry := index.PostingEntry{
				DocID:         internalID,
				FieldName:     fieldName,
				TermFrequency: len(positions),
				Positions:     positions,
			}
			s.insertPostingUnsafe(term, entry)
		}
	}
	return nil
}

// insertPostingUnsafe inserts an entry keeping the posting list sorted by
// DocID ascending, then FieldName ascending.
func (s *Service) insertPostingUnsafe(term string, entry index.PostingEntry) {
	postingList := s.invertedIndex.Index[term]

	insertionIdx := sort.Search(len(postingList), func(i int) bool {
		if postingList[i].DocID != entry.DocID {
			return postingList[i].DocID > entry.DocID
		}
		return postingList[i].FieldName >= entry.FieldName
	})

	// Replace an existing entry for the same (DocID, FieldName) pair.
	if insertionIdx < len(postingList) &&
		postingList[insertionIdx].DocID == entry.DocID &&
		postingList[insertionIdx].FieldName == entry.FieldName {
		postingList[insertionIdx] = entry
		return
	}

	postingList = append(postingList, index.PostingEntry{})
	copy(postingList[insertionIdx+1:], postingList[insertionIdx:])
	postingList[insertionIdx] = entry
	s.invertedIndex.Index[term] = postingList
}

// removeDocumentPostingsUnsafe strips every posting of one document from the
// inverted index, deleting terms whose lists become empty.
func (s *Service) removeDocumentPostingsUnsafe(doc model.Document, internalID uint32) {
	settings := s.invertedIndex.Settings

	for _, fieldName := range settings.SearchableFields {
		fieldVal, fieldExists := doc[fieldName]
		if !fieldExists {
			continue
		}

		textContent := fieldTextContent(fieldVal)
		if strings.TrimSpace(textContent) == "" {
			continue
		}

		for term := range tokenizer.PositionsByTerm(textContent) {
			postingList, found := s.invertedIndex.Index[term]
			if !found {
				continue
			}
			newList := make(index.PostingList, 0, len(postingList))
			for _, entry := range postingList {
				if entry.DocID != internalID || entry.FieldName != fieldName {
					newList = append(newList, entry)
				}
			}
			if len(newList) == 0 {
				delete(s.invertedIndex.Index, term)
			} else {
				s.invertedIndex.Index[term] = newList
			}
		}
	}
}

// fieldTextContent flattens a document field value into indexable text.
// JSON arrays are often unmarshalled to []interface{}.
func fieldTextContent(fieldVal interface{}) string {
	switch v := fieldVal.(type) {
	case string:
		return v
	case []interface{}:
		var parts []string
		for _, item := range v {
			if strItem, ok := item.(string); ok {
				parts = append(parts, strItem)
			}
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(v, " ")
	default:
		return ""
	}
}

// DeleteAllDocuments removes all documents from the index, clearing both the
// document store and inverted index.
// This satisfies the services.Indexer interface.
func (s *Service) DeleteAllDocuments() error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	s.documentStore.Docs = make(map[uint32]model.Document)
	s.documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	s.documentStore.NextID = 0

	s.invertedIndex.Index = make(map[string]index.PostingList)

	return nil
}

// DeleteDocument removes a specific document from the index by its external ID.
// This satisfies the services.Indexer interface.
func (s *Service) DeleteDocument(docID string) error {
	s.documentStore.Mu.Lock()
	s.invertedIndex.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	defer s.invertedIndex.Mu.Unlock()

	internalID, exists := s.documentStore.ExternalIDtoInternalID[docID]
	if !exists {
		return errors.NewDocumentNotFoundError(docID)
	}

	doc, docExists := s.documentStore.Docs[internalID]
	if !docExists {
		// Inconsistent state: clean up the mapping and report.
		delete(s.documentStore.ExternalIDtoInternalID, docID)
		return fmt.Errorf("document with ID '%s' found in mapping but not in store (inconsistent state)", docID)
	}

	s.removeDocumentPostingsUnsafe(doc, internalID)

	delete(s.documentStore.Docs, internalID)
	delete(s.documentStore.ExternalIDtoInternalID, docID)

	return nil
}
