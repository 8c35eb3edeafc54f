package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/index"
	"github.com/proxima-io/go-proximity-engine/internal/errors"
	"github.com/proxima-io/go-proximity-engine/internal/persistence"
	"github.com/proxima-io/go-proximity-engine/model"
	"github.com/proxima-io/go-proximity-engine/store"
)

const (
	dataDirPerm       = 0750
	settingsFile      = "settings.gob"
	invertedIndexFile = "inverted_index.gob"
	documentStoreFile = "document_store.gob"
)

// loadIndexesFromDisk scans the data directory and rebuilds every index
// whose settings file can be read. A broken index is skipped with a
// warning, never fatal.
func (e *Engine) loadIndexesFromDisk() {
	if err := os.MkdirAll(e.dataDir, dataDirPerm); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v. Proceeding without persistence.", e.dataDir, err)
		return
	}

	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		log.Printf("Warning: Failed to read data directory %s: %v. No indexes loaded.", e.dataDir, err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		indexName := item.Name()
		indexPath := filepath.Join(e.dataDir, indexName)

		var settings config.IndexSettings
		settingsPath := filepath.Join(indexPath, settingsFile)
		if err := persistence.LoadGob(settingsPath, &settings); err != nil {
			log.Printf("Warning: Failed to load settings for index %s from %s: %v. Skipping this index.", indexName, settingsPath, err)
			continue
		}
		if settings.Name != indexName {
			log.Printf("Warning: Index name in settings ('%s') does not match directory name ('%s') for path %s. Skipping this index.", settings.Name, indexName, indexPath)
			continue
		}
		settings.ApplyDefaults()

		docStore := &store.DocumentStore{}
		dsPath := filepath.Join(indexPath, documentStoreFile)
		if err := persistence.LoadGob(dsPath, docStore); err != nil {
			if err != os.ErrNotExist {
				log.Printf("Warning: Failed to load document store for index %s from %s: %v. Proceeding with empty store.", indexName, dsPath, err)
			}
			docStore.Docs = make(map[uint32]model.Document)
			docStore.ExternalIDtoInternalID = make(map[string]uint32)
		}

		invIndex := &index.InvertedIndex{Settings: &settings}
		iiPath := filepath.Join(indexPath, invertedIndexFile)
		if err := persistence.LoadGob(iiPath, invIndex); err != nil {
			if err != os.ErrNotExist {
				log.Printf("Warning: Failed to load inverted index for index %s from %s: %v. Proceeding with empty index.", indexName, iiPath, err)
			}
			invIndex.Index = make(map[string]index.PostingList)
		}
		// The decoded index carries its own settings copy; keep every
		// component on the one loaded (and defaulted) instance.
		invIndex.Settings = &settings

		instance, err := newIndexInstance(&settings, invIndex, docStore, e.workers, e.cacheTTL, e.metrics)
		if err != nil {
			log.Printf("Error assembling loaded index %s: %v. Skipping.", indexName, err)
			continue
		}

		e.indexes[indexName] = instance
		log.Printf("Loaded index '%s' (%d documents).", indexName, len(docStore.Docs))
	}
}

// PersistIndexData saves the current inverted index and document store of
// one index. Called after document mutations.
func (e *Engine) PersistIndexData(indexName string) error {
	e.mu.RLock()
	instance, exists := e.indexes[indexName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewIndexNotFoundError(indexName)
	}

	indexPath := filepath.Join(e.dataDir, indexName)

	// InvertedIndex and DocumentStore take their own read locks in GobEncode.
	if err := persistence.SaveGob(filepath.Join(indexPath, invertedIndexFile), instance.InvertedIndex); err != nil {
		return fmt.Errorf("failed to save inverted index for %s: %w", indexName, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore); err != nil {
		return fmt.Errorf("failed to save document store for %s: %w", indexName, err)
	}
	return nil
}
