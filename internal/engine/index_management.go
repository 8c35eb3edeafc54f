package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/internal/errors"
	"github.com/proxima-io/go-proximity-engine/internal/persistence"
)

// CreateIndex creates a new index with the given settings and persists its
// initial empty state.
func (e *Engine) CreateIndex(settings config.IndexSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return errors.NewValidationError("settings", strings.Join(problems, "; "))
	}
	if _, exists := e.indexes[settings.Name]; exists {
		return errors.NewIndexAlreadyExistsError(settings.Name)
	}

	instance, err := NewIndexInstance(settings, e.workers, e.cacheTTL, e.metrics)
	if err != nil {
		return fmt.Errorf("failed to create new index instance for '%s': %w", settings.Name, err)
	}

	indexPath := filepath.Join(e.dataDir, settings.Name)
	if err := os.MkdirAll(indexPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for index %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, settingsFile), settings); err != nil {
		return fmt.Errorf("failed to save settings for index %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, invertedIndexFile), instance.InvertedIndex); err != nil {
		return fmt.Errorf("failed to save initial inverted index for %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(indexPath, documentStoreFile), instance.DocumentStore); err != nil {
		return fmt.Errorf("failed to save initial document store for %s: %w", settings.Name, err)
	}

	e.indexes[settings.Name] = instance
	log.Printf("Index '%s' created and persisted.", settings.Name)
	return nil
}

// DeleteIndex removes an index by its name from memory and disk.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		// Stay idempotent against half-loaded state: a directory may exist
		// on disk even when the index never made it into memory.
		indexPath := filepath.Join(e.dataDir, name)
		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			return errors.NewIndexNotFoundError(name)
		}
	} else {
		delete(e.indexes, name)
	}

	indexPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("failed to delete index data directory %s: %w", indexPath, err)
	}
	log.Printf("Index '%s' deleted from memory and disk.", name)
	return nil
}
