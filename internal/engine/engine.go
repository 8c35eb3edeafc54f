package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/internal/errors"
	"github.com/proxima-io/go-proximity-engine/internal/metrics"
	"github.com/proxima-io/go-proximity-engine/services"
)

// Engine manages multiple proximity search indexes.
// It implements the services.IndexManager interface.
type Engine struct {
	mu       sync.RWMutex
	indexes  map[string]*IndexInstance
	dataDir  string
	workers  int
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewEngine creates a new engine orchestrator using the given server
// configuration and loads any previously persisted indexes from the data
// directory. A nil metrics value disables metric recording.
func NewEngine(cfg config.ServerConfig, m *metrics.Metrics) *Engine {
	eng := &Engine{
		indexes:  make(map[string]*IndexInstance),
		dataDir:  cfg.DataDir,
		workers:  cfg.SearchWorkers,
		cacheTTL: cfg.CacheTTL,
		metrics:  m,
	}
	eng.loadIndexesFromDisk()
	return eng
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, errors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// GetIndexSettings retrieves the settings for a specific index.
func (e *Engine) GetIndexSettings(name string) (config.IndexSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return config.IndexSettings{}, errors.NewIndexNotFoundError(name)
	}
	return *instance.settings, nil // Return a copy
}

// ListIndexes returns the sorted names of all loaded indexes.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
