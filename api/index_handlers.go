package api

import (
	stdErrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/proxima-io/go-proximity-engine/config"
	"github.com/proxima-io/go-proximity-engine/internal/engine"
	internalErrors "github.com/proxima-io/go-proximity-engine/internal/errors"
)

// CreateIndexHandler handles the request to create a new index.
// Request Body: config.IndexSettings
func (api *API) CreateIndexHandler(c *gin.Context) {
	var settings config.IndexSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateIndexSettings(&settings); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	if err := api.engine.CreateIndex(settings); err != nil {
		switch {
		case stdErrors.Is(err, internalErrors.ErrIndexAlreadyExists):
			SendIndexExistsError(c, settings.Name)
		case stdErrors.Is(err, internalErrors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendInternalError(c, "index creation", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Index '" + settings.Name + "' created successfully"})
}

// ListIndexesHandler lists all available indexes.
func (api *API) ListIndexesHandler(c *gin.Context) {
	names := api.engine.ListIndexes()
	c.JSON(http.StatusOK, gin.H{"indexes": names, "count": len(names)})
}

// GetIndexHandler retrieves details about a specific index (its settings).
func (api *API) GetIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	settings, err := api.engine.GetIndexSettings(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// DeleteIndexHandler handles deleting an index.
func (api *API) DeleteIndexHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	if err := api.engine.DeleteIndex(indexName); err != nil {
		if stdErrors.Is(err, internalErrors.ErrIndexNotFound) {
			SendIndexNotFoundError(c, indexName)
			return
		}
		SendInternalError(c, "index deletion", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Index '" + indexName + "' deleted successfully"})
}

// GetIndexStatsHandler returns statistics for a specific index
func (api *API) GetIndexStatsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	settings := indexAccessor.Settings()

	documentCount := 0
	termCount := 0
	if instance, ok := indexAccessor.(*engine.IndexInstance); ok {
		instance.DocumentStore.Mu.RLock()
		documentCount = len(instance.DocumentStore.Docs)
		instance.DocumentStore.Mu.RUnlock()

		instance.InvertedIndex.Mu.RLock()
		termCount = len(instance.InvertedIndex.Index)
		instance.InvertedIndex.Mu.RUnlock()
	}

	c.JSON(http.StatusOK, gin.H{
		"name":              settings.Name,
		"document_count":    documentCount,
		"term_count":        termCount,
		"searchable_fields": settings.SearchableFields,
		"proximity_settings": gin.H{
			"default_distance": settings.DefaultDistance,
			"max_distance":     settings.MaxDistance,
		},
	})
}
