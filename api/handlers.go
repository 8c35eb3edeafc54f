package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/proxima-io/go-proximity-engine/internal/metrics"
	"github.com/proxima-io/go-proximity-engine/services"
)

const maxRequestBodySize = 32 << 20 // 32 MiB

// API holds dependencies for API handlers, primarily the engine manager.
type API struct {
	engine  services.IndexManager
	metrics *metrics.Metrics
}

// NewAPI creates a new API handler structure. The metrics value may be nil.
func NewAPI(engine services.IndexManager, m *metrics.Metrics) *API {
	return &API{engine: engine, metrics: m}
}

// SetupRoutes defines all the API routes for the proximity engine.
func SetupRoutes(router *gin.Engine, engine services.IndexManager, m *metrics.Metrics) {
	apiHandler := NewAPI(engine, m)

	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))

	router.GET("/health", apiHandler.HealthCheckHandler)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	indexRoutes := router.Group("/indexes")
	{
		indexRoutes.POST("", apiHandler.CreateIndexHandler)                   // Create a new index
		indexRoutes.GET("", apiHandler.ListIndexesHandler)                    // List all indexes
		indexRoutes.GET("/:indexName", apiHandler.GetIndexHandler)            // Get index settings
		indexRoutes.DELETE("/:indexName", apiHandler.DeleteIndexHandler)      // Delete an index
		indexRoutes.GET("/:indexName/stats", apiHandler.GetIndexStatsHandler) // Get index statistics

		docRoutes := indexRoutes.Group("/:indexName/documents")
		{
			docRoutes.PUT("", apiHandler.AddDocumentsHandler)                  // Add/Update documents
			docRoutes.GET("", apiHandler.GetDocumentsHandler)                  // List documents with pagination
			docRoutes.DELETE("", apiHandler.DeleteAllDocumentsHandler)         // Delete all documents
			docRoutes.GET("/:documentId", apiHandler.GetDocumentHandler)       // Get specific document
			docRoutes.DELETE("/:documentId", apiHandler.DeleteDocumentHandler) // Delete specific document
		}

		indexRoutes.POST("/:indexName/_search", apiHandler.SearchHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-proximity-engine",
		"timestamp": time.Now().Unix(),
	})
}
