package api

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proxima-io/go-proximity-engine/internal/engine"
	internalErrors "github.com/proxima-io/go-proximity-engine/internal/errors"
	"github.com/proxima-io/go-proximity-engine/model"
)

// AddDocumentsHandler handles adding/updating documents in an index.
// The body may be a single document object or an array of documents; every
// document must carry a string documentID.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var rawData interface{}
	if err := c.ShouldBindJSON(&rawData); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	var docs []model.Document
	switch data := rawData.(type) {
	case []interface{}:
		docs = make([]model.Document, len(data))
		for i, item := range data {
			docMap, isMap := item.(map[string]interface{})
			if !isMap {
				SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
					fmt.Sprintf("Document at index %d is not a valid object", i))
				return
			}
			docs[i] = model.Document(docMap)
		}
	case map[string]interface{}:
		docs = []model.Document{model.Document(data)}
	default:
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
			"Invalid request body. Expecting a document object or an array of documents")
		return
	}

	if result := ValidateDocuments(docs); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}
	for _, doc := range docs {
		doc["documentID"] = strings.TrimSpace(doc["documentID"].(string))
	}

	if err := indexAccessor.AddDocuments(docs); err != nil {
		SendIndexingError(c, "add documents", err)
		return
	}
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d document(s) added/updated in index '%s'", len(docs), indexName)})
}

// DocumentListRequest defines the structure for document listing requests
type DocumentListRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// GetDocumentsHandler lists documents in an index, paginated in external-ID
// order.
func (api *API) GetDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var req DocumentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid query parameters: "+err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	documents := []model.Document{}
	totalCount := 0
	if instance, ok := indexAccessor.(*engine.IndexInstance); ok {
		instance.DocumentStore.Mu.RLock()
		totalCount = len(instance.DocumentStore.Docs)

		externalIDs := make([]string, 0, totalCount)
		for ext := range instance.DocumentStore.ExternalIDtoInternalID {
			externalIDs = append(externalIDs, ext)
		}
		sort.Strings(externalIDs)

		startIndex := (req.Page - 1) * req.PageSize
		endIndex := startIndex + req.PageSize
		if startIndex < len(externalIDs) {
			if endIndex > len(externalIDs) {
				endIndex = len(externalIDs)
			}
			for _, ext := range externalIDs[startIndex:endIndex] {
				internalID := instance.DocumentStore.ExternalIDtoInternalID[ext]
				if doc, found := instance.DocumentStore.Docs[internalID]; found {
					documents = append(documents, doc)
				}
			}
		}
		instance.DocumentStore.Mu.RUnlock()
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": documents,
		"total":     totalCount,
		"page":      req.Page,
		"page_size": req.PageSize,
		"pages":     (totalCount + req.PageSize - 1) / req.PageSize,
	})
}

// GetDocumentHandler retrieves a specific document by ID
func (api *API) GetDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if instance, ok := indexAccessor.(*engine.IndexInstance); ok {
		instance.DocumentStore.Mu.RLock()
		internalID, exists := instance.DocumentStore.ExternalIDtoInternalID[documentID]
		var doc model.Document
		if exists {
			doc, exists = instance.DocumentStore.Docs[internalID]
		}
		instance.DocumentStore.Mu.RUnlock()

		if exists {
			c.JSON(http.StatusOK, doc)
			return
		}
	}
	SendDocumentNotFoundError(c, documentID, indexName)
}

// DeleteDocumentHandler deletes a specific document by ID
func (api *API) DeleteDocumentHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	documentID := c.Param("documentId")

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := indexAccessor.DeleteDocument(documentID); err != nil {
		if stdErrors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID, indexName)
			return
		}
		SendIndexingError(c, "delete document", err)
		return
	}
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document '" + documentID + "' deleted from index '" + indexName + "'"})
}

// DeleteAllDocumentsHandler handles the request to delete all documents from an index.
func (api *API) DeleteAllDocumentsHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	if err := indexAccessor.DeleteAllDocuments(); err != nil {
		SendIndexingError(c, "delete all documents", err)
		return
	}
	if err := api.engine.PersistIndexData(indexName); err != nil {
		SendPersistenceError(c, indexName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All documents deleted from index '" + indexName + "'"})
}
