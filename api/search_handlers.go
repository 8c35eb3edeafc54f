package api

import (
	stdErrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/proxima-io/go-proximity-engine/internal/errors"
	"github.com/proxima-io/go-proximity-engine/services"
)

// ProximityRequest is the JSON form of a within(distance, terms...)
// predicate. A zero or omitted distance uses the index default.
type ProximityRequest struct {
	Distance int      `json:"distance"`
	Terms    []string `json:"terms"`
}

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query          string            `json:"query"`
	Proximity      *ProximityRequest `json:"proximity,omitempty"`
	RestrictFields []string          `json:"restrict_fields,omitempty"`
	Page           int               `json:"page"`
	PageSize       int               `json:"page_size"`
}

// SearchHandler handles search requests to an index.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	indexName := c.Param("indexName")

	indexAccessor, err := api.engine.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateSearchRequest(&req); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	searchQuery := services.SearchQuery{
		QueryString:    req.Query,
		RestrictFields: req.RestrictFields,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}
	if req.Proximity != nil {
		searchQuery.Proximity = &services.ProximityClause{
			Distance: req.Proximity.Distance,
			Terms:    req.Proximity.Terms,
		}
	}

	results, err := indexAccessor.Search(searchQuery)
	if err != nil {
		if stdErrors.Is(err, internalErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
			return
		}
		SendSearchError(c, indexName, err)
		return
	}

	c.JSON(http.StatusOK, results)
}
