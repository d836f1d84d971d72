package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
	"github.com/finbooks/account_recon_app/internal/dto"
	"github.com/finbooks/account_recon_app/internal/middleware"
)

// documentHandler handles HTTP requests for the raw document feed.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds}
}

// registerDocumentRoutes registers document feed routes under a party.
func registerDocumentRoutes(rg *gin.RouterGroup, ds portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(ds)

	parties := rg.Group("/parties/:partyID")
	{
		parties.POST("/documents", h.ingestDocuments)
		parties.GET("/documents", h.listCandidates)
	}
}

// ingestDocuments godoc
// @Summary Ingest the raw document feed for a party
// @Description Stores a batch of ledger documents supplied by the upstream accounting service. Untyped documents are classified from their hints; malformed amounts coerce to zero.
// @Tags documents
// @Accept  json
// @Produce json
// @Param   partyID path string true "Party identifier"
// @Param   company query string true "Company identifier"
// @Param   feed body dto.IngestDocumentsRequest true "Document feed"
// @Success 200 {object} dto.IngestDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Router /parties/{partyID}/documents [post]
func (h *documentHandler) ingestDocuments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.IngestDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestDocuments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	party := c.Param("partyID")
	company := c.Query("company")

	resp, err := h.documentService.IngestDocuments(c.Request.Context(), party, company, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listCandidates godoc
// @Summary List reconciliation candidates for a party
// @Description Retrieves unattached, non-cancelled documents with a nonzero outstanding amount, token-paginated.
// @Tags documents
// @Produce json
// @Param   partyID path string true "Party identifier"
// @Param   company query string true "Company identifier"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListDocumentsResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Router /parties/{partyID}/documents [get]
func (h *documentHandler) listCandidates(c *gin.Context) {
	party := c.Param("partyID")
	company := c.Query("company")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}

	resp, err := h.documentService.ListCandidates(c.Request.Context(), party, company, limit, nextToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
