package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
	"github.com/finbooks/account_recon_app/internal/dto"
	"github.com/finbooks/account_recon_app/internal/middleware"
)

// systemActor tags mutations coming from the panel; there is no
// authenticated user in this service's scope.
const systemActor = "recon-panel"

// reconciliationHandler handles HTTP requests for reconciliation groups.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// registerReconciliationRoutes registers reconciliation group routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(rs)

	reconciliations := rg.Group("/reconciliations")
	{
		reconciliations.POST("", h.createGroup)
		reconciliations.GET("", h.listGroups)
		reconciliations.GET("/:reconID", h.getGroup)
		reconciliations.POST("/:reconID/documents", h.extendGroup)
		reconciliations.DELETE("/:reconID", h.dissolveGroup)
	}
}

// createGroup godoc
// @Summary Create a reconciliation group
// @Description Links at least one debit and one credit document into a new group. Over/under-allocated groups are legal and surface as pending.
// @Tags reconciliations
// @Accept  json
// @Produce json
// @Param   group body dto.CreateReconciliationRequest true "Group members"
// @Success 201 {object} dto.ReconciliationGroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]string "Document already attached or claimed concurrently"
// @Router /reconciliations [post]
func (h *reconciliationHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconciliationService.CreateGroup(c.Request.Context(), req, systemActor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// extendGroup godoc
// @Summary Extend an existing reconciliation group
// @Description Appends further debit or credit documents to the group and re-derives its net amount.
// @Tags reconciliations
// @Accept  json
// @Produce json
// @Param   reconID path string true "Reconciliation ID"
// @Param   documents body dto.ExtendReconciliationRequest true "Additional members"
// @Success 200 {object} dto.ReconciliationGroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 409 {object} map[string]string "Document already attached or claimed concurrently"
// @Router /reconciliations/{reconID}/documents [post]
func (h *reconciliationHandler) extendGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExtendReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExtendGroup", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconciliationService.ExtendGroup(c.Request.Context(), c.Param("reconID"), req, systemActor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// dissolveGroup godoc
// @Summary Dissolve a reconciliation group
// @Description Detaches the group's member documents. Without force, conflicts (payments allocated to invoices outside the group) turn the call into a pure probe: the response lists them and nothing changes. Retry with force=true after user confirmation.
// @Tags reconciliations
// @Produce json
// @Param   reconID path string true "Reconciliation ID"
// @Param   force query bool false "Confirm a conflicting dissolve"
// @Success 200 {object} dto.DissolveResponse
// @Failure 400 {object} map[string]string "Malformed force parameter"
// @Failure 404 {object} map[string]string "Group not found"
// @Router /reconciliations/{reconID} [delete]
func (h *reconciliationHandler) dissolveGroup(c *gin.Context) {
	force := false
	if raw := c.Query("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			// A garbled confirmation must not silently downgrade to a probe.
			c.JSON(http.StatusBadRequest, gin.H{"error": "force must be a boolean"})
			return
		}
		force = parsed
	}

	outcome, err := h.reconciliationService.DissolveGroup(c.Request.Context(), c.Param("reconID"), force)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDissolveResponse(outcome))
}

// getGroup godoc
// @Summary Get a reconciliation group
// @Description Retrieves one group with its members, derived net amount and status.
// @Tags reconciliations
// @Produce json
// @Param   reconID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationGroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Router /reconciliations/{reconID} [get]
func (h *reconciliationHandler) getGroup(c *gin.Context) {
	resp, err := h.reconciliationService.GetGroup(c.Request.Context(), c.Param("reconID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listGroups godoc
// @Summary List reconciliation groups for a party
// @Description Retrieves groups for a party, optionally filtered to pending (actionable) or balanced (history) ones.
// @Tags reconciliations
// @Produce json
// @Param   party query string true "Party identifier"
// @Param   company query string true "Company identifier"
// @Param   status query string false "PENDING or BALANCED"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListReconciliationsResponse
// @Failure 400 {object} map[string]string "Invalid status or pagination token"
// @Router /reconciliations [get]
func (h *reconciliationHandler) listGroups(c *gin.Context) {
	party := c.Query("party")
	company := c.Query("company")

	var status *domain.GroupStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.GroupStatus(raw)
		if s != domain.GroupPending && s != domain.GroupBalanced {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be PENDING or BALANCED"})
			return
		}
		status = &s
	}

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

	resp, err := h.reconciliationService.ListGroups(c.Request.Context(), party, company, status, limit, nextToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
