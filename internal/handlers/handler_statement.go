package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
	"github.com/finbooks/account_recon_app/internal/dto"
)

// statementHandler handles HTTP requests for the statement view.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

func newStatementHandler(ss portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{statementService: ss}
}

// registerStatementRoutes registers statement routes under a party.
func registerStatementRoutes(rg *gin.RouterGroup, ss portssvc.StatementSvcFacade) {
	h := newStatementHandler(ss)
	rg.GET("/parties/:partyID/statement", h.getStatement)
}

// getStatement godoc
// @Summary Build the statement view for a party
// @Description Returns the ordered, running-balance statement: group summaries first, then loose documents chronologically. Any of q/from/to/amount switches to the flat filtered view with grouping suppressed.
// @Tags statement
// @Produce json
// @Param   partyID path string true "Party identifier"
// @Param   company query string true "Company identifier"
// @Param   q query string false "Free-text filter on voucher number / description"
// @Param   from query string false "Posting date lower bound (RFC 3339 date)"
// @Param   to query string false "Posting date upper bound (RFC 3339 date)"
// @Param   amount query string false "Amount filter (matches total or balance)"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string "Invalid filter parameter"
// @Router /parties/{partyID}/statement [get]
func (h *statementHandler) getStatement(c *gin.Context) {
	party := c.Param("partyID")
	company := c.Query("company")

	filter, err := parseStatementFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if filter.IsActive() {
		rows, err := h.statementService.BuildFilteredStatement(ctx, party, company, filter)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.ToStatementResponse(party, company, rows))
		return
	}

	rows, err := h.statementService.BuildStatement(ctx, party, company)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(party, company, rows))
}

func parseStatementFilter(c *gin.Context) (dto.StatementFilter, error) {
	filter := dto.StatementFilter{Query: c.Query("q")}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, err
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return filter, err
		}
		filter.To = &to
	}
	if raw := c.Query("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, err
		}
		filter.Amount = &amount
	}
	return filter, nil
}
