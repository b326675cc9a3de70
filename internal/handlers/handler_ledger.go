package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes read access to the tenant ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerReaderSvc
	now           func() time.Time
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc) {
	h := &ledgerHandler{ledgerService: ledgerService, now: time.Now}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listEntries)
		ledger.GET("/balance", h.getBalance)
	}
}

// listEntries godoc
// @Summary List ledger entries
// @Description Lists the tenant's ledger entries, newest first.
// @Tags ledger
// @Produce  json
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list ledger entries"
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListLedgerEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	tenantID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	resp, err := h.ledgerService.ListEntries(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getBalance godoc
// @Summary Get the ledger balance
// @Description Returns the sum of confirmed credits minus confirmed debits up to asOf, and the balance still available for withdrawal.
// @Tags ledger
// @Produce  json
// @Param   asOf query string false "RFC3339 instant or YYYY-MM-DD (end of that UTC day); defaults to now"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} map[string]string "Invalid asOf"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to calculate balance"
// @Security BearerAuth
// @Router /ledger/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.BalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, err := parseAsOf(params.AsOf, h.now())
	if err != nil {
		respondError(c, logger, err, "Invalid asOf")
		return
	}

	tenantID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	balance, err := h.ledgerService.RunningBalance(ctx, tenantID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate balance")
		return
	}
	available, err := h.ledgerService.AvailableBalance(ctx, tenantID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate balance")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		TenantID:  tenantID,
		AsOf:      asOf,
		Balance:   balance,
		Available: available,
	})
}

func parseAsOf(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.Parse(time.DateOnly, raw); err == nil {
		return domain.EndOfDay(d), nil
	}
	return time.Time{}, fmt.Errorf("%w: asOf %q must be RFC3339 or YYYY-MM-DD", apperrors.ErrValidation, raw)
}
