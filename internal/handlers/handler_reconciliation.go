package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationReviewer
}

func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationReviewer) {
	h := &reconciliationHandler{reconciliationService: reconciliationService}

	recs := rg.Group("/reconciliations")
	{
		recs.GET("", h.listRecords)
		recs.POST("/:recordID/resolve", h.resolveRecord)
	}
}

// listRecords godoc
// @Summary List reconciliation records
// @Description Lists daily ledger versus gateway comparisons, newest first. Filter by status to find open discrepancies.
// @Tags reconciliation
// @Produce  json
// @Param   status query string false "pending, reconciled or resolved"
// @Param   limit query int false "Page size" default(30)
// @Param   nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListReconciliationsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list reconciliation records"
// @Security BearerAuth
// @Router /reconciliations [get]
func (h *reconciliationHandler) listRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListReconciliationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListReconciliations", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	tenantID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	resp, err := h.reconciliationService.ListRecords(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list reconciliation records")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// resolveRecord godoc
// @Summary Resolve a reconciliation discrepancy
// @Description Marks a pending record as resolved by the calling operator. Later runs for that date keep the resolution.
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   recordID path string true "Reconciliation record ID"
// @Param   resolution body dto.ResolveReconciliationRequest true "Resolution note"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 409 {object} map[string]string "Record already resolved or reconciled"
// @Security BearerAuth
// @Router /reconciliations/{recordID}/resolve [post]
func (h *reconciliationHandler) resolveRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	recordID := c.Param("recordID")

	var req dto.ResolveReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("record_id", recordID))

	record, err := h.reconciliationService.ResolveRecord(c.Request.Context(), tenantID, recordID, actorID, req.Note)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve reconciliation record")
		return
	}

	logger.Info("Reconciliation record resolved")
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(record))
}
