package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

type webhookHandler struct {
	webhookService portssvc.WebhookSvcFacade
}

// registerWebhookRoutes registers the public gateway callback. handlers run after the signature check.
func registerWebhookRoutes(rg *gin.RouterGroup, webhookService portssvc.WebhookSvcFacade, handlers ...gin.HandlerFunc) {
	h := &webhookHandler{webhookService: webhookService}
	rg.POST("/webhooks/gateway", append(handlers, h.handleGatewayCallback)...)
}

// handleGatewayCallback godoc
// @Summary Receive a payment gateway callback
// @Description Applies a payment status change reported by the gateway. Replays are acknowledged without side effects.
// @Description Unknown transactions are acknowledged with status not_found so the gateway stops retrying.
// @Tags webhooks
// @Accept  json
// @Produce  json
// @Param   X-Signature header string true "Hex HMAC-SHA256 of the raw body"
// @Param   callback body dto.GatewayWebhookRequest true "Gateway callback"
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} map[string]string "Invalid body or unknown payment status"
// @Failure 401 {object} map[string]string "Invalid signature"
// @Failure 500 {object} map[string]string "Callback could not be applied, the gateway should retry"
// @Router /webhooks/gateway [post]
func (h *webhookHandler) handleGatewayCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GatewayWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for gateway callback", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("transaction_id", req.TransactionID),
		slog.String("gateway_status", req.Status))
	ctx := middleware.WithLogger(c.Request.Context(), logger)

	resp, err := h.webhookService.HandleGatewayCallback(ctx, req, middleware.GetRawBody(c))
	if err != nil {
		respondError(c, logger, err, "Failed to apply gateway callback")
		return
	}

	logger.Info("Gateway callback processed",
		slog.String("order_id", resp.OrderID),
		slog.String("status", resp.Status),
		slog.Bool("success", resp.Success))
	c.JSON(http.StatusOK, resp)
}
