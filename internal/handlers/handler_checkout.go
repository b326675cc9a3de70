package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// checkoutHandler handles HTTP requests related to checkout and orders.
type checkoutHandler struct {
	checkoutService portssvc.CheckoutSvcFacade
}

func newCheckoutHandler(cs portssvc.CheckoutSvcFacade) *checkoutHandler {
	return &checkoutHandler{checkoutService: cs}
}

// registerCheckoutRoutes registers the checkout and order routes.
func registerCheckoutRoutes(rg *gin.RouterGroup, checkoutService portssvc.CheckoutSvcFacade) {
	h := newCheckoutHandler(checkoutService)

	rg.POST("/checkout", h.createCheckout)

	orders := rg.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.GET("/:orderID", h.getOrder)
		orders.GET("/:orderID/status", h.getOrderStatus)
		orders.GET("/:orderID/gateway-log", h.getGatewayLog)
		orders.POST("/:orderID/payment", h.processPayment)
		orders.POST("/:orderID/cancel", h.cancelOrder)
	}
}

// createCheckout godoc
// @Summary Place an order
// @Description Validates the cart, reserves stock, records the pending ledger credit and requests a PIX or boleto charge.
// @Description When the gateway is unavailable the order is still created and paymentError explains why no charge exists yet.
// @Tags checkout
// @Accept  json
// @Produce  json
// @Param   checkout body dto.CreateCheckoutRequest true "Cart, customer and payment method"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 400 {object} map[string]string "Invalid input, validation error or insufficient stock"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Tenant inactive"
// @Failure 500 {object} map[string]string "Failed to create checkout"
// @Security BearerAuth
// @Router /checkout [post]
func (h *checkoutHandler) createCheckout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCheckout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create checkout",
		slog.Int("items", len(req.Items)),
		slog.String("payment_method", string(req.PaymentMethod)))

	resp, err := h.checkoutService.CreateCheckout(c.Request.Context(), tenantID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to create checkout")
		return
	}

	if resp.PaymentError != "" {
		logger.Warn("Order created without a payment charge", slog.String("order_id", resp.OrderID), slog.String("payment_error", resp.PaymentError))
	} else {
		logger.Info("Checkout created successfully", slog.String("order_id", resp.OrderID))
	}
	c.JSON(http.StatusCreated, resp)
}

// processPayment godoc
// @Summary Request the payment charge of an order
// @Description Retries the gateway charge for a pending order that has none yet. The order's correlation id is reused as idempotency key.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   payment body dto.ProcessPaymentRequest true "Payment method, must match the order"
// @Success 200 {object} dto.PaymentArtifactResponse
// @Failure 400 {object} map[string]string "Invalid input, method mismatch or payment already processed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 502 {object} map[string]string "Gateway unavailable"
// @Security BearerAuth
// @Router /orders/{orderID}/payment [post]
func (h *checkoutHandler) processPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	var req dto.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProcessPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("order_id", orderID))

	artifact, err := h.checkoutService.ProcessPayment(c.Request.Context(), tenantID, orderID, req.PaymentMethod, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to process payment")
		return
	}

	logger.Info("Payment charge created", slog.String("transaction_id", artifact.TransactionID))
	c.JSON(http.StatusOK, dto.ToPaymentArtifactResponse(artifact))
}

// getOrder godoc
// @Summary Get an order by ID
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve order"
// @Security BearerAuth
// @Router /orders/{orderID} [get]
func (h *checkoutHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	tenantID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		respondError(c, logger.With(slog.String("order_id", orderID)), err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// getOrderStatus godoc
// @Summary Poll the status of an order
// @Description Lightweight view for storefronts waiting on a PIX or boleto payment.
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.OrderStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /orders/{orderID}/status [get]
func (h *checkoutHandler) getOrderStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	tenantID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	order, err := h.checkoutService.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		respondError(c, logger.With(slog.String("order_id", orderID)), err, "Failed to retrieve order status")
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderStatusResponse(order))
}

// getGatewayLog godoc
// @Summary Get the gateway audit of an order
// @Description Returns the last gateway request, response and webhook recorded for the order.
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.GatewayLogResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order or gateway log not found"
// @Security BearerAuth
// @Router /orders/{orderID}/gateway-log [get]
func (h *checkoutHandler) getGatewayLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	tenantID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	log, err := h.checkoutService.GetGatewayLog(c.Request.Context(), tenantID, orderID)
	if err != nil {
		respondError(c, logger.With(slog.String("order_id", orderID)), err, "Failed to retrieve gateway log")
		return
	}

	c.JSON(http.StatusOK, dto.ToGatewayLogResponse(log))
}

// listOrders godoc
// @Summary List orders
// @Description Lists the tenant's orders, newest first, with token based pagination.
// @Tags orders
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token returned by the previous page"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list orders"
// @Security BearerAuth
// @Router /orders [get]
func (h *checkoutHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListOrders", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	tenantID, _, ok := identity(c, logger)
	if !ok {
		return
	}

	resp, err := h.checkoutService.ListOrders(c.Request.Context(), tenantID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// cancelOrder godoc
// @Summary Cancel a pending order
// @Description Cancels an unpaid order, releases its stock and fails its pending ledger credit.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   cancel body dto.CancelOrderRequest true "Cancellation reason"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Order already confirmed"
// @Security BearerAuth
// @Router /orders/{orderID}/cancel [post]
func (h *checkoutHandler) cancelOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CancelOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tenantID, actorID, ok := identity(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("order_id", orderID))

	order, err := h.checkoutService.CancelOrder(c.Request.Context(), tenantID, orderID, actorID, req.Reason)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel order")
		return
	}

	logger.Info("Order cancelled", slog.String("status", string(order.Status)))
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}
