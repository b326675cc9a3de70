package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProcessPaymentRequest asks for a gateway charge on an existing order.
type ProcessPaymentRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=pix boleto"`
}

// CancelOrderRequest is an operator cancellation.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// OrderResponse defines the data returned for an order.
type OrderResponse struct {
	OrderID              string                  `json:"orderID"`
	OrderNumber          int64                   `json:"orderNumber"`
	Customer             domain.CustomerSnapshot `json:"customer"`
	Items                []LineItemResponse      `json:"items"`
	Subtotal             decimal.Decimal         `json:"subtotal"`
	ShippingCost         decimal.Decimal         `json:"shippingCost"`
	Discount             decimal.Decimal         `json:"discount"`
	Total                decimal.Decimal         `json:"total"`
	PaymentMethod        string                  `json:"paymentMethod"`
	Status               string                  `json:"status"`
	PaymentStatus        string                  `json:"paymentStatus"`
	GatewayTransactionID *string                 `json:"gatewayTransactionID,omitempty"`
	PaymentExpiresAt     *time.Time              `json:"paymentExpiresAt,omitempty"`
	CancelReason         *string                 `json:"cancelReason,omitempty"`
	ConfirmedAt          *time.Time              `json:"confirmedAt,omitempty"`
	CancelledAt          *time.Time              `json:"cancelledAt,omitempty"`
	CreatedAt            time.Time               `json:"createdAt"`
}

// OrderStatusResponse is the lightweight polling view of an order.
type OrderStatusResponse struct {
	OrderID       string     `json:"orderID"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
}

// GatewayLogResponse is the operator view of an order's gateway audit row.
type GatewayLogResponse struct {
	CorrelationID        string          `json:"correlationID"`
	OrderID              string          `json:"orderID"`
	Operation            string          `json:"operation"`
	GatewayTransactionID *string         `json:"gatewayTransactionID,omitempty"`
	RawRequest           json.RawMessage `json:"rawRequest,omitempty"`
	RawResponse          json.RawMessage `json:"rawResponse,omitempty"`
	LastWebhook          json.RawMessage `json:"lastWebhook,omitempty"`
	Success              bool            `json:"success"`
	ErrorMessage         *string         `json:"errorMessage,omitempty"`
	LastUpdatedAt        time.Time       `json:"lastUpdatedAt"`
}

// ListOrdersResponse wraps a page of orders.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToOrderResponse converts a domain.Order to OrderResponse DTO.
func ToOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:              o.OrderID,
		OrderNumber:          o.OrderNumber,
		Customer:             o.Customer,
		Items:                ToLineItemResponses(o.Items),
		Subtotal:             o.Subtotal,
		ShippingCost:         o.ShippingCost,
		Discount:             o.Discount,
		Total:                o.Total,
		PaymentMethod:        string(o.PaymentMethod),
		Status:               string(o.Status),
		PaymentStatus:        string(o.PaymentStatus),
		GatewayTransactionID: o.GatewayTransactionID,
		PaymentExpiresAt:     o.PaymentExpiresAt,
		CancelReason:         o.CancelReason,
		ConfirmedAt:          o.ConfirmedAt,
		CancelledAt:          o.CancelledAt,
		CreatedAt:            o.CreatedAt,
	}
}

// ToOrderStatusResponse converts a domain.Order to its status view.
func ToOrderStatusResponse(o *domain.Order) OrderStatusResponse {
	return OrderStatusResponse{
		OrderID:       o.OrderID,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		ExpiresAt:     o.PaymentExpiresAt,
	}
}

// ToGatewayLogResponse converts a domain.GatewayTransactionLog.
func ToGatewayLogResponse(l *domain.GatewayTransactionLog) GatewayLogResponse {
	return GatewayLogResponse{
		CorrelationID:        l.CorrelationID,
		OrderID:              l.OrderID,
		Operation:            string(l.Operation),
		GatewayTransactionID: l.GatewayTransactionID,
		RawRequest:           l.RawRequest,
		RawResponse:          l.RawResponse,
		LastWebhook:          l.LastWebhook,
		Success:              l.Success,
		ErrorMessage:         l.ErrorMessage,
		LastUpdatedAt:        l.LastUpdatedAt,
	}
}

// ToListOrdersResponse converts a page of orders.
func ToListOrdersResponse(orders []domain.Order, nextToken *string) ListOrdersResponse {
	list := make([]OrderResponse, len(orders))
	for i := range orders {
		list[i] = ToOrderResponse(&orders[i])
	}
	return ListOrdersResponse{Orders: list, NextToken: nextToken}
}
