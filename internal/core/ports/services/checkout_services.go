package services

import (
	"context"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/dto"
)

// CheckoutCreator places orders.
type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, tenantID string, req dto.CreateCheckoutRequest, actorID string) (*dto.CheckoutResponse, error)
}

// PaymentProcessor requests a gateway charge for an order that has none yet.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, tenantID, orderID string, method domain.PaymentMethod, actorID string) (*domain.PaymentArtifact, error)
}

// OrderReaderSvc defines tenant-scoped order reads.
type OrderReaderSvc interface {
	GetOrder(ctx context.Context, tenantID, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, tenantID string, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error)
	GetGatewayLog(ctx context.Context, tenantID, orderID string) (*domain.GatewayTransactionLog, error)
}

// OrderCanceller lets operators cancel pending orders.
type OrderCanceller interface {
	CancelOrder(ctx context.Context, tenantID, orderID, actorID, reason string) (*domain.Order, error)
}

// CheckoutSvcFacade combines all order-facing operations.
type CheckoutSvcFacade interface {
	CheckoutCreator
	PaymentProcessor
	OrderReaderSvc
	OrderCanceller
}
