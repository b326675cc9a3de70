package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

// OrderReader defines read operations for orders.
type OrderReader interface {
	FindOrderByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error)
	// FindOrderByGatewayTransactionID is not tenant scoped: gateway callbacks only carry the transaction id.
	FindOrderByGatewayTransactionID(ctx context.Context, gatewayTransactionID string) (*domain.Order, error)
	ListOrders(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Order, *string, error)
	// FindExpiredPendingOrders returns pending orders whose payment expired before now,
	// or that never got a payment request and were created before unpaidBefore.
	FindExpiredPendingOrders(ctx context.Context, now, unpaidBefore time.Time, limit int) ([]domain.Order, error)
}

// OrderWriter defines write operations for orders.
type OrderWriter interface {
	NextOrderNumber(ctx context.Context, tenantID string) (int64, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	// AttachPayment stores the gateway charge on an order that has none yet, else apperrors.ErrAlreadyProcessed.
	AttachPayment(ctx context.Context, tenantID, orderID, gatewayTransactionID string, expiresAt time.Time, updatedBy string, now time.Time) error
	// UpdateOrderState is a compare-and-set on both status columns, else apperrors.ErrAlreadyFinalized.
	UpdateOrderState(ctx context.Context, tenantID, orderID string, expected, next domain.OrderState, cancelReason *string, updatedBy string, now time.Time) error
	// MarkStockReleased claims the one-time stock release of an order. false means it was already claimed.
	MarkStockReleased(ctx context.Context, tenantID, orderID string, now time.Time) (bool, error)
}

type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
}
