package repositories

import (
	"context"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

// ProductReader loads tenant-scoped products.
type ProductReader interface {
	// FindProductsByIDs returns the active products found, keyed by product ID.
	FindProductsByIDs(ctx context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error)
}

// StockWriter mutates stock counters with single conditional statements.
type StockWriter interface {
	// DecrementStock removes quantity only if enough stock remains, else apperrors.ErrInsufficientStock.
	DecrementStock(ctx context.Context, tenantID, productID string, quantity int) error
	IncrementStock(ctx context.Context, tenantID, productID string, quantity int) error
}

type ProductRepositoryFacade interface {
	ProductReader
	StockWriter
}
