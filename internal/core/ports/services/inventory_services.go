package services

import (
	"context"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

// InventorySvc reserves and releases stock for order lines.
type InventorySvc interface {
	// Reserve decrements every line or fails with apperrors.ErrInsufficientStock.
	// Callers run it inside a transaction so a partial reservation rolls back.
	Reserve(ctx context.Context, tenantID string, items []domain.LineItem) error
	Release(ctx context.Context, tenantID string, items []domain.LineItem) error
}
