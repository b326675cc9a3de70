package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
)

type inventoryService struct {
	BaseService
	stock portsrepo.StockWriter
}

// NewInventoryService creates the stock reservation service.
func NewInventoryService(stock portsrepo.StockWriter, options ...Option) portssvc.InventorySvc {
	svc := &inventoryService{stock: stock}
	svc.apply(options)
	return svc
}

var _ portssvc.InventorySvc = (*inventoryService)(nil)

// Reserve decrements every line. It stops at the first line that cannot be covered.
func (s *inventoryService) Reserve(ctx context.Context, tenantID string, items []domain.LineItem) error {
	for _, item := range items {
		if err := s.stock.DecrementStock(ctx, tenantID, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, apperrors.ErrInsufficientStock) {
				s.LogInfo(ctx, "Stock reservation rejected",
					slog.String("product_id", item.ProductID),
					slog.Int("quantity", item.Quantity))
				return fmt.Errorf("%w for product %s", apperrors.ErrInsufficientStock, item.ProductID)
			}
			s.LogError(ctx, err, "Failed to reserve stock", slog.String("product_id", item.ProductID))
			return err
		}
	}
	return nil
}

// Release gives every line's quantity back to its product.
func (s *inventoryService) Release(ctx context.Context, tenantID string, items []domain.LineItem) error {
	for _, item := range items {
		if err := s.stock.IncrementStock(ctx, tenantID, item.ProductID, item.Quantity); err != nil {
			s.LogError(ctx, err, "Failed to release stock", slog.String("product_id", item.ProductID))
			return err
		}
	}
	return nil
}
