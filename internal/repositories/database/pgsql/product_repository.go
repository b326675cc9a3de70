package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

// FindProductsByIDs loads the active products of a tenant.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error) {
	query := `
		SELECT product_id, tenant_id, name, unit_price, stock, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM products
		WHERE tenant_id = $1 AND product_id = ANY($2) AND is_active = TRUE;
	`
	rows, err := r.conn(ctx).Query(ctx, query, tenantID, productIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	products := make(map[string]domain.Product, len(productIDs))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ProductID, &p.TenantID, &p.Name, &p.UnitPrice, &p.Stock, &p.IsActive,
			&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product", err)
		}
		products[p.ProductID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating products", err)
	}
	return products, nil
}

// DecrementStock is a single conditional update; concurrent buyers can never drive stock below zero.
func (r *PgxProductRepository) DecrementStock(ctx context.Context, tenantID, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $3, last_updated_at = NOW()
		WHERE tenant_id = $1 AND product_id = $2 AND stock >= $3;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, tenantID, productID, quantity)
	if err != nil {
		return apperrors.NewAppError(500, "failed to decrement stock for product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, apperrors.ErrInsufficientStock)
	}
	return nil
}

// IncrementStock returns reserved units.
func (r *PgxProductRepository) IncrementStock(ctx context.Context, tenantID, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock + $3, last_updated_at = NOW()
		WHERE tenant_id = $1 AND product_id = $2;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, tenantID, productID, quantity)
	if err != nil {
		return apperrors.NewAppError(500, "failed to increment stock for product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", productID, apperrors.ErrNotFound)
	}
	return nil
}
