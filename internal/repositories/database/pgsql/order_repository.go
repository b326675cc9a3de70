package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/checkout_settlement/internal/models"
	"github.com/SscSPs/checkout_settlement/internal/utils/mapping"
	"github.com/SscSPs/checkout_settlement/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrderRepository struct {
	BaseRepository
}

// newPgxOrderRepository creates a new repository for orders and their lines.
func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)

const orderColumns = `
	order_id, tenant_id, order_number, customer, subtotal, shipping_cost, discount, total,
	payment_method, status, payment_status, correlation_id, gateway_transaction_id,
	payment_expires_at, cancel_reason, stock_released_at, confirmed_at, cancelled_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row pgx.Row) (models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.OrderID, &m.TenantID, &m.OrderNumber, &m.Customer, &m.Subtotal, &m.ShippingCost, &m.Discount, &m.Total,
		&m.PaymentMethod, &m.Status, &m.PaymentStatus, &m.CorrelationID, &m.GatewayTransactionID,
		&m.PaymentExpiresAt, &m.CancelReason, &m.StockReleasedAt, &m.ConfirmedAt, &m.CancelledAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// NextOrderNumber allocates the next sequential number of a tenant. The counter row stays
// locked until the surrounding transaction ends, so numbers are gap-free per committed order.
func (r *PgxOrderRepository) NextOrderNumber(ctx context.Context, tenantID string) (int64, error) {
	query := `
		INSERT INTO order_counters (tenant_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (tenant_id) DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := r.conn(ctx).QueryRow(ctx, query, tenantID).Scan(&number); err != nil {
		return 0, apperrors.NewAppError(500, "failed to allocate order number", err)
	}
	return number, nil
}

// CreateOrder inserts the order row and all of its lines.
func (r *PgxOrderRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	m, items, err := mapping.ToModelOrder(order)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map order", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`,
		m.OrderID, m.TenantID, m.OrderNumber, m.Customer, m.Subtotal, m.ShippingCost, m.Discount, m.Total,
		m.PaymentMethod, m.Status, m.PaymentStatus, m.CorrelationID, m.GatewayTransactionID,
		m.PaymentExpiresAt, m.CancelReason, m.StockReleasedAt, m.ConfirmedAt, m.CancelledAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	itemQuery := `
		INSERT INTO order_items (order_id, line_no, product_id, name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, item := range items {
		batch.Queue(itemQuery, item.OrderID, item.LineNo, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal)
	}

	br := r.conn(ctx).SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return duplicateOr(err, "failed to insert order "+order.OrderID)
	}
	return nil
}

// FindOrderByID retrieves a tenant-scoped order with its lines.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1 AND order_id = $2;`
	return r.findOne(ctx, query, tenantID, orderID)
}

// FindOrderByGatewayTransactionID retrieves the order a gateway charge belongs to.
func (r *PgxOrderRepository) FindOrderByGatewayTransactionID(ctx context.Context, gatewayTransactionID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE gateway_transaction_id = $1;`
	return r.findOne(ctx, query, gatewayTransactionID)
}

func (r *PgxOrderRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	m, err := scanOrder(r.conn(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrOrderNotFound, "failed to query order")
	}
	orders, err := r.attachItems(ctx, []models.Order{m})
	if err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// ListOrders returns a page of a tenant's orders, newest first.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Order, *string, error) {
	args := []any{tenantID}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE tenant_id = $1`
	if nextToken != nil && *nextToken != "" {
		createdAt, orderID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, order_id) < ($2, $3)`
		args = append(args, createdAt, orderID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, order_id DESC LIMIT %d;`, limit+1)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list orders", err)
	}
	modelOrders, err := collectOrders(rows)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(modelOrders) > limit {
		modelOrders = modelOrders[:limit]
		last := modelOrders[len(modelOrders)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.OrderID)
		newNextToken = &token
	}

	orders, err := r.attachItems(ctx, modelOrders)
	if err != nil {
		return nil, nil, err
	}
	return orders, newNextToken, nil
}

// FindExpiredPendingOrders selects sweep candidates across all tenants.
func (r *PgxOrderRepository) FindExpiredPendingOrders(ctx context.Context, now, unpaidBefore time.Time, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE status = 'pending'
		  AND (
		        (payment_expires_at IS NOT NULL AND payment_expires_at < $1)
		     OR (gateway_transaction_id IS NULL AND created_at < $2)
		  )
		ORDER BY created_at
		LIMIT $3;
	`
	rows, err := r.conn(ctx).Query(ctx, query, now, unpaidBefore, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query expired orders", err)
	}
	modelOrders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}
	return r.attachItems(ctx, modelOrders)
}

func collectOrders(rows pgx.Rows) ([]models.Order, error) {
	defer rows.Close()
	var out []models.Order
	for rows.Next() {
		m, err := scanOrder(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan order", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating orders", err)
	}
	return out, nil
}

// attachItems loads the lines of all given orders with one query.
func (r *PgxOrderRepository) attachItems(ctx context.Context, modelOrders []models.Order) ([]domain.Order, error) {
	if len(modelOrders) == 0 {
		return []domain.Order{}, nil
	}
	ids := make([]string, len(modelOrders))
	for i, m := range modelOrders {
		ids[i] = m.OrderID
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT order_id, line_no, product_id, name, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no;`, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query order items", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[string][]models.OrderItem, len(modelOrders))
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.OrderID, &item.LineNo, &item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan order item", err)
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating order items", err)
	}

	orders := make([]domain.Order, len(modelOrders))
	for i, m := range modelOrders {
		o, err := mapping.ToDomainOrder(m, itemsByOrder[m.OrderID])
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to map order", err)
		}
		orders[i] = o
	}
	return orders, nil
}

// AttachPayment stores the gateway transaction id once per order.
func (r *PgxOrderRepository) AttachPayment(ctx context.Context, tenantID, orderID, gatewayTransactionID string, expiresAt time.Time, updatedBy string, now time.Time) error {
	query := `
		UPDATE orders
		SET gateway_transaction_id = $3, payment_expires_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE tenant_id = $1 AND order_id = $2 AND gateway_transaction_id IS NULL AND status = 'pending';
	`
	tag, err := r.conn(ctx).Exec(ctx, query, tenantID, orderID, gatewayTransactionID, expiresAt, now, updatedBy)
	if err != nil {
		return duplicateOr(err, "failed to attach payment to order "+orderID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyProcessed
	}
	return nil
}

// UpdateOrderState moves an order from expected to next, stamping confirmed_at or cancelled_at.
func (r *PgxOrderRepository) UpdateOrderState(ctx context.Context, tenantID, orderID string, expected, next domain.OrderState, cancelReason *string, updatedBy string, now time.Time) error {
	query := `
		UPDATE orders
		SET status = $5,
		    payment_status = $6,
		    cancel_reason = COALESCE($7, cancel_reason),
		    confirmed_at = CASE WHEN $5 = 'confirmed' THEN $8 ELSE confirmed_at END,
		    cancelled_at = CASE WHEN $5 = 'cancelled' THEN $8 ELSE cancelled_at END,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE tenant_id = $1 AND order_id = $2 AND status = $3 AND payment_status = $4;
	`
	tag, err := r.conn(ctx).Exec(ctx, query,
		tenantID, orderID,
		string(expected.Status), string(expected.PaymentStatus),
		string(next.Status), string(next.PaymentStatus),
		cancelReason, now, updatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update order state "+orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyFinalized
	}
	return nil
}

// MarkStockReleased sets stock_released_at if it is still empty.
func (r *PgxOrderRepository) MarkStockReleased(ctx context.Context, tenantID, orderID string, now time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET stock_released_at = $3
		WHERE tenant_id = $1 AND order_id = $2 AND stock_released_at IS NULL;
	`
	tag, err := r.conn(ctx).Exec(ctx, query, tenantID, orderID, now)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to mark stock released for order "+orderID, err)
	}
	return tag.RowsAffected() == 1, nil
}
