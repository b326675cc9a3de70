package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Order is the row stored in the orders table. Customer is the JSONB snapshot.
type Order struct {
	OrderID              string          `db:"order_id"`
	TenantID             string          `db:"tenant_id"`
	OrderNumber          int64           `db:"order_number"`
	Customer             []byte          `db:"customer"`
	Subtotal             decimal.Decimal `db:"subtotal"`
	ShippingCost         decimal.Decimal `db:"shipping_cost"`
	Discount             decimal.Decimal `db:"discount"`
	Total                decimal.Decimal `db:"total"`
	PaymentMethod        string          `db:"payment_method"`
	Status               string          `db:"status"`
	PaymentStatus        string          `db:"payment_status"`
	CorrelationID        string          `db:"correlation_id"`
	GatewayTransactionID sql.NullString  `db:"gateway_transaction_id"`
	PaymentExpiresAt     sql.NullTime    `db:"payment_expires_at"`
	CancelReason         sql.NullString  `db:"cancel_reason"`
	StockReleasedAt      sql.NullTime    `db:"stock_released_at"`
	ConfirmedAt          sql.NullTime    `db:"confirmed_at"`
	CancelledAt          sql.NullTime    `db:"cancelled_at"`
	AuditFields
}

// OrderItem is one row of order_items.
type OrderItem struct {
	OrderID   string          `db:"order_id"`
	LineNo    int             `db:"line_no"`
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total"`
}

// NullTimeValue converts a nullable column into a pointer.
func NullTimeValue(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// NullStringValue converts a nullable column into a pointer.
func NullStringValue(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// ToNullTime converts a pointer into a nullable column value.
func ToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// ToNullString converts a pointer into a nullable column value.
func ToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
