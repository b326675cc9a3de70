package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/models"
)

// ToModelOrder converts a domain.Order to its row and item rows.
func ToModelOrder(d domain.Order) (models.Order, []models.OrderItem, error) {
	customer, err := json.Marshal(d.Customer)
	if err != nil {
		return models.Order{}, nil, fmt.Errorf("failed to encode customer snapshot: %w", err)
	}
	m := models.Order{
		OrderID:              d.OrderID,
		TenantID:             d.TenantID,
		OrderNumber:          d.OrderNumber,
		Customer:             customer,
		Subtotal:             d.Subtotal,
		ShippingCost:         d.ShippingCost,
		Discount:             d.Discount,
		Total:                d.Total,
		PaymentMethod:        string(d.PaymentMethod),
		Status:               string(d.Status),
		PaymentStatus:        string(d.PaymentStatus),
		CorrelationID:        d.CorrelationID,
		GatewayTransactionID: models.ToNullString(d.GatewayTransactionID),
		PaymentExpiresAt:     models.ToNullTime(d.PaymentExpiresAt),
		CancelReason:         models.ToNullString(d.CancelReason),
		StockReleasedAt:      models.ToNullTime(d.StockReleasedAt),
		ConfirmedAt:          models.ToNullTime(d.ConfirmedAt),
		CancelledAt:          models.ToNullTime(d.CancelledAt),
		AuditFields:          toModelAudit(d.AuditFields),
	}
	items := make([]models.OrderItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = models.OrderItem{
			OrderID:   d.OrderID,
			LineNo:    i + 1,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return m, items, nil
}

// ToDomainOrder converts stored rows back into a domain.Order. Items must be ordered by line number.
func ToDomainOrder(m models.Order, items []models.OrderItem) (domain.Order, error) {
	var customer domain.CustomerSnapshot
	if len(m.Customer) > 0 {
		if err := json.Unmarshal(m.Customer, &customer); err != nil {
			return domain.Order{}, fmt.Errorf("failed to decode customer snapshot of order %s: %w", m.OrderID, err)
		}
	}
	d := domain.Order{
		OrderID:              m.OrderID,
		TenantID:             m.TenantID,
		OrderNumber:          m.OrderNumber,
		Customer:             customer,
		Items:                make([]domain.LineItem, len(items)),
		Subtotal:             m.Subtotal,
		ShippingCost:         m.ShippingCost,
		Discount:             m.Discount,
		Total:                m.Total,
		PaymentMethod:        domain.PaymentMethod(m.PaymentMethod),
		Status:               domain.OrderStatus(m.Status),
		PaymentStatus:        domain.PaymentStatus(m.PaymentStatus),
		CorrelationID:        m.CorrelationID,
		GatewayTransactionID: models.NullStringValue(m.GatewayTransactionID),
		PaymentExpiresAt:     models.NullTimeValue(m.PaymentExpiresAt),
		CancelReason:         models.NullStringValue(m.CancelReason),
		StockReleasedAt:      models.NullTimeValue(m.StockReleasedAt),
		ConfirmedAt:          models.NullTimeValue(m.ConfirmedAt),
		CancelledAt:          models.NullTimeValue(m.CancelledAt),
		AuditFields:          toDomainAudit(m.AuditFields),
	}
	for i, item := range items {
		d.Items[i] = domain.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return d, nil
}
