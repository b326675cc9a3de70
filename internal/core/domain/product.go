package domain

import "github.com/shopspring/decimal"

// Product is a tenant-scoped sellable item with a stock counter.
type Product struct {
	ProductID string          `json:"productID"`
	TenantID  string          `json:"tenantID"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
