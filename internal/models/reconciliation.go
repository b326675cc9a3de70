package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationRecord is the row stored in reconciliation_records.
type ReconciliationRecord struct {
	RecordID        string          `db:"record_id"`
	TenantID        string          `db:"tenant_id"`
	RecordDate      time.Time       `db:"record_date"`
	PlatformBalance decimal.Decimal `db:"platform_balance"`
	GatewayBalance  decimal.Decimal `db:"gateway_balance"`
	Discrepancy     decimal.Decimal `db:"discrepancy"`
	Status          string          `db:"status"`
	ResolvedBy      sql.NullString  `db:"resolved_by"`
	ResolvedAt      sql.NullTime    `db:"resolved_at"`
	ResolutionNote  sql.NullString  `db:"resolution_note"`
	AuditFields
}
