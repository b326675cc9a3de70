package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the state of a daily balance comparison.
type ReconciliationStatus string

const (
	ReconciliationPending    ReconciliationStatus = "pending"
	ReconciliationReconciled ReconciliationStatus = "reconciled"
	ReconciliationResolved   ReconciliationStatus = "resolved"
)

// ReconciliationRecord compares the ledger balance against the gateway balance for one tenant and day.
type ReconciliationRecord struct {
	RecordID        string               `json:"recordID"`
	TenantID        string               `json:"tenantID"`
	Date            time.Time            `json:"date"`
	PlatformBalance decimal.Decimal      `json:"platformBalance"`
	GatewayBalance  decimal.Decimal      `json:"gatewayBalance"`
	Discrepancy     decimal.Decimal      `json:"discrepancy"`
	Status          ReconciliationStatus `json:"status"`
	ResolvedBy      *string              `json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time           `json:"resolvedAt,omitempty"`
	ResolutionNote  *string              `json:"resolutionNote,omitempty"`
	AuditFields
}

// NewReconciliationRecord computes discrepancy = platform - gateway and flags it
// pending when its absolute value exceeds tolerance.
func NewReconciliationRecord(tenantID string, date time.Time, platform, gateway, tolerance decimal.Decimal) ReconciliationRecord {
	discrepancy := platform.Sub(gateway)
	status := ReconciliationReconciled
	if discrepancy.Abs().GreaterThan(tolerance) {
		status = ReconciliationPending
	}
	return ReconciliationRecord{
		TenantID:        tenantID,
		Date:            TruncateToDay(date),
		PlatformBalance: platform,
		GatewayBalance:  gateway,
		Discrepancy:     discrepancy,
		Status:          status,
	}
}

// TruncateToDay returns midnight UTC of t's UTC date.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's UTC date.
func EndOfDay(t time.Time) time.Time {
	return TruncateToDay(t).Add(24*time.Hour - time.Nanosecond)
}
