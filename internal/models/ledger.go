package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the row stored in ledger_entries.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	TenantID      string          `db:"tenant_id"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	ReferenceType string          `db:"reference_type"`
	ReferenceID   string          `db:"reference_id"`
	Status        string          `db:"status"`
	ConfirmedAt   sql.NullTime    `db:"confirmed_at"`
	ReversedAt    sql.NullTime    `db:"reversed_at"`
	AuditFields
}
