package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Withdrawal is the row stored in withdrawals.
type Withdrawal struct {
	WithdrawalID  string          `db:"withdrawal_id"`
	TenantID      string          `db:"tenant_id"`
	BankAccountID string          `db:"bank_account_id"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	LedgerEntryID string          `db:"ledger_entry_id"`
	FailureReason sql.NullString  `db:"failure_reason"`
	CompletedAt   sql.NullTime    `db:"completed_at"`
	AuditFields
}
