package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is a tenant's payout destination.
type BankAccount struct {
	BankAccountID  string `json:"bankAccountID"`
	TenantID       string `json:"tenantID"`
	BankCode       string `json:"bankCode"`
	Branch         string `json:"branch"`
	AccountNumber  string `json:"accountNumber"`
	HolderName     string `json:"holderName"`
	HolderDocument string `json:"holderDocument"`
	AuditFields
}

type WithdrawalStatus string

const (
	WithdrawalRequested WithdrawalStatus = "requested"
	WithdrawalCompleted WithdrawalStatus = "completed"
	WithdrawalFailed    WithdrawalStatus = "failed"
)

// Withdrawal moves settled funds to a bank account. It is backed by a pending debit ledger entry.
type Withdrawal struct {
	WithdrawalID  string           `json:"withdrawalID"`
	TenantID      string           `json:"tenantID"`
	BankAccountID string           `json:"bankAccountID"`
	Amount        decimal.Decimal  `json:"amount"`
	Status        WithdrawalStatus `json:"status"`
	LedgerEntryID string           `json:"ledgerEntryID"`
	FailureReason *string          `json:"failureReason,omitempty"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty"`
	AuditFields
}
