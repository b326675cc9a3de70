package domain

import (
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryType is the direction of a ledger movement.
type EntryType string

const (
	Credit EntryType = "credit"
	Debit  EntryType = "debit"
)

// EntryStatus is the lifecycle of a ledger entry. pending moves to confirmed or failed exactly once.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryConfirmed EntryStatus = "confirmed"
	EntryFailed    EntryStatus = "failed"
)

// ReferenceType names the aggregate a ledger entry was recorded for.
type ReferenceType string

const (
	ReferenceOrder      ReferenceType = "order"
	ReferenceWithdrawal ReferenceType = "withdrawal"
)

// LedgerEntry is an append-only money movement. Amount and Type never change after creation.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`
	TenantID      string          `json:"tenantID"`
	Type          EntryType       `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	Status        EntryStatus     `json:"status"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
	ReversedAt    *time.Time      `json:"reversedAt,omitempty"`
	AuditFields
}

// CheckEntryTransition allows only pending -> confirmed and pending -> failed.
func CheckEntryTransition(current, target EntryStatus) error {
	if current != EntryPending {
		return apperrors.ErrAlreadyFinalized
	}
	if target != EntryConfirmed && target != EntryFailed {
		return apperrors.ErrIllegalTransition
	}
	return nil
}
