package dto

import (
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID       string          `json:"entryID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	Status        string          `json:"status"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
	ReversedAt    *time.Time      `json:"reversedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListLedgerEntriesParams defines query parameters for listing ledger entries.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerEntriesResponse wraps a page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// BalanceResponse is the running balance of a tenant at a point in time.
// Available is the balance minus withdrawals that were requested but not completed.
type BalanceResponse struct {
	TenantID  string          `json:"tenantID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
}

// BalanceParams defines query parameters for the balance endpoint.
type BalanceParams struct {
	AsOf string `form:"asOf"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:       e.EntryID,
		Type:          string(e.Type),
		Amount:        e.Amount,
		ReferenceType: string(e.ReferenceType),
		ReferenceID:   e.ReferenceID,
		Status:        string(e.Status),
		ConfirmedAt:   e.ConfirmedAt,
		ReversedAt:    e.ReversedAt,
		CreatedAt:     e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain.LedgerEntry.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}
