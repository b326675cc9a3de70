package dto

import (
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest registers a payout destination.
type CreateBankAccountRequest struct {
	BankCode       string `json:"bankCode" binding:"required,len=3,numeric"`
	Branch         string `json:"branch" binding:"required,max=10"`
	AccountNumber  string `json:"accountNumber" binding:"required,max=20"`
	HolderName     string `json:"holderName" binding:"required"`
	HolderDocument string `json:"holderDocument" binding:"required,numeric,min=11,max=14"`
}

// CreateWithdrawalRequest asks to move settled funds out.
type CreateWithdrawalRequest struct {
	BankAccountID string          `json:"bankAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

// FailWithdrawalRequest records why a payout bounced.
type FailWithdrawalRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// BankAccountResponse defines the data returned for a bank account.
type BankAccountResponse struct {
	BankAccountID string    `json:"bankAccountID"`
	BankCode      string    `json:"bankCode"`
	Branch        string    `json:"branch"`
	AccountNumber string    `json:"accountNumber"`
	HolderName    string    `json:"holderName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WithdrawalResponse defines the data returned for a withdrawal.
type WithdrawalResponse struct {
	WithdrawalID  string          `json:"withdrawalID"`
	BankAccountID string          `json:"bankAccountID"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	LedgerEntryID string          `json:"ledgerEntryID"`
	FailureReason *string         `json:"failureReason,omitempty"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func ToBankAccountResponse(a *domain.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		BankAccountID: a.BankAccountID,
		BankCode:      a.BankCode,
		Branch:        a.Branch,
		AccountNumber: a.AccountNumber,
		HolderName:    a.HolderName,
		CreatedAt:     a.CreatedAt,
	}
}

func ToWithdrawalResponse(w *domain.Withdrawal) WithdrawalResponse {
	return WithdrawalResponse{
		WithdrawalID:  w.WithdrawalID,
		BankAccountID: w.BankAccountID,
		Amount:        w.Amount,
		Status:        string(w.Status),
		LedgerEntryID: w.LedgerEntryID,
		FailureReason: w.FailureReason,
		CompletedAt:   w.CompletedAt,
		CreatedAt:     w.CreatedAt,
	}
}
