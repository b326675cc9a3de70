package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

type BankAccountRepositoryFacade interface {
	CreateBankAccount(ctx context.Context, account domain.BankAccount) error
	FindBankAccountByID(ctx context.Context, tenantID, bankAccountID string) (*domain.BankAccount, error)
}

type WithdrawalRepositoryFacade interface {
	CreateWithdrawal(ctx context.Context, withdrawal domain.Withdrawal) error
	FindWithdrawalByID(ctx context.Context, tenantID, withdrawalID string) (*domain.Withdrawal, error)
	// UpdateWithdrawalStatus is a compare-and-set from `from`, else apperrors.ErrAlreadyFinalized.
	UpdateWithdrawalStatus(ctx context.Context, tenantID, withdrawalID string, from, to domain.WithdrawalStatus, failureReason *string, updatedBy string, at time.Time) error
}
