package services

import (
	"context"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/dto"
)

type WithdrawalSvcFacade interface {
	RegisterBankAccount(ctx context.Context, tenantID string, req dto.CreateBankAccountRequest, actorID string) (*domain.BankAccount, error)
	RequestWithdrawal(ctx context.Context, tenantID string, req dto.CreateWithdrawalRequest, actorID string) (*domain.Withdrawal, error)
	CompleteWithdrawal(ctx context.Context, tenantID, withdrawalID, actorID string) (*domain.Withdrawal, error)
	FailWithdrawal(ctx context.Context, tenantID, withdrawalID, reason, actorID string) (*domain.Withdrawal, error)
}
