package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/google/uuid"
)

const withdrawalLockTTL = 30 * time.Second

type withdrawalService struct {
	BaseService
	txManager      portsrepo.TransactionManager
	bankAccounts   portsrepo.BankAccountRepositoryFacade
	withdrawalRepo portsrepo.WithdrawalRepositoryFacade
	ledger         portssvc.LedgerSvcFacade
	locker         portssvc.Locker
	publisher      portssvc.EventPublisher
}

// NewWithdrawalService creates the payout service. The locker serializes balance checks per tenant.
func NewWithdrawalService(
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerSvcFacade,
	locker portssvc.Locker,
	publisher portssvc.EventPublisher,
	options ...Option,
) portssvc.WithdrawalSvcFacade {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	svc := &withdrawalService{
		txManager:      repos.TxManager,
		bankAccounts:   repos.BankAccountRepo,
		withdrawalRepo: repos.WithdrawalRepo,
		ledger:         ledger,
		locker:         locker,
		publisher:      publisher,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.WithdrawalSvcFacade = (*withdrawalService)(nil)

func (s *withdrawalService) RegisterBankAccount(ctx context.Context, tenantID string, req dto.CreateBankAccountRequest, actorID string) (*domain.BankAccount, error) {
	account := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		TenantID:       tenantID,
		BankCode:       req.BankCode,
		Branch:         req.Branch,
		AccountNumber:  req.AccountNumber,
		HolderName:     req.HolderName,
		HolderDocument: req.HolderDocument,
		AuditFields:    domain.NewAuditFields(actorID, s.Now()),
	}
	if err := s.bankAccounts.CreateBankAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to register bank account", slog.String("tenant_id", tenantID))
		return nil, err
	}
	s.LogInfo(ctx, "Bank account registered", slog.String("bank_account_id", account.BankAccountID))
	return &account, nil
}

// RequestWithdrawal reserves funds with a pending debit. The amount may not exceed
// the confirmed balance minus debits that are still pending.
func (s *withdrawalService) RequestWithdrawal(ctx context.Context, tenantID string, req dto.CreateWithdrawalRequest, actorID string) (*domain.Withdrawal, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be greater than zero", apperrors.ErrValidation)
	}
	if !domain.IsCentavoAmount(req.Amount) {
		return nil, fmt.Errorf("%w: withdrawal amount allows at most two decimal places", apperrors.ErrValidation)
	}
	if _, err := s.bankAccounts.FindBankAccountByID(ctx, tenantID, req.BankAccountID); err != nil {
		return nil, err
	}

	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, "withdrawal:"+tenantID, withdrawalLockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				s.LogWarn(ctx, "Failed to release withdrawal lock", slog.String("error", err.Error()))
			}
		}()
	}

	now := s.Now()
	withdrawal := domain.Withdrawal{
		WithdrawalID:  uuid.NewString(),
		TenantID:      tenantID,
		BankAccountID: req.BankAccountID,
		Amount:        req.Amount,
		Status:        domain.WithdrawalRequested,
		AuditFields:   domain.NewAuditFields(actorID, now),
	}

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		available, err := s.ledger.AvailableBalance(txCtx, tenantID, now)
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(available) {
			return fmt.Errorf("%w: withdrawal of %s exceeds available balance %s",
				apperrors.ErrValidation, req.Amount.StringFixed(2), available.StringFixed(2))
		}

		entry, err := s.ledger.RecordEntry(txCtx, domain.LedgerEntry{
			TenantID:      tenantID,
			Type:          domain.Debit,
			Amount:        req.Amount,
			ReferenceType: domain.ReferenceWithdrawal,
			ReferenceID:   withdrawal.WithdrawalID,
			Status:        domain.EntryPending,
			AuditFields:   domain.NewAuditFields(actorID, now),
		})
		if err != nil {
			return err
		}
		withdrawal.LedgerEntryID = entry.EntryID
		return s.withdrawalRepo.CreateWithdrawal(txCtx, withdrawal)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Withdrawal requested",
		slog.String("withdrawal_id", withdrawal.WithdrawalID),
		slog.String("amount", withdrawal.Amount.StringFixed(2)))
	return &withdrawal, nil
}

// CompleteWithdrawal confirms the payout and its debit.
func (s *withdrawalService) CompleteWithdrawal(ctx context.Context, tenantID, withdrawalID, actorID string) (*domain.Withdrawal, error) {
	w, err := s.finish(ctx, tenantID, withdrawalID, domain.WithdrawalCompleted, nil, actorID)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, domain.DomainEvent{
		EventID:     uuid.NewString(),
		Type:        domain.EventWithdrawalCompleted,
		TenantID:    tenantID,
		AggregateID: withdrawalID,
		OccurredAt:  s.Now(),
		Attributes: map[string]string{
			"amount":          w.Amount.StringFixed(2),
			"bank_account_id": w.BankAccountID,
		},
	})
	return w, nil
}

// FailWithdrawal records a bounced payout and releases the reserved funds.
func (s *withdrawalService) FailWithdrawal(ctx context.Context, tenantID, withdrawalID, reason, actorID string) (*domain.Withdrawal, error) {
	return s.finish(ctx, tenantID, withdrawalID, domain.WithdrawalFailed, &reason, actorID)
}

func (s *withdrawalService) finish(ctx context.Context, tenantID, withdrawalID string, target domain.WithdrawalStatus, reason *string, actorID string) (*domain.Withdrawal, error) {
	w, err := s.withdrawalRepo.FindWithdrawalByID(ctx, tenantID, withdrawalID)
	if err != nil {
		return nil, err
	}
	if w.Status != domain.WithdrawalRequested {
		return nil, fmt.Errorf("withdrawal %s is %s: %w", withdrawalID, w.Status, apperrors.ErrAlreadyFinalized)
	}

	now := s.Now()
	err = s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.withdrawalRepo.UpdateWithdrawalStatus(txCtx, tenantID, withdrawalID, domain.WithdrawalRequested, target, reason, actorID, now); err != nil {
			return err
		}
		if target == domain.WithdrawalCompleted {
			_, err := s.ledger.ConfirmEntry(txCtx, tenantID, w.LedgerEntryID, actorID)
			return err
		}
		_, err := s.ledger.FailEntry(txCtx, tenantID, w.LedgerEntryID, actorID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to finish withdrawal",
			slog.String("withdrawal_id", withdrawalID),
			slog.String("target", string(target)))
		return nil, err
	}

	w.Status = target
	w.FailureReason = reason
	w.LastUpdatedAt = now
	w.LastUpdatedBy = actorID
	if target == domain.WithdrawalCompleted {
		w.CompletedAt = &now
	}
	s.LogInfo(ctx, "Withdrawal finished",
		slog.String("withdrawal_id", withdrawalID),
		slog.String("status", string(target)))
	return w, nil
}
