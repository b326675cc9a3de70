package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxLedgerPageSize = 200

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, options ...Option) portssvc.LedgerSvcFacade {
	svc := &ledgerService{ledgerRepo: ledgerRepo}
	svc.apply(options)
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordEntry creates a pending entry, or returns the entry already stored for the reference.
func (s *ledgerService) RecordEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if !entry.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: ledger amount must be greater than zero", apperrors.ErrValidation)
	}
	if entry.Type != domain.Credit && entry.Type != domain.Debit {
		return nil, fmt.Errorf("%w: unknown ledger entry type %q", apperrors.ErrValidation, entry.Type)
	}
	if entry.ReferenceID == "" {
		return nil, fmt.Errorf("%w: ledger entry needs a reference", apperrors.ErrValidation)
	}

	now := s.Now()
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = domain.EntryPending
	}
	if entry.Status == domain.EntryConfirmed && entry.ConfirmedAt == nil {
		entry.ConfirmedAt = &now
	}
	if entry.CreatedAt.IsZero() {
		entry.AuditFields = domain.NewAuditFields(entry.CreatedBy, now)
	}

	stored, created, err := s.ledgerRepo.InsertEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to record ledger entry",
			slog.String("tenant_id", entry.TenantID),
			slog.String("reference_id", entry.ReferenceID))
		return nil, err
	}
	if !created {
		s.LogDebug(ctx, "Ledger entry already recorded for reference",
			slog.String("entry_id", stored.EntryID),
			slog.String("reference_id", entry.ReferenceID))
	}
	return stored, nil
}

// ConfirmEntry moves a pending entry to confirmed.
func (s *ledgerService) ConfirmEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.LedgerEntry, error) {
	return s.finalize(ctx, tenantID, entryID, domain.EntryConfirmed, actorID)
}

// FailEntry moves a pending entry to failed.
func (s *ledgerService) FailEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.LedgerEntry, error) {
	return s.finalize(ctx, tenantID, entryID, domain.EntryFailed, actorID)
}

func (s *ledgerService) finalize(ctx context.Context, tenantID, entryID string, target domain.EntryStatus, actorID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckEntryTransition(entry.Status, target); err != nil {
		return entry, fmt.Errorf("ledger entry %s is %s: %w", entryID, entry.Status, err)
	}

	now := s.Now()
	if err := s.ledgerRepo.UpdateEntryStatus(ctx, tenantID, entryID, domain.EntryPending, target, actorID, now); err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyFinalized) {
			s.LogError(ctx, err, "Failed to update ledger entry status",
				slog.String("entry_id", entryID),
				slog.String("target", string(target)))
		}
		return nil, err
	}

	entry.Status = target
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID
	if target == domain.EntryConfirmed {
		entry.ConfirmedAt = &now
	} else {
		entry.ReversedAt = &now
	}
	s.LogDebug(ctx, "Ledger entry finalized",
		slog.String("entry_id", entryID),
		slog.String("status", string(target)))
	return entry, nil
}

// RunningBalance returns confirmed credits minus confirmed debits as of the given instant.
func (s *ledgerService) RunningBalance(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error) {
	balance, err := s.ledgerRepo.SumConfirmed(ctx, tenantID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute running balance", slog.String("tenant_id", tenantID))
		return decimal.Zero, err
	}
	return balance, nil
}

// AvailableBalance is the running balance minus debits still waiting for confirmation.
func (s *ledgerService) AvailableBalance(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error) {
	balance, err := s.RunningBalance(ctx, tenantID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	pending, err := s.ledgerRepo.SumPendingDebits(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum pending debits", slog.String("tenant_id", tenantID))
		return decimal.Zero, err
	}
	return balance.Sub(pending), nil
}

func (s *ledgerService) GetEntryByReference(ctx context.Context, tenantID, referenceID string) (*domain.LedgerEntry, error) {
	return s.ledgerRepo.FindEntryByReference(ctx, tenantID, referenceID)
}

// ListEntries returns one page of the tenant's ledger, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, tenantID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	limit := pagination.NormalizeLimit(params.Limit, maxLedgerPageSize)
	entries, nextToken, err := s.ledgerRepo.ListEntries(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
