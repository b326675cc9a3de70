package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

type LedgerReader interface {
	FindEntryByID(ctx context.Context, tenantID, entryID string) (*domain.LedgerEntry, error)
	FindEntryByReference(ctx context.Context, tenantID, referenceID string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
	// SumConfirmed returns confirmed credits minus confirmed debits with confirmed_at <= asOf.
	SumConfirmed(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error)
	SumPendingDebits(ctx context.Context, tenantID string) (decimal.Decimal, error)
}

type LedgerWriter interface {
	// InsertEntry is idempotent on (tenant, referenceID): the stored row is returned and
	// created reports whether this call inserted it.
	InsertEntry(ctx context.Context, entry domain.LedgerEntry) (stored *domain.LedgerEntry, created bool, err error)
	// UpdateEntryStatus is a compare-and-set from `from`, else apperrors.ErrAlreadyFinalized.
	UpdateEntryStatus(ctx context.Context, tenantID, entryID string, from, to domain.EntryStatus, updatedBy string, at time.Time) error
}

type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
