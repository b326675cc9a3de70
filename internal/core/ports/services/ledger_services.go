package services

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerWriterSvc records and finalizes ledger entries.
type LedgerWriterSvc interface {
	// RecordEntry is idempotent on (tenant, referenceID) and returns the stored entry.
	RecordEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)
	ConfirmEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.LedgerEntry, error)
	FailEntry(ctx context.Context, tenantID, entryID, actorID string) (*domain.LedgerEntry, error)
}

// LedgerReaderSvc exposes balances and entries.
type LedgerReaderSvc interface {
	RunningBalance(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error)
	AvailableBalance(ctx context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error)
	GetEntryByReference(ctx context.Context, tenantID, referenceID string) (*domain.LedgerEntry, error)
	ListEntries(ctx context.Context, tenantID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}

type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
