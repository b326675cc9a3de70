package services

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/dto"
)

// ReconciliationRunner compares ledger balances with the gateway.
type ReconciliationRunner interface {
	RunDaily(ctx context.Context, runAt time.Time) (*dto.ReconciliationRunSummary, error)
	ReconcileTenant(ctx context.Context, tenant domain.Tenant, runAt time.Time) (*domain.ReconciliationRecord, error)
}

// ReconciliationReviewer lets operators inspect and resolve discrepancies.
type ReconciliationReviewer interface {
	ListRecords(ctx context.Context, tenantID string, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error)
	ResolveRecord(ctx context.Context, tenantID, recordID, actorID, note string) (*domain.ReconciliationRecord, error)
}

type ReconciliationSvcFacade interface {
	ReconciliationRunner
	ReconciliationReviewer
}
