package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

type ReconciliationRepositoryFacade interface {
	// SaveRecord upserts the record for (tenant, date). A resolved record is left untouched
	// and apperrors.ErrAlreadyFinalized is returned with the stored row.
	SaveRecord(ctx context.Context, record domain.ReconciliationRecord) (*domain.ReconciliationRecord, error)
	FindRecordByID(ctx context.Context, tenantID, recordID string) (*domain.ReconciliationRecord, error)
	ListRecords(ctx context.Context, tenantID string, status *domain.ReconciliationStatus, limit int, nextToken *string) ([]domain.ReconciliationRecord, *string, error)
	// ResolveRecord moves a pending record to resolved, else apperrors.ErrAlreadyFinalized.
	ResolveRecord(ctx context.Context, tenantID, recordID, resolvedBy, note string, at time.Time) error
}
