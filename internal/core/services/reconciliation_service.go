package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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

const maxReconciliationPageSize = 100

// ReconciliationConfig tunes the daily balance comparison.
type ReconciliationConfig struct {
	// Tolerance is the largest absolute discrepancy still considered reconciled.
	Tolerance decimal.Decimal
	// LockTTL bounds how long one replica may hold a tenant's run.
	LockTTL time.Duration
}

type reconciliationService struct {
	BaseService
	cfg        ReconciliationConfig
	tenantRepo portsrepo.TenantReader
	recordRepo portsrepo.ReconciliationRepositoryFacade
	ledger     portssvc.LedgerReaderSvc
	gateway    portssvc.PaymentGateway
	locker     portssvc.Locker
}

// NewReconciliationService creates the balance reconciliation service.
// A nil locker runs tenants without cross-replica exclusion.
func NewReconciliationService(
	cfg ReconciliationConfig,
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerReaderSvc,
	gateway portssvc.PaymentGateway,
	locker portssvc.Locker,
	options ...Option,
) portssvc.ReconciliationSvcFacade {
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	svc := &reconciliationService{
		cfg:        cfg,
		tenantRepo: repos.TenantRepo,
		recordRepo: repos.ReconciliationRepo,
		ledger:     ledger,
		gateway:    gateway,
		locker:     locker,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// RunDaily reconciles every active tenant. One tenant failing never stops the others.
func (s *reconciliationService) RunDaily(ctx context.Context, runAt time.Time) (*dto.ReconciliationRunSummary, error) {
	tenants, err := s.tenantRepo.ListActiveTenants(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants for reconciliation")
		return nil, err
	}

	summary := &dto.ReconciliationRunSummary{}
	for _, tenant := range tenants {
		record, err := s.ReconcileTenant(ctx, tenant, runAt)
		if err != nil {
			summary.Skipped++
			if errors.Is(err, apperrors.ErrLockNotObtained) {
				s.LogInfo(ctx, "Reconciliation already running elsewhere", slog.String("tenant_id", tenant.TenantID))
			} else {
				s.LogError(ctx, err, "Reconciliation skipped for tenant", slog.String("tenant_id", tenant.TenantID))
			}
			continue
		}

		summary.Processed++
		switch record.Status {
		case domain.ReconciliationReconciled:
			summary.Reconciled++
		case domain.ReconciliationPending:
			summary.Flagged++
		}
	}

	s.LogInfo(ctx, "Reconciliation run finished",
		slog.Int("processed", summary.Processed),
		slog.Int("reconciled", summary.Reconciled),
		slog.Int("flagged", summary.Flagged),
		slog.Int("skipped", summary.Skipped))
	return summary, nil
}

// ReconcileTenant compares the ledger with the gateway for runAt's UTC day and stores the result.
// A gateway failure stores nothing.
func (s *reconciliationService) ReconcileTenant(ctx context.Context, tenant domain.Tenant, runAt time.Time) (*domain.ReconciliationRecord, error) {
	day := domain.TruncateToDay(runAt)

	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, "reconciliation:"+tenant.TenantID+":"+day.Format(time.DateOnly), s.cfg.LockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
				s.LogWarn(ctx, "Failed to release reconciliation lock",
					slog.String("tenant_id", tenant.TenantID),
					slog.String("error", err.Error()))
			}
		}()
	}

	platform, err := s.ledger.RunningBalance(ctx, tenant.TenantID, domain.EndOfDay(runAt))
	if err != nil {
		return nil, err
	}
	gatewayBalance, err := s.gateway.GetAccountBalance(ctx, tenant.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("gateway balance for tenant %s: %w", tenant.TenantID, err)
	}

	record := domain.NewReconciliationRecord(tenant.TenantID, day, platform, gatewayBalance, s.cfg.Tolerance)
	record.RecordID = uuid.NewString()
	record.AuditFields = domain.NewAuditFields(domain.SystemActor, s.Now())

	stored, err := s.recordRepo.SaveRecord(ctx, record)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyFinalized) && stored != nil {
			s.LogInfo(ctx, "Reconciliation record already resolved, left untouched",
				slog.String("tenant_id", tenant.TenantID),
				slog.String("record_id", stored.RecordID))
			return stored, nil
		}
		return nil, err
	}

	if stored.Status == domain.ReconciliationPending {
		s.LogWarn(ctx, "Balance discrepancy detected",
			slog.String("tenant_id", tenant.TenantID),
			slog.String("platform_balance", platform.StringFixed(2)),
			slog.String("gateway_balance", gatewayBalance.StringFixed(2)),
			slog.String("discrepancy", stored.Discrepancy.StringFixed(2)))
	}
	return stored, nil
}

// ListRecords returns a page of reconciliation records, newest day first.
func (s *reconciliationService) ListRecords(ctx context.Context, tenantID string, params dto.ListReconciliationsParams) (*dto.ListReconciliationsResponse, error) {
	var status *domain.ReconciliationStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.ReconciliationStatus(*params.Status)
		status = &st
	}
	limit := pagination.NormalizeLimit(params.Limit, maxReconciliationPageSize)
	records, nextToken, err := s.recordRepo.ListRecords(ctx, tenantID, status, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciliation records", slog.String("tenant_id", tenantID))
		return nil, err
	}
	resp := dto.ToListReconciliationsResponse(records, nextToken)
	return &resp, nil
}

// ResolveRecord closes a flagged discrepancy with the operator's explanation.
func (s *reconciliationService) ResolveRecord(ctx context.Context, tenantID, recordID, actorID, note string) (*domain.ReconciliationRecord, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("%w: a resolution note is required", apperrors.ErrValidation)
	}

	record, err := s.recordRepo.FindRecordByID(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.ReconciliationPending {
		return nil, fmt.Errorf("reconciliation record %s is %s: %w", recordID, record.Status, apperrors.ErrAlreadyFinalized)
	}

	now := s.Now()
	if err := s.recordRepo.ResolveRecord(ctx, tenantID, recordID, actorID, note, now); err != nil {
		return nil, err
	}

	record.Status = domain.ReconciliationResolved
	record.ResolvedBy = &actorID
	record.ResolvedAt = &now
	record.ResolutionNote = &note
	record.LastUpdatedAt = now
	record.LastUpdatedBy = actorID

	s.LogInfo(ctx, "Reconciliation record resolved",
		slog.String("record_id", recordID),
		slog.String("actor_id", actorID))
	return record, nil
}
