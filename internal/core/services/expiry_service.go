package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
)

const (
	// ExpiredReason is the cancel reason written by the sweep.
	ExpiredReason = "expired"

	expirySweepBatchSize = 100
)

type expiryService struct {
	BaseService
	orderRepo portsrepo.OrderReader
	settler   *orderSettler
	unpaidTTL time.Duration
	batchSize int
}

// NewExpiryService creates the sweep that cancels orders whose payment window closed.
// Orders that never obtained a charge are cancelled once they are older than unpaidTTL.
func NewExpiryService(
	unpaidTTL time.Duration,
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerSvcFacade,
	inventory portssvc.InventorySvc,
	publisher portssvc.EventPublisher,
	options ...Option,
) portssvc.ExpirySvc {
	svc := &expiryService{
		orderRepo: repos.OrderRepo,
		unpaidTTL: unpaidTTL,
		batchSize: expirySweepBatchSize,
	}
	svc.apply(options)
	svc.settler = newOrderSettler(repos, ledger, inventory, publisher, svc.BaseService)
	return svc
}

var _ portssvc.ExpirySvc = (*expiryService)(nil)

// SweepExpiredOrders cancels expired pending orders and returns how many it cancelled.
// A failing order is logged and skipped; it is picked up again by the next sweep.
func (s *expiryService) SweepExpiredOrders(ctx context.Context, now time.Time) (int, error) {
	unpaidBefore := now.Add(-s.unpaidTTL)
	cancelled := 0
	for {
		orders, err := s.orderRepo.FindExpiredPendingOrders(ctx, now, unpaidBefore, s.batchSize)
		if err != nil {
			s.LogError(ctx, err, "Failed to load expired orders")
			return cancelled, err
		}

		progressed := 0
		for i := range orders {
			reason := ExpiredReason
			_, applied, err := s.settler.apply(ctx, &orders[i], transition{
				event:        domain.EventFailed,
				actorID:      domain.SystemActor,
				cancelReason: &reason,
			})
			if err != nil {
				s.LogError(ctx, err, "Failed to expire order",
					slog.String("order_id", orders[i].OrderID),
					slog.String("tenant_id", orders[i].TenantID))
				continue
			}
			if applied {
				progressed++
			}
		}
		cancelled += progressed

		if len(orders) < s.batchSize || progressed == 0 {
			break
		}
	}

	if cancelled > 0 {
		s.LogInfo(ctx, "Expired orders cancelled", slog.Int("count", cancelled))
	}
	return cancelled, nil
}
