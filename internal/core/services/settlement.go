package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/google/uuid"
)

// maxTransitionAttempts bounds the reload-and-retry loop after a lost compare-and-set.
const maxTransitionAttempts = 3

// gatewayAudit is the webhook payload recorded in the gateway log alongside a transition.
type gatewayAudit struct {
	transactionID string
	rawBody       json.RawMessage
}

type transition struct {
	event        domain.PaymentEvent
	actorID      string
	cancelReason *string
	audit        *gatewayAudit
}

// orderSettler owns the only code path that moves an order out of pending.
// Webhooks, operator cancels and the expiry sweep all go through it.
type orderSettler struct {
	BaseService
	txManager   portsrepo.TransactionManager
	orderRepo   portsrepo.OrderRepositoryFacade
	gatewayLogs portsrepo.GatewayLogRepositoryFacade
	ledger      portssvc.LedgerSvcFacade
	inventory   portssvc.InventorySvc
	publisher   portssvc.EventPublisher
}

func newOrderSettler(repos portsrepo.RepositoryProvider, ledger portssvc.LedgerSvcFacade, inventory portssvc.InventorySvc, publisher portssvc.EventPublisher, base BaseService) *orderSettler {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return &orderSettler{
		BaseService: base,
		txManager:   repos.TxManager,
		orderRepo:   repos.OrderRepo,
		gatewayLogs: repos.GatewayLogRepo,
		ledger:      ledger,
		inventory:   inventory,
		publisher:   publisher,
	}
}

// apply runs the event against the order. applied is false when the event changed nothing,
// which includes replays against a terminal order. ErrIllegalTransition is returned as is.
func (s *orderSettler) apply(ctx context.Context, order *domain.Order, t transition) (*domain.Order, bool, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		current := order.State()
		next, err := domain.NextOrderState(current, t.event)
		if err != nil {
			s.recordAudit(ctx, order, t)
			if errors.Is(err, apperrors.ErrAlreadyFinalized) {
				s.LogDebug(ctx, "Order already finalized, event ignored",
					slog.String("order_id", order.OrderID),
					slog.String("event", string(t.event)))
				return order, false, nil
			}
			return order, false, err
		}
		if next == current {
			s.recordAudit(ctx, order, t)
			return order, false, nil
		}

		updated, err := s.commit(ctx, order, current, next, t)
		if err == nil {
			s.publish(ctx, updated, t)
			return updated, true, nil
		}
		if !errors.Is(err, apperrors.ErrAlreadyFinalized) {
			return order, false, err
		}

		// another writer moved the order first
		s.LogDebug(ctx, "Order changed concurrently, reloading",
			slog.String("order_id", order.OrderID),
			slog.Int("attempt", attempt+1))
		order, err = s.orderRepo.FindOrderByID(ctx, order.TenantID, order.OrderID)
		if err != nil {
			return nil, false, err
		}
	}
	return order, false, fmt.Errorf("order %s kept changing during %s: %w", order.OrderID, t.event, apperrors.ErrAlreadyFinalized)
}

func (s *orderSettler) commit(ctx context.Context, order *domain.Order, current, next domain.OrderState, t transition) (*domain.Order, error) {
	now := s.Now()
	updated := *order
	updated.Status = next.Status
	updated.PaymentStatus = next.PaymentStatus
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = t.actorID

	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		var reason *string
		if next.Status == domain.OrderCancelled {
			reason = t.cancelReason
		}
		if err := s.orderRepo.UpdateOrderState(txCtx, order.TenantID, order.OrderID, current, next, reason, t.actorID, now); err != nil {
			return err
		}

		switch next.Status {
		case domain.OrderConfirmed:
			updated.ConfirmedAt = &now
			if err := s.finalizeEntry(txCtx, order, domain.EntryConfirmed, t.actorID); err != nil {
				return err
			}
		case domain.OrderCancelled:
			updated.CancelledAt = &now
			if reason != nil && updated.CancelReason == nil {
				updated.CancelReason = reason
			}
			if err := s.finalizeEntry(txCtx, order, domain.EntryFailed, t.actorID); err != nil {
				return err
			}
			released, err := s.releaseStock(txCtx, order, now)
			if err != nil {
				return err
			}
			if released {
				updated.StockReleasedAt = &now
			}
		}

		if t.audit != nil {
			return s.gatewayLogs.UpsertGatewayLog(txCtx, s.auditLog(order, t, now))
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyFinalized) {
			s.LogError(ctx, err, "Failed to commit order transition",
				slog.String("order_id", order.OrderID),
				slog.String("event", string(t.event)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Order transitioned",
		slog.String("order_id", order.OrderID),
		slog.String("tenant_id", order.TenantID),
		slog.String("status", string(next.Status)),
		slog.String("payment_status", string(next.PaymentStatus)))
	return &updated, nil
}

// finalizeEntry settles the order's ledger entry. An entry already in the target state is left alone.
func (s *orderSettler) finalizeEntry(ctx context.Context, order *domain.Order, target domain.EntryStatus, actorID string) error {
	entry, err := s.ledger.GetEntryByReference(ctx, order.TenantID, order.OrderID)
	if err != nil {
		return fmt.Errorf("ledger entry for order %s: %w", order.OrderID, err)
	}
	if entry.Status == target {
		return nil
	}
	if target == domain.EntryConfirmed {
		_, err = s.ledger.ConfirmEntry(ctx, order.TenantID, entry.EntryID, actorID)
	} else {
		_, err = s.ledger.FailEntry(ctx, order.TenantID, entry.EntryID, actorID)
	}
	return err
}

func (s *orderSettler) releaseStock(ctx context.Context, order *domain.Order, now time.Time) (bool, error) {
	claimed, err := s.orderRepo.MarkStockReleased(ctx, order.TenantID, order.OrderID, now)
	if err != nil {
		return false, err
	}
	if !claimed {
		s.LogWarn(ctx, "Stock already released for order", slog.String("order_id", order.OrderID))
		return false, nil
	}
	return true, s.inventory.Release(ctx, order.TenantID, order.Items)
}

// auditLog builds the row for the order's own correlation id.
func (s *orderSettler) auditLog(order *domain.Order, t transition, now time.Time) domain.GatewayTransactionLog {
	log := domain.GatewayTransactionLog{
		CorrelationID: order.CorrelationID,
		TenantID:      order.TenantID,
		OrderID:       order.OrderID,
		Operation:     domain.GatewayOpWebhook,
		LastWebhook:   t.audit.rawBody,
		Success:       t.event != domain.EventFailed,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if t.audit.transactionID != "" {
		txnID := t.audit.transactionID
		log.GatewayTransactionID = &txnID
	}
	return log
}

// recordAudit writes the gateway log for events that did not change the order.
func (s *orderSettler) recordAudit(ctx context.Context, order *domain.Order, t transition) {
	if t.audit == nil {
		return
	}
	if err := s.gatewayLogs.UpsertGatewayLog(ctx, s.auditLog(order, t, s.Now())); err != nil {
		s.LogError(ctx, err, "Failed to record gateway webhook", slog.String("order_id", order.OrderID))
	}
}

func (s *orderSettler) publish(ctx context.Context, order *domain.Order, t transition) {
	var eventType domain.EventType
	switch {
	case order.Status == domain.OrderConfirmed:
		eventType = domain.EventOrderConfirmed
	case order.Status == domain.OrderCancelled:
		eventType = domain.EventOrderCancelled
	case order.PaymentStatus == domain.PaymentProcessing:
		eventType = domain.EventPaymentProcessing
	default:
		return
	}

	attrs := map[string]string{
		"order_number":   fmt.Sprintf("%d", order.OrderNumber),
		"total":          order.Total.StringFixed(2),
		"payment_method": string(order.PaymentMethod),
		"actor_id":       t.actorID,
	}
	if order.CancelReason != nil {
		attrs["cancel_reason"] = *order.CancelReason
	}
	s.publisher.Publish(ctx, domain.DomainEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		TenantID:    order.TenantID,
		AggregateID: order.OrderID,
		OccurredAt:  s.Now(),
		Attributes:  attrs,
	})
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.DomainEvent) {}
