package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/dto"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
)

// PaymentFailedReason is stored as cancel reason when the gateway reports a failed payment.
const PaymentFailedReason = "payment failed"

type webhookService struct {
	BaseService
	orderRepo portsrepo.OrderReader
	settler   *orderSettler
}

// NewWebhookService creates the gateway callback consumer.
func NewWebhookService(
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerSvcFacade,
	inventory portssvc.InventorySvc,
	publisher portssvc.EventPublisher,
	options ...Option,
) portssvc.WebhookSvcFacade {
	svc := &webhookService{orderRepo: repos.OrderRepo}
	svc.apply(options)
	svc.settler = newOrderSettler(repos, ledger, inventory, publisher, svc.BaseService)
	return svc
}

var _ portssvc.WebhookSvcFacade = (*webhookService)(nil)

// HandleGatewayCallback applies an authenticated gateway status update. Unknown transactions
// and replays are acknowledged without changes so the gateway stops retrying.
func (s *webhookService) HandleGatewayCallback(ctx context.Context, req dto.GatewayWebhookRequest, rawBody []byte) (*dto.WebhookResponse, error) {
	order, err := s.orderRepo.FindOrderByGatewayTransactionID(ctx, req.TransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Webhook for unknown gateway transaction",
				slog.String("gateway_transaction_id", req.TransactionID),
				slog.String("status", req.Status))
			return &dto.WebhookResponse{Success: true, Status: dto.WebhookStatusNotFound}, nil
		}
		s.LogError(ctx, err, "Failed to look up order for webhook",
			slog.String("gateway_transaction_id", req.TransactionID))
		return nil, err
	}

	event, err := domain.EventFromGatewayStatus(req.Status)
	if err != nil {
		s.LogWarn(ctx, "Webhook with unknown status",
			slog.String("order_id", order.OrderID),
			slog.String("status", req.Status))
		return nil, err
	}

	ctx = middleware.WithLogger(ctx, s.GetLogger(ctx).With(
		slog.String("tenant_id", order.TenantID),
		slog.String("order_id", order.OrderID),
	))
	if req.CorrelationID != "" && req.CorrelationID != order.CorrelationID {
		s.LogWarn(ctx, "Webhook correlation id does not match order",
			slog.String("payload_correlation_id", req.CorrelationID),
			slog.String("correlation_id", order.CorrelationID))
	}

	t := transition{
		event:   event,
		actorID: domain.SystemActor,
		audit: &gatewayAudit{
			transactionID: req.TransactionID,
			rawBody:       rawBody,
		},
	}
	if event == domain.EventFailed {
		reason := PaymentFailedReason
		t.cancelReason = &reason
	}

	updated, applied, err := s.settler.apply(ctx, order, t)
	if err != nil {
		if errors.Is(err, apperrors.ErrIllegalTransition) {
			s.LogWarn(ctx, "Webhook rejected by order state machine",
				slog.String("event", string(event)),
				slog.String("error", err.Error()))
			return &dto.WebhookResponse{
				Success: false,
				OrderID: order.OrderID,
				Status:  string(order.Status),
				Message: err.Error(),
			}, nil
		}
		return nil, err
	}

	if !applied {
		s.LogDebug(ctx, "Webhook did not change order", slog.String("event", string(event)))
	}
	return &dto.WebhookResponse{
		Success: true,
		OrderID: updated.OrderID,
		Status:  string(updated.Status),
	}, nil
}
