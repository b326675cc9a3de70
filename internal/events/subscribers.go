package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
)

// TaxDocumentIssuer issues the fiscal document of a confirmed order.
type TaxDocumentIssuer interface {
	IssueForOrder(ctx context.Context, tenantID, orderID string, attributes map[string]string) error
}

// Notifier tells the tenant or its customer about a committed change.
type Notifier interface {
	Notify(ctx context.Context, event domain.DomainEvent) error
}

// TaxDocumentSubscriber requests tax documents for confirmed orders only.
type TaxDocumentSubscriber struct {
	Issuer TaxDocumentIssuer
}

func (s TaxDocumentSubscriber) Name() string { return "tax_documents" }

func (s TaxDocumentSubscriber) Handle(ctx context.Context, event domain.DomainEvent) error {
	if event.Type != domain.EventOrderConfirmed {
		return nil
	}
	return s.Issuer.IssueForOrder(ctx, event.TenantID, event.AggregateID, event.Attributes)
}

// NotificationSubscriber forwards every event to the notifier.
type NotificationSubscriber struct {
	Notifier Notifier
}

func (s NotificationSubscriber) Name() string { return "notifications" }

func (s NotificationSubscriber) Handle(ctx context.Context, event domain.DomainEvent) error {
	return s.Notifier.Notify(ctx, event)
}

// LogTaxDocumentIssuer is the default issuer until a fiscal provider is wired.
type LogTaxDocumentIssuer struct{}

func (LogTaxDocumentIssuer) IssueForOrder(ctx context.Context, tenantID, orderID string, attributes map[string]string) error {
	middleware.GetLoggerFromCtx(ctx).Info("Tax document requested",
		slog.String("tenant_id", tenantID),
		slog.String("order_id", orderID),
		slog.String("total", attributes["total"]))
	return nil
}

// LogNotifier is the default notifier.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event domain.DomainEvent) error {
	middleware.GetLoggerFromCtx(ctx).Info("Notification sent",
		slog.String("event_type", string(event.Type)),
		slog.String("tenant_id", event.TenantID),
		slog.String("aggregate_id", event.AggregateID))
	return nil
}
