package domain

import "time"

// EventType names a domain event emitted after a state change commits.
type EventType string

const (
	EventOrderConfirmed      EventType = "order.confirmed"
	EventOrderCancelled      EventType = "order.cancelled"
	EventPaymentProcessing   EventType = "payment.processing"
	EventWithdrawalCompleted EventType = "withdrawal.completed"
)

// DomainEvent is a notification that a committed change happened.
type DomainEvent struct {
	EventID     string            `json:"eventID"`
	Type        EventType         `json:"type"`
	TenantID    string            `json:"tenantID"`
	AggregateID string            `json:"aggregateID"`
	OccurredAt  time.Time         `json:"occurredAt"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}
