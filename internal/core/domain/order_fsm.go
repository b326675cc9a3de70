package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
)

// PaymentEvent is a normalized payment outcome reported by the gateway or raised internally.
type PaymentEvent string

const (
	EventSucceeded  PaymentEvent = "succeeded"
	EventFailed     PaymentEvent = "failed"
	EventProcessing PaymentEvent = "processing"
)

// EventFromGatewayStatus maps the gateway's status vocabulary onto a PaymentEvent.
func EventFromGatewayStatus(status string) (PaymentEvent, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "paid", "approved", "confirmed":
		return EventSucceeded, nil
	case "cancelled", "canceled", "failed":
		return EventFailed, nil
	case "pending", "processing":
		return EventProcessing, nil
	default:
		return "", fmt.Errorf("%w: unknown gateway status %q", apperrors.ErrValidation, status)
	}
}

// OrderState is the pair of independent state machines carried by an order.
type OrderState struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
}

// IsTerminal reports whether no further payment event can change the state.
func (s OrderState) IsTerminal() bool {
	return s.Status != OrderPending
}

// NextOrderState is the transition function of the order aggregate.
// Terminal states absorb repeats of the event that finalized them (ErrAlreadyFinalized)
// and reject the opposite outcome (ErrIllegalTransition).
func NextOrderState(current OrderState, event PaymentEvent) (OrderState, error) {
	switch current.Status {
	case OrderConfirmed:
		switch event {
		case EventSucceeded, EventProcessing:
			return current, apperrors.ErrAlreadyFinalized
		case EventFailed:
			return current, fmt.Errorf("%w: cannot fail a confirmed order", apperrors.ErrIllegalTransition)
		}
	case OrderCancelled:
		switch event {
		case EventFailed, EventProcessing:
			return current, apperrors.ErrAlreadyFinalized
		case EventSucceeded:
			return current, fmt.Errorf("%w: payment succeeded for a cancelled order", apperrors.ErrIllegalTransition)
		}
	case OrderPending:
		switch event {
		case EventSucceeded:
			return OrderState{Status: OrderConfirmed, PaymentStatus: PaymentSucceeded}, nil
		case EventFailed:
			return OrderState{Status: OrderCancelled, PaymentStatus: PaymentFailed}, nil
		case EventProcessing:
			return OrderState{Status: OrderPending, PaymentStatus: PaymentProcessing}, nil
		}
	}
	return current, fmt.Errorf("%w: event %q from state %s/%s", apperrors.ErrIllegalTransition, event, current.Status, current.PaymentStatus)
}

// State returns the order's current state pair.
func (o Order) State() OrderState {
	return OrderState{Status: o.Status, PaymentStatus: o.PaymentStatus}
}
