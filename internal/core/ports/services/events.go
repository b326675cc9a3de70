package services

import (
	"context"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
)

// EventPublisher hands committed domain events to asynchronous consumers.
// Publish never blocks on consumers and never fails the caller.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent)
}

// Lock is a held lease on a named resource.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker obtains exclusive leases shared across service replicas.
// Obtain fails with apperrors.ErrLockNotObtained when another holder owns the key.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}
