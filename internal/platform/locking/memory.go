package locking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/google/uuid"
)

// MemoryLocker is the single-process fallback used when no Redis is configured.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

type lease struct {
	token     string
	expiresAt time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{leases: make(map[string]lease), now: time.Now}
}

var _ portssvc.Locker = (*MemoryLocker)(nil)

// Obtain grants the key when it is free or its previous lease expired.
func (l *MemoryLocker) Obtain(_ context.Context, key string, ttl time.Duration) (portssvc.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if current, ok := l.leases[key]; ok && now.Before(current.expiresAt) {
		return nil, fmt.Errorf("%s: %w", key, apperrors.ErrLockNotObtained)
	}
	token := uuid.NewString()
	l.leases[key] = lease{token: token, expiresAt: now.Add(ttl)}
	return &memoryLock{locker: l, key: key, token: token}, nil
}

type memoryLock struct {
	locker *MemoryLocker
	key    string
	token  string
}

// Release frees the key unless another holder took it over after expiry.
func (m *memoryLock) Release(_ context.Context) error {
	m.locker.mu.Lock()
	defer m.locker.mu.Unlock()

	current, ok := m.locker.leases[m.key]
	if !ok || current.token != m.token {
		return fmt.Errorf("lock %s not held", m.key)
	}
	delete(m.locker.leases, m.key)
	return nil
}
