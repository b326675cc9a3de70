package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lock:"

// RedisLocker hands out leases shared by every replica connected to the same Redis.
type RedisLocker struct {
	client *redislock.Client
}

// NewRedisLocker wraps a connected Redis client.
func NewRedisLocker(rdb *redis.Client) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb)}
}

var _ portssvc.Locker = (*RedisLocker)(nil)

// Obtain tries once. A key held elsewhere yields apperrors.ErrLockNotObtained.
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (portssvc.Lock, error) {
	lock, err := l.client.Obtain(ctx, keyPrefix+key, ttl, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, fmt.Errorf("%s: %w", key, apperrors.ErrLockNotObtained)
		}
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return lock, nil
}
