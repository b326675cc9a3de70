package locking

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_ExclusiveUntilReleased(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryLocker()

	lock, err := locker.Obtain(ctx, "reconciliation:t1", time.Minute)
	require.NoError(t, err)

	_, err = locker.Obtain(ctx, "reconciliation:t1", time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrLockNotObtained)

	other, err := locker.Obtain(ctx, "reconciliation:t2", time.Minute)
	require.NoError(t, err, "different keys do not contend")
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lock.Release(ctx))
	again, err := locker.Obtain(ctx, "reconciliation:t1", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, again.Release(ctx))
}

func TestMemoryLocker_ExpiredLeaseCanBeTaken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	locker := NewMemoryLocker()
	locker.now = func() time.Time { return now }

	stale, err := locker.Obtain(ctx, "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	fresh, err := locker.Obtain(ctx, "k", time.Second)
	require.NoError(t, err)

	assert.Error(t, stale.Release(ctx), "the stale holder must not free the new lease")
	assert.NoError(t, fresh.Release(ctx))
}
