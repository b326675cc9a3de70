package services

import (
	"context"
	"time"
)

// ExpirySvc cancels pending orders whose payment window closed.
type ExpirySvc interface {
	SweepExpiredOrders(ctx context.Context, now time.Time) (int, error)
}
