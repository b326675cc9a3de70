package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/checkout_settlement/internal/core/ports/services"
	"github.com/SscSPs/checkout_settlement/internal/middleware"
)

// Subscriber consumes committed domain events. A returned error is logged and not retried.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, event domain.DomainEvent) error
}

type envelope struct {
	event  domain.DomainEvent
	logger *slog.Logger
}

// Dispatcher fans events out to subscribers on a fixed pool of workers.
// Publish never blocks: when the queue is full the event is dropped with a warning.
type Dispatcher struct {
	queue       chan envelope
	subscribers []Subscriber
	wg          sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts workers goroutines reading from a queue of queueSize events.
func NewDispatcher(workers, queueSize int, subscribers ...Subscriber) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	d := &Dispatcher{
		queue:       make(chan envelope, queueSize),
		subscribers: subscribers,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

var _ portssvc.EventPublisher = (*Dispatcher)(nil)

// Publish enqueues the event. The request logger travels with it, the request context does not.
func (d *Dispatcher) Publish(ctx context.Context, event domain.DomainEvent) {
	logger := middleware.GetLoggerFromCtx(ctx)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn("Event dispatcher closed, dropping event",
			slog.String("event_type", string(event.Type)),
			slog.String("event_id", event.EventID))
		return
	}

	select {
	case d.queue <- envelope{event: event, logger: logger}:
	default:
		logger.Warn("Event queue full, dropping event",
			slog.String("event_type", string(event.Type)),
			slog.String("event_id", event.EventID),
			slog.String("aggregate_id", event.AggregateID))
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for env := range d.queue {
		d.deliver(env)
	}
}

func (d *Dispatcher) deliver(env envelope) {
	ctx := middleware.WithLogger(context.Background(), env.logger)
	for _, sub := range d.subscribers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					env.logger.Error("Event subscriber panicked",
						slog.String("subscriber", sub.Name()),
						slog.Any("panic", r))
				}
			}()
			if err := sub.Handle(ctx, env.event); err != nil {
				env.logger.Error("Event subscriber failed",
					slog.String("subscriber", sub.Name()),
					slog.String("event_type", string(env.event.Type)),
					slog.String("event_id", env.event.EventID),
					slog.String("error", err.Error()))
			}
		}()
	}
}

// Close stops accepting events and waits until queued events are delivered or ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
