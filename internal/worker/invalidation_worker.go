package worker

import (
	"context"

	"github.com/jonboulle/clockwork"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
)

// Invalidator drops cached analytics for a user.
type Invalidator interface {
	InvalidateUser(ctx context.Context, userID string) int
}

// InvalidationWorker turns records_changed messages into cache invalidations.
type InvalidationWorker struct {
	cache  Invalidator
	clock  clockwork.Clock
	logger *log.Logger
}

func NewInvalidationWorker(cache Invalidator, clock clockwork.Clock, logger *log.Logger) *InvalidationWorker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &InvalidationWorker{
		cache:  cache,
		clock:  clock,
		logger: logger.WithComponent(log.ComponentAMQP),
	}
}

// HandleRecordsChanged invalidates every cached view of the message's user.
// It never fails: a user with nothing cached is not an error.
func (w *InvalidationWorker) HandleRecordsChanged(ctx context.Context, msg *amqp.RecordsChangedMessage) error {
	removed := w.cache.InvalidateUser(ctx, msg.UserID)

	fields := log.NewFields().WithOperation(log.OpConsume)
	fields[log.FieldUserID] = msg.UserID
	fields[log.FieldRemoved] = removed
	if !msg.Timestamp.IsZero() {
		fields["lag_ms"] = w.clock.Since(msg.Timestamp).Milliseconds()
	}
	if msg.Kind != "" {
		fields["kind"] = msg.Kind
	}
	w.logger.InfoContext(ctx, "Processed records changed message", fields.ToSlice()...)
	return nil
}
