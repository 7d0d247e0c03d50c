package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/formlane/template-billing/internal/adapter"
	"github.com/formlane/template-billing/internal/logger"
	"github.com/formlane/template-billing/internal/messaging"
	"github.com/formlane/template-billing/internal/store"
	"github.com/formlane/template-billing/internal/store/schema"
)

// PriceChangeDispatcherConfig holds configuration for the price change dispatcher
type PriceChangeDispatcherConfig struct {
	BatchSize      int           // History rows to deliver per batch
	WorkerPoolSize int           // Concurrent workers
	PollInterval   time.Duration // Time to sleep between delivery cycles
}

// priceChangeDispatcher implements the Dispatcher interface. It sweeps
// unnotified price history rows and delivers the corresponding events,
// catching up whatever the inline publish path failed to send.
type priceChangeDispatcher struct {
	config    *PriceChangeDispatcherConfig
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	pool      pond.Pool
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewPriceChangeDispatcher creates a new price change dispatcher
func NewPriceChangeDispatcher(
	config *PriceChangeDispatcherConfig,
	st store.Store,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Dispatcher {
	return &priceChangeDispatcher{
		config:    config,
		store:     st,
		publisher: publisher,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the dispatcher's name
func (d *priceChangeDispatcher) Name() string {
	return "price-change-dispatcher"
}

// Start begins the dispatcher's main loop
func (d *priceChangeDispatcher) Start(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already running")
	}
	defer func() {
		d.running.Store(false)
		close(d.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting price change dispatcher",
		zap.Int("batch_size", d.config.BatchSize),
		zap.Int("worker_pool_size", d.config.WorkerPoolSize),
		zap.Duration("poll_interval", d.config.PollInterval),
	)

	// Create worker pool
	d.pool = pond.NewPool(
		d.config.WorkerPoolSize,
		pond.WithQueueSize(d.config.BatchSize),
		pond.WithContext(ctx),
	)

	// Continuous loop - stops when context is canceled or stop is requested
	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Price change dispatcher stopping due to context cancellation", zap.Error(ctx.Err()))
			d.cleanup()
			return nil
		case <-d.stopChan:
			logger.InfoCtx(ctx, "Price change dispatcher stop requested")
			d.cleanup()
			return nil
		default:
			if err := d.runDeliveryCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (d *priceChangeDispatcher) cleanup() {
	if d.pool != nil {
		d.pool.StopAndWait()
	}
}

// Stop gracefully stops the dispatcher with timeout support
func (d *priceChangeDispatcher) Stop(ctx context.Context) error {
	if !d.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping price change dispatcher")

	// Signal stop to the main loop
	close(d.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-d.stoppedCh:
		logger.InfoCtx(ctx, "Price change dispatcher stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Price change dispatcher stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runDeliveryCycle runs a single delivery cycle
func (d *priceChangeDispatcher) runDeliveryCycle(ctx context.Context) error {
	startTime := d.clock.Now()

	// Oldest first, so a backlog larger than one batch drains in arrival
	// order instead of newer rows crowding the oldest out of every cycle
	pending, _, err := d.store.ListPriceChanges(ctx, store.PriceChangeFilter{
		UnnotifiedOnly: true,
		OldestFirst:    true,
		Limit:          d.config.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to list pending price changes: %w", err)
	}

	if len(pending) == 0 {
		// Sleep to avoid a tight loop while the queue is empty
		// Use context-aware sleep so we can be interrupted
		if !d.sleep(ctx, d.config.PollInterval) {
			return ctx.Err() // Context canceled during sleep
		}
		return nil
	}

	logger.InfoCtx(ctx, "Found pending price changes", zap.Int("count", len(pending)))

	var deliveredCount, failedCount atomic.Int32

	// Submit all deliveries to worker pool
	for _, row := range pending {
		d.pool.Submit(func() {
			if err := d.deliverWithRetry(ctx, &row); err != nil {
				failedCount.Add(1)
				logger.ErrorCtx(ctx, err,
					zap.Uint64("history_id", row.ID),
					zap.Uint64("template_id", row.TemplateID),
				)
				return
			}
			deliveredCount.Add(1)
		})
	}

	// Wait for all deliveries to complete
	d.pool.StopAndWait()

	// Recreate pool for next cycle
	d.pool = pond.NewPool(
		d.config.WorkerPoolSize,
		pond.WithQueueSize(d.config.BatchSize),
		pond.WithContext(ctx),
	)

	duration := d.clock.Since(startTime)
	logger.InfoCtx(ctx, "Delivery cycle completed",
		zap.Duration("duration", duration),
		zap.Int("total_pending", len(pending)),
		zap.Int32("delivered", deliveredCount.Load()),
		zap.Int32("failed", failedCount.Load()),
	)

	// Sleep before the next cycle
	if !d.sleep(ctx, d.config.PollInterval) {
		return ctx.Err() // Context canceled during sleep
	}

	return nil
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted by context
func (d *priceChangeDispatcher) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-d.clock.After(duration):
		return true // Sleep completed
	case <-ctx.Done():
		return false // Interrupted by context cancellation
	case <-d.stopChan:
		return false // Interrupted by stop signal
	}
}

// deliverWithRetry publishes one price change event with exponential backoff
// and marks the history row notified on success. Marking is best-effort: a
// failed mark leaves the row pending and a duplicate event may be emitted on
// the next cycle, which consumers dedupe by history ID.
func (d *priceChangeDispatcher) deliverWithRetry(ctx context.Context, row *schema.TemplatePriceHistory) error {
	// Fresh ULID per emission so redeliveries are distinguishable
	eventID := ulid.MustNewDefault(d.clock.Now()).String()
	event := messaging.NewPriceChangeEvent(eventID, row)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 5 * time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // Add jitter to prevent thundering herd

	backoffWithContext := backoff.WithContext(b, ctx)

	operation := func() error {
		return d.publisher.PublishPriceChange(ctx, event)
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Price change publish failed, retrying",
			zap.Error(err),
			zap.Uint64("history_id", row.ID),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	if err := backoff.RetryNotify(operation, backoffWithContext, notifyOnError); err != nil {
		return fmt.Errorf("failed to publish price change after %d attempts: %w", attemptCount, err)
	}

	if _, err := d.store.MarkPriceChangeNotified(ctx, row.ID); err != nil {
		return fmt.Errorf("published but failed to mark price change notified: %w", err)
	}

	logger.InfoCtx(ctx, "Price change delivered",
		zap.Uint64("history_id", row.ID),
		zap.Uint64("template_id", row.TemplateID),
		zap.String("event_id", eventID),
	)

	return nil
}
