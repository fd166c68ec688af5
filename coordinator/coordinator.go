// Package coordinator implements the long-lived consumer of spec §4.4: it
// drains batches of observations into an unshared History, recomputes the
// inferred value, and republishes it on a latest-value broadcast.
package coordinator

import (
	"context"
	"log/slog"
	"time"

	"github.com/abh/reconciled/history"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

// DefaultBatchSize is the default maximum number of observations drained
// per iteration (spec §6).
const DefaultBatchSize = 100

// Metrics receives instrumentation callbacks from the Coordinator. All
// methods must be safe to call from the coordinator's single goroutine;
// implementations that export to Prometheus (see the metrics package)
// just update collectors, which are already safe for concurrent use.
type Metrics interface {
	BatchDrained(size int)
	FoldDuration(d time.Duration)
	Conflict()
	Published()
	QueueDepth(n int)
}

// noopMetrics is used when a Coordinator is built without metrics.
type noopMetrics struct{}

func (noopMetrics) BatchDrained(int)           {}
func (noopMetrics) FoldDuration(time.Duration) {}
func (noopMetrics) Conflict()                  {}
func (noopMetrics) Published()                 {}
func (noopMetrics) QueueDepth(int)             {}

// Config holds the coordinator's process configuration (spec §6).
type Config struct {
	// Init is the prior value the fold seeds from, typically established
	// by an out-of-band bootstrap pass that confirmed all platforms
	// agreed. Nil means "unknown" — only an Assignment can produce a
	// first value (spec §9).
	Init *value.Value

	// BatchSize is the maximum number of observations drained per
	// iteration. Zero means DefaultBatchSize.
	BatchSize int
}

// Coordinator is the sole mutator of its History (spec §4.4): it never
// yields ownership, and History is never shared across goroutines.
type Coordinator struct {
	cfg       Config
	history   *history.History
	broadcast *Broadcast
	log       *slog.Logger
	metrics   Metrics
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithLogger attaches a structured logger. Without one, log/slog's
// default logger is used.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) { c.log = log }
}

// WithMetrics attaches a Metrics sink.
func WithMetrics(m Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// New builds a Coordinator with an empty History.
func New(cfg Config, opts ...Option) *Coordinator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	c := &Coordinator{
		cfg:       cfg,
		history:   history.New(),
		broadcast: NewBroadcast(),
		log:       slog.Default(),
		metrics:   noopMetrics{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Broadcast returns the coordinator's latest-value register for consumers
// to subscribe to.
func (c *Coordinator) Broadcast() *Broadcast {
	return c.broadcast
}

// History returns the coordinator's History for read-only inspection
// (e.g. the simulate subcommand's final fsck pass). Callers must not
// mutate it directly.
func (c *Coordinator) History() *history.History {
	return c.history
}

// Run drains in until it is closed or ctx is cancelled. Per iteration it
// blocks for at least one observation, then keeps draining without
// blocking until the batch holds BatchSize observations or the channel is
// empty (spec §4.4 step 2), appends them all to History,
// recomputes the inferred value, and publishes it unless the result is a
// conflict (spec §4.4 steps 3-6). On graceful shutdown (channel closed or
// ctx cancelled) it performs one final Apply before returning — no
// observation already received is dropped (spec §5).
func (c *Coordinator) Run(ctx context.Context, in <-chan observation.Observation) error {
	batch := make([]observation.Observation, 0, c.cfg.BatchSize)

	for {
		batch = batch[:0]

		first, ok, err := c.receiveFirst(ctx, in)
		if err != nil {
			c.fold()
			return err
		}
		if !ok {
			c.fold()
			return nil
		}
		batch = append(batch, first)
		batch = c.drainRest(in, batch)

		c.metrics.BatchDrained(len(batch))
		for _, o := range batch {
			c.history.Add(o)
		}

		c.fold()
	}
}

// fold recomputes the inferred value and publishes it unless the result
// is a conflict.
func (c *Coordinator) fold() {
	start := time.Now()
	result := c.history.Apply(c.cfg.Init)
	c.metrics.FoldDuration(time.Since(start))

	if result == nil {
		c.metrics.Conflict()
		c.log.Warn("reconciliation conflict, not publishing", "history_size", c.history.Len())
		return
	}

	c.broadcast.Publish(result)
	c.metrics.Published()
	c.log.Debug("published inferred value", "value", *result, "history_size", c.history.Len())
}

func (c *Coordinator) receiveFirst(ctx context.Context, in <-chan observation.Observation) (observation.Observation, bool, error) {
	select {
	case <-ctx.Done():
		return observation.Observation{}, false, ctx.Err()
	case o, ok := <-in:
		if !ok {
			return observation.Observation{}, false, nil
		}
		return o, true, nil
	}
}

func (c *Coordinator) drainRest(in <-chan observation.Observation, batch []observation.Observation) []observation.Observation {
	for len(batch) < c.cfg.BatchSize {
		select {
		case o, ok := <-in:
			if !ok {
				return batch
			}
			batch = append(batch, o)
		default:
			return batch
		}
	}
	return batch
}
