// Package metrics wires the coordinator's instrumentation hooks to
// Prometheus collectors, the same collector set and naming style
// cmd/rrr-server/main.go uses for the RECENT-protocol daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds every Prometheus collector the reconciliation daemon
// exports. It implements coordinator.Metrics.
type Collectors struct {
	batchesDrained   prometheus.Counter
	observationsSeen prometheus.Counter
	foldDuration     prometheus.Histogram
	conflictsTotal   prometheus.Counter
	publishedTotal   prometheus.Counter
	queueDepth       prometheus.Gauge
}

// New creates and registers the collector set on reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		batchesDrained: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconciled_batches_drained_total",
			Help: "Total number of observation batches drained by the coordinator.",
		}),
		observationsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconciled_observations_total",
			Help: "Total number of observations added to the history.",
		}),
		foldDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconciled_fold_duration_seconds",
			Help:    "Time taken to fold the current observation set into a value.",
			Buckets: prometheus.DefBuckets,
		}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconciled_conflicts_total",
			Help: "Total number of folds that resolved to conflict (None).",
		}),
		publishedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reconciled_published_total",
			Help: "Total number of values published to the latest-value broadcast.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reconciled_queue_depth",
			Help: "Number of observations queued for the coordinator in the most recent batch.",
		}),
	}

	reg.MustRegister(
		c.batchesDrained,
		c.observationsSeen,
		c.foldDuration,
		c.conflictsTotal,
		c.publishedTotal,
		c.queueDepth,
	)

	return c
}

// BatchDrained implements coordinator.Metrics.
func (c *Collectors) BatchDrained(size int) {
	c.batchesDrained.Inc()
	c.observationsSeen.Add(float64(size))
	c.queueDepth.Set(float64(size))
}

// FoldDuration implements coordinator.Metrics.
func (c *Collectors) FoldDuration(d time.Duration) {
	c.foldDuration.Observe(d.Seconds())
}

// Conflict implements coordinator.Metrics.
func (c *Collectors) Conflict() {
	c.conflictsTotal.Inc()
}

// Published implements coordinator.Metrics.
func (c *Collectors) Published() {
	c.publishedTotal.Inc()
}

// QueueDepth implements coordinator.Metrics.
func (c *Collectors) QueueDepth(n int) {
	c.queueDepth.Set(float64(n))
}
