package producers

import (
	"context"
	"time"

	"github.com/abh/reconciled/interval"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

// Record is one pre-time-stamped change entry, grounded on
// observers/mocked/record.rs's MockRecordPoller: that poller reads a
// platform's accumulated event log and widens each event's point
// timestamp into an uncertainty interval bounded by the clock deviation
// observed between producer and platform. This type keeps that shape —
// an interval plus a delta — without reproducing the deviation-tracking
// state machine, since a record source that already hands back
// intervals has no further uncertainty left to estimate.
type Record struct {
	Interval interval.Interval
	Delta    value.Value
}

// RecordProducer replays a fixed, already-time-stamped sequence of
// mutation records as Observations, one per entry, pacing them by Pace
// (or as fast as the channel accepts them if Pace is zero).
type RecordProducer struct {
	Name    string
	Records []Record
	Pace    time.Duration
}

// NewRecordProducer builds a producer replaying records under name.
func NewRecordProducer(name string, records []Record, pace time.Duration) *RecordProducer {
	return &RecordProducer{Name: name, Records: records, Pace: pace}
}

// Produce implements coordinator.Producer.
func (p *RecordProducer) Produce(ctx context.Context, out chan<- observation.Observation) error {
	for _, r := range p.Records {
		obs := observation.New(observation.Mutation(r.Delta), r.Interval, observation.Record(p.Name))

		select {
		case out <- obs:
		case <-ctx.Done():
			return ctx.Err()
		}

		if p.Pace <= 0 {
			continue
		}

		select {
		case <-time.After(p.Pace):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
