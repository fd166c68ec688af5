package coordinator

import (
	"context"

	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

// Producer is the observation-producer contract from spec §6: a platform
// adapter (poller or record reader) that emits well-formed observations
// onto out until ctx is cancelled. Well-formed means: predicate well-
// formed, interval.Lo <= interval.Hi, and same-named polling sources never
// emit two intervals with the same Lo. Violating this contract is a producer bug
// and the core is entitled to panic (spec §7) rather than recover.
type Producer interface {
	Produce(ctx context.Context, out chan<- observation.Observation) error
}

// Consumer is the consensus consumer contract from spec §6: it receives
// the latest inferred value — nil meaning conflict — and must be
// idempotent, since the same value may be delivered repeatedly.
type Consumer interface {
	Consume(v *value.Value) error
}

// ConsumerFunc adapts a plain function to a Consumer.
type ConsumerFunc func(v *value.Value) error

// Consume calls f.
func (f ConsumerFunc) Consume(v *value.Value) error { return f(v) }

// RunConsumer feeds every change published on sub to c until ctx is
// cancelled or c returns an error. It is the
// writer-side loop spec §6 describes: "consumers subscribe to the
// latest-value broadcast."
func RunConsumer(ctx context.Context, sub *Subscription, c Consumer) error {
	// Deliver whatever is already latest before waiting for the first
	// change, so a consumer that subscribes after values have already
	// been published doesn't sit idle until the next one arrives.
	if v, ok := sub.Latest(); ok {
		if err := c.Consume(v); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sub.Changed():
			v, _ := sub.Latest()
			if err := c.Consume(v); err != nil {
				return err
			}
		}
	}
}
