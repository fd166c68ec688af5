package producers

import (
	"context"
	"time"

	"github.com/abh/reconciled/interval"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

// Interpretation selects how a PollingProducer turns a pair of
// consecutive poll readings into a definition predicate, matching
// original_source/src/observations.rs's PollingInterpretation enum
// referenced by observers/mocked/polling.rs's MockPoller.
type Interpretation int

const (
	// InterpretTransition asserts the exact before/after pair.
	InterpretTransition Interpretation = iota
	// InterpretAssignment asserts only the new value.
	InterpretAssignment
	// InterpretMutation asserts the delta between readings.
	InterpretMutation
)

// PollingProducer polls a Platform on a fixed period and emits an
// Observation whenever the read value differs from the previous one,
// grounded on observers/mocked/polling.rs's MockPoller.do_tick: that
// state machine tracks a send/process/reply triple per poll and emits
// an observation covering the interval between two replies once the
// value changes. This producer collapses the simulated RTT into a
// single poll-and-compare step — real network RTT is exactly the
// uncertainty the Observation.Interval already represents, so a second
// layer of simulated latency adds nothing a real poller wouldn't
// already fold into its own interval.
type PollingProducer struct {
	Name           string
	Platform       Platform
	Interpretation Interpretation
	PollEvery      time.Duration
	Clock          Clock

	lastValue  *value.Value
	lastMoment interval.Moment
}

// NewPollingProducer builds a producer that polls platform every
// pollEvery and tags its observations with name.
func NewPollingProducer(name string, platform Platform, interp Interpretation, pollEvery time.Duration, clock Clock) *PollingProducer {
	return &PollingProducer{
		Name:           name,
		Platform:       platform,
		Interpretation: interp,
		PollEvery:      pollEvery,
		Clock:          clock,
	}
}

// Produce implements coordinator.Producer.
func (p *PollingProducer) Produce(ctx context.Context, out chan<- observation.Observation) error {
	ticker := time.NewTicker(p.PollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.poll(ctx, out); err != nil {
				return err
			}
		}
	}
}

func (p *PollingProducer) poll(ctx context.Context, out chan<- observation.Observation) error {
	now := p.Clock.Now()
	v := p.Platform.Value()

	if p.lastValue == nil {
		p.lastValue = &v
		p.lastMoment = now
		return nil
	}

	if p.lastValue.Equal(v) {
		return nil
	}

	prevValue := *p.lastValue
	prevMoment := p.lastMoment
	p.lastValue = &v
	p.lastMoment = now

	pred := p.definition(prevValue, v)
	obs := observation.New(pred, interval.New(prevMoment, now), observation.Polling(p.Name))

	select {
	case out <- obs:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ParseInterpretation converts a config string ("transition",
// "assignment", "mutation") into an Interpretation, defaulting to
// InterpretTransition for an empty or unrecognized value.
func ParseInterpretation(s string) Interpretation {
	switch s {
	case "assignment":
		return InterpretAssignment
	case "mutation":
		return InterpretMutation
	default:
		return InterpretTransition
	}
}

func (p *PollingProducer) definition(prev, next value.Value) observation.Predicate {
	switch p.Interpretation {
	case InterpretAssignment:
		return observation.Assignment(next)
	case InterpretMutation:
		return observation.Mutation(next.Sub(prev))
	default:
		return observation.Transition(prev, next)
	}
}
