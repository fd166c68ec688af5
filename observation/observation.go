package observation

import (
	"fmt"

	"github.com/abh/reconciled/interval"
)

// Order is the result of comparing two observations under the strict
// partial order from spec §3.
type Order int

const (
	// Incomparable means neither observation precedes the other — they
	// belong to the same level.
	Incomparable Order = iota
	Less
	Greater
)

// Observation is a producer's claim that a predicate held over an
// interval: {predicate, interval, source} from spec §3.
type Observation struct {
	Predicate Predicate
	Interval  interval.Interval
	Source    Source
}

// New builds an Observation. It does not validate interval.Lo <= interval.Hi
// itself — interval.New already panics on that — so a well-formed Interval
// argument is sufficient to satisfy the producer contract (spec §6).
func New(pred Predicate, iv interval.Interval, src Source) Observation {
	return Observation{Predicate: pred, Interval: iv, Source: src}
}

// Compare implements the partial order of spec §3:
//
//	lt(a.interval, b.interval)                         -> Less
//	gt(a.interval, b.interval)                         -> Greater
//	same polling source, a.interval.lo != b.interval.lo -> ordered by lo
//	same polling source, a.interval.lo == b.interval.lo -> invariant violation
//	otherwise                                           -> Incomparable
//
// Overlapping same-source polls with distinct lo values are ordered by lo.
// Overlapping same-source polls with equal lo are a producer-contract
// violation (spec §3, §7) and panic rather than silently returning an order.
func Compare(a, b Observation) Order {
	if interval.Lt(a.Interval, b.Interval) {
		return Less
	}
	if interval.Gt(a.Interval, b.Interval) {
		return Greater
	}
	if SamePollingSource(a.Source, b.Source) {
		if a.Interval.Lo == b.Interval.Lo {
			panic(fmt.Sprintf(
				"observation: overlapping same-source poll from %q at lo=%d: %v and %v",
				a.Source.Name, a.Interval.Lo, a, b,
			))
		}
		if a.Interval.Lo < b.Interval.Lo {
			return Less
		}
		return Greater
	}
	return Incomparable
}
