package history

import (
	"github.com/abh/reconciled/interval"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

// Level is an equivalence class of pairwise-incomparable observations —
// a maximal antichain fragment of the partial order (spec §3, §4.1). A
// level is never empty; its interval is the merge of its members'.
type Level struct {
	Observations []observation.Observation
	Interval     interval.Interval

	// tag is the index of the first observation to join this level, in
	// history insertion order. It exists only to break topological-sort
	// ties deterministically (spec §4.1 step 5): "minimum interval.lo,
	// then a stable tag."
	tag int
}

func newLevel(first observation.Observation, tag int) Level {
	return Level{
		Observations: []observation.Observation{first},
		Interval:     first.Interval,
		tag:          tag,
	}
}

func (lv *Level) absorb(other Level) {
	lv.Observations = append(lv.Observations, other.Observations...)
	lv.Interval = interval.Merge(lv.Interval, other.Interval)
	if other.tag < lv.tag {
		lv.tag = other.tag
	}
}

// Definition infers the single predicate a level composes to, following
// spec §4.2's rules in order. It panics on an empty level — that is an
// invariant violation, never a valid input (spec §4.2).
func (lv Level) Definition() (observation.Predicate, bool) {
	if len(lv.Observations) == 0 {
		panic("history: empty level has no definition")
	}

	if len(lv.Observations) == 1 {
		return lv.Observations[0].Predicate, true
	}

	allMutation := true
	allAssignment := true
	var assigned observation.Predicate
	haveAssigned := false
	var cumulativeDelta value.Value

	for _, obs := range lv.Observations {
		switch obs.Predicate.Kind {
		case observation.KindTransition:
			// A transition poisons the level unconditionally.
			return observation.Predicate{}, false
		case observation.KindAssignment:
			allMutation = false
			if haveAssigned {
				if !assigned.VNew.Equal(obs.Predicate.VNew) {
					return observation.Predicate{}, false
				}
			} else {
				assigned = obs.Predicate
				haveAssigned = true
			}
		case observation.KindMutation:
			allAssignment = false
			cumulativeDelta = cumulativeDelta.Add(obs.Predicate.Delta)
		}
	}

	if allMutation {
		return observation.Mutation(cumulativeDelta), true
	}
	if allAssignment {
		return assigned, true
	}
	// Mixed Mutation + Assignment: composition depends on order.
	return observation.Predicate{}, false
}
