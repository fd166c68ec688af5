// Package history holds the append-only observation multiset and derives,
// on demand, the partial-order DAG of levels that the fold walks (spec
// §4.1). Levels are never maintained incrementally — they are recomputed
// from the observation set inside Apply, because a late-arriving
// observation can split what looked like one level, which an
// incrementally-merged interval tree would lose (spec §9).
package history

import (
	"sync"

	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

// History is the append-only collection of observations received since
// startup. It is owned by exactly one goroutine in normal operation (the
// Coordinator); the mutex exists so ad-hoc callers (tests, the fsck
// subcommand) can read it concurrently without racing a live coordinator.
type History struct {
	mu  sync.RWMutex
	obs []observation.Observation
}

// New returns an empty History.
func New() *History {
	return &History{}
}

// Add appends an observation. It is infallible and O(1); the History
// never drops or mutates what it is given (spec §3 History invariants).
func (h *History) Add(o observation.Observation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.obs = append(h.obs, o)
}

// Len reports how many observations have been added.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.obs)
}

// Levels recomputes and returns the current levels in topological order.
// Exposed for the fsck invariant checker (spec §8's testable properties);
// Apply uses it internally.
func (h *History) Levels() []Level {
	h.mu.RLock()
	obs := make([]observation.Observation, len(h.obs))
	copy(obs, h.obs)
	h.mu.RUnlock()

	return topologicalOrder(deriveLevels(obs))
}

// Apply folds all levels, in topological order, into a single inferred
// value starting from init (spec §4.3). A nil/None result denotes
// conflict: the observation set admits no single coherent value at this
// point. Apply is pure over (init, the current observation set) — not the
// order observations were added (spec's commutativity-of-arrival
// property).
func (h *History) Apply(init *value.Value) *value.Value {
	cumulative := init

	for _, level := range h.Levels() {
		def, ok := level.Definition()
		if !ok {
			cumulative = nil
			continue
		}

		switch def.Kind {
		case observation.KindTransition:
			if cumulative != nil && cumulative.Equal(def.V0) {
				v := def.V1
				cumulative = &v
			} else {
				cumulative = nil
			}
		case observation.KindMutation:
			if cumulative != nil {
				v := cumulative.Add(def.Delta)
				cumulative = &v
			}
		case observation.KindAssignment:
			v := def.VNew
			cumulative = &v
		}
	}

	return cumulative
}
