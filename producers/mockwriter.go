package producers

import (
	"sync"

	"github.com/abh/reconciled/value"
)

// MockWriter is a coordinator.Consumer that records every value
// delivered to it, grounded on observers/mocked/mock_writer.rs's
// InstantWriter/LossyWriter: where those types schedule a write back
// into the simulated platform at some future tick, MockWriter instead
// plays the role of the downstream system of record in the simulate
// subcommand and test suites — it just remembers what it was told, so
// a test can assert on the sequence of published values.
type MockWriter struct {
	mu            sync.Mutex
	ignoreRepeats bool
	last          *value.Value
	delivered     []*value.Value
}

// NewMockWriter returns a writer. When ignoreRepeats is true, Consume is
// a no-op for a value equal to the immediately preceding delivery —
// exercising the idempotency contract consumers are required to honor
// (the same published value may be delivered more than once).
func NewMockWriter(ignoreRepeats bool) *MockWriter {
	return &MockWriter{ignoreRepeats: ignoreRepeats}
}

// Consume implements coordinator.Consumer.
func (w *MockWriter) Consume(v *value.Value) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ignoreRepeats && sameValue(w.last, v) {
		return nil
	}

	w.delivered = append(w.delivered, v)
	w.last = v
	return nil
}

// Delivered returns a copy of every value Consume has accepted, in
// delivery order. A nil entry marks a conflict.
func (w *MockWriter) Delivered() []*value.Value {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*value.Value, len(w.delivered))
	copy(out, w.delivered)
	return out
}

// Last returns the most recently accepted value, or nil if Consume has
// never been called (distinct from a delivered conflict, also nil —
// callers that need to tell the two apart should use Delivered).
func (w *MockWriter) Last() *value.Value {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

func sameValue(a, b *value.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
