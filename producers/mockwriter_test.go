package producers

import (
	"testing"

	"github.com/abh/reconciled/value"
)

func vp(n value.Value) *value.Value { return &n }

func TestMockWriterRecordsDeliveries(t *testing.T) {
	w := NewMockWriter(false)

	if err := w.Consume(vp(1)); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if err := w.Consume(nil); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if err := w.Consume(vp(2)); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	got := w.Delivered()
	if len(got) != 3 {
		t.Fatalf("len(Delivered()) = %d, want 3", len(got))
	}
	if *got[0] != 1 || got[1] != nil || *got[2] != 2 {
		t.Errorf("Delivered() = %v, want [1, nil, 2]", got)
	}
}

func TestMockWriterIgnoresRepeats(t *testing.T) {
	w := NewMockWriter(true)

	w.Consume(vp(5))
	w.Consume(vp(5))
	w.Consume(vp(5))
	w.Consume(vp(6))

	got := w.Delivered()
	if len(got) != 2 {
		t.Fatalf("len(Delivered()) = %d, want 2", len(got))
	}
	if *got[0] != 5 || *got[1] != 6 {
		t.Errorf("Delivered() = %v, want [5, 6]", got)
	}
}

func TestMockWriterLast(t *testing.T) {
	w := NewMockWriter(false)
	if got := w.Last(); got != nil {
		t.Fatalf("Last() before any Consume = %v, want nil", got)
	}
	w.Consume(vp(9))
	if got := w.Last(); got == nil || *got != 9 {
		t.Errorf("Last() = %v, want 9", got)
	}
}
