package producers

import (
	"context"
	"testing"
	"time"

	"github.com/abh/reconciled/interval"
	"github.com/abh/reconciled/observation"
)

func TestRecordProducerReplaysInOrder(t *testing.T) {
	records := []Record{
		{Interval: interval.New(0, 1), Delta: -1},
		{Interval: interval.New(2, 3), Delta: -1},
		{Interval: interval.New(4, 5), Delta: 2},
	}
	prod := NewRecordProducer("r1", records, 0)

	out := make(chan observation.Observation, len(records))
	if err := prod.Produce(context.Background(), out); err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	close(out)

	var got []observation.Observation
	for obs := range out {
		got = append(got, obs)
	}

	if len(got) != len(records) {
		t.Fatalf("got %d observations, want %d", len(got), len(records))
	}
	for i, obs := range got {
		if obs.Predicate.Kind != observation.KindMutation {
			t.Errorf("observation %d: Kind = %v, want KindMutation", i, obs.Predicate.Kind)
		}
		if obs.Predicate.Delta != records[i].Delta {
			t.Errorf("observation %d: Delta = %v, want %v", i, obs.Predicate.Delta, records[i].Delta)
		}
		if obs.Source.Kind != observation.SourceRecord || obs.Source.Name != "r1" {
			t.Errorf("observation %d: Source = %+v, want record source r1", i, obs.Source)
		}
	}
}

func TestRecordProducerRespectsCancellation(t *testing.T) {
	records := make([]Record, 10)
	for i := range records {
		records[i] = Record{Interval: interval.New(0, 1), Delta: -1}
	}
	prod := NewRecordProducer("r2", records, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan observation.Observation, 1)

	done := make(chan error, 1)
	go func() { done <- prod.Produce(ctx, out) }()

	<-out // first record delivered immediately
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after cancellation, got nil")
		}
	case <-time.After(time.Second):
		t.Fatal("Produce did not return after cancellation")
	}
}
