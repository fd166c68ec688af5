package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/abh/reconciled/interval"
	"github.com/abh/reconciled/observation"
	"github.com/abh/reconciled/value"
)

func vp(v value.Value) *value.Value { return &v }

func mkObs(lo, hi int64, pred observation.Predicate, src observation.Source) observation.Observation {
	return observation.New(pred, interval.New(interval.Moment(lo), interval.Moment(hi)), src)
}

func TestCoordinatorPublishesOnGracefulShutdown(t *testing.T) {
	in := make(chan observation.Observation, 4)
	c := New(Config{Init: vp(10), BatchSize: 2})

	in <- mkObs(0, 1, observation.Mutation(-1), observation.Polling("A"))
	in <- mkObs(2, 3, observation.Mutation(-1), observation.Polling("A"))
	close(in)

	if err := c.Run(context.Background(), in); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, set := c.Broadcast().Latest()
	if !set || got == nil || *got != 8 {
		t.Fatalf("Latest() = %v, set=%v, want Some(8)", got, set)
	}
}

func TestCoordinatorSkipsPublishOnConflict(t *testing.T) {
	in := make(chan observation.Observation, 4)
	c := New(Config{Init: vp(10), BatchSize: 10})

	in <- mkObs(0, 5, observation.Assignment(5), observation.Polling("A"))
	in <- mkObs(2, 7, observation.Assignment(7), observation.Polling("B"))
	close(in)

	if err := c.Run(context.Background(), in); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	_, set := c.Broadcast().Latest()
	if set {
		t.Fatal("expected no value published on conflict")
	}
}

func TestCoordinatorCancellation(t *testing.T) {
	in := make(chan observation.Observation)
	c := New(Config{Init: vp(1), BatchSize: 10})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, in) }()

	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected context.Canceled error")
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestSubscriptionReceivesChangeNotification(t *testing.T) {
	b := NewBroadcast()
	sub := b.Subscribe()

	b.Publish(vp(5))

	select {
	case <-sub.Changed():
	case <-time.After(time.Second):
		t.Fatal("expected change notification")
	}

	got, set := sub.Latest()
	if !set || got == nil || *got != 5 {
		t.Fatalf("Latest() = %v, set=%v, want Some(5)", got, set)
	}
}

func TestBroadcastCoalescesNotifications(t *testing.T) {
	b := NewBroadcast()
	sub := b.Subscribe()

	b.Publish(vp(1))
	b.Publish(vp(2))
	b.Publish(vp(3))

	select {
	case <-sub.Changed():
	default:
		t.Fatal("expected at least one pending notification")
	}

	got, _ := sub.Latest()
	if got == nil || *got != 3 {
		t.Fatalf("Latest() = %v, want Some(3) even though only one notification was observed", got)
	}
}
