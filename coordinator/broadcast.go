package coordinator

import (
	"sync"

	"github.com/abh/reconciled/value"
)

// Broadcast is the single-producer/many-consumer "latest value" register
// from spec §5: the most recent publish is always available, older
// values may be dropped, and subscribers are told only that a change
// occurred — they must re-read Latest themselves.
type Broadcast struct {
	mu      sync.Mutex
	current *value.Value
	set     bool
	subs    []chan struct{}
}

// NewBroadcast returns an empty Broadcast with no published value yet.
func NewBroadcast() *Broadcast {
	return &Broadcast{}
}

// Publish replaces the latest value and wakes every subscriber. A nil v
// means conflict and is a valid value to publish — callers that want to
// skip publication on conflict (spec §4.4 step 6) should not call Publish
// at all rather than call it with nil.
func (b *Broadcast) Publish(v *value.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = v
	b.set = true

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
			// A pending notification already covers this change; the
			// subscriber hasn't drained it yet, and it will see the
			// latest value once it does.
		}
	}
}

// Latest returns the most recently published value and whether anything
// has ever been published.
func (b *Broadcast) Latest() (*value.Value, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, b.set
}

// Subscription lets a consumer wait for change notifications and then
// re-read the latest value (spec §6's consensus consumer contract).
type Subscription struct {
	b      *Broadcast
	notify chan struct{}
}

// Subscribe registers a new subscriber. The returned Subscription must be
// read from (Changed) by a consumer goroutine, or its buffered channel
// simply coalesces successive publishes — it never blocks Publish.
func (b *Broadcast) Subscribe() *Subscription {
	ch := make(chan struct{}, 1)

	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	return &Subscription{b: b, notify: ch}
}

// Changed signals (without payload) that a new value is available.
func (s *Subscription) Changed() <-chan struct{} {
	return s.notify
}

// Latest returns the broadcast's current value.
func (s *Subscription) Latest() (*value.Value, bool) {
	return s.b.Latest()
}
