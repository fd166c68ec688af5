package producers

import (
	"sync/atomic"
	"time"

	"github.com/abh/reconciled/interval"
)

// Clock supplies Moments to producers. Production producers use a
// WallClock, reporting real wall-clock Moments. The simulate subcommand
// instead drives every producer off a shared SequentialClock so
// simulated runs are reproducible across repeated invocations, which is
// the role original_source/src/main.rs's discrete tick loop plays for
// the mocked observers.
type Clock interface {
	Now() interval.Moment
}

// WallClock reports the real time as a Moment, in nanoseconds since the
// Unix epoch. It is what production PollingProducers are wired with.
type WallClock struct{}

// Now implements Clock.
func (WallClock) Now() interval.Moment {
	return interval.Moment(time.Now().UnixNano())
}

// SequentialClock hands out successive integers, starting at 1.
type SequentialClock struct {
	n int64
}

// Now implements Clock.
func (c *SequentialClock) Now() interval.Moment {
	return interval.Moment(atomic.AddInt64(&c.n, 1))
}
