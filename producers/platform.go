// Package producers adapts platforms (real or simulated) to the
// coordinator.Producer contract. SquareWavePlatform and the mocked
// pollers/record players are grounded on original_source/src/observers/
// square.rs and original_source/src/observers/mocked/*.rs: the original
// crate calls a live inventory API (squareup's CatalogApi/InventoryApi);
// this package keeps the poll/reply timing model from those files but
// swaps the live HTTP calls for in-process simulators and a file-backed
// platform, since the credentialed sandbox API has no place in this
// exercise.
package producers

import (
	"math/rand"
	"sync"

	"github.com/abh/reconciled/value"
)

// Platform is anything a PollingProducer or RecordProducer can observe.
// It mirrors the teacher's narrow external dependency: platforms are
// read through a single current-value accessor, never pushed.
type Platform interface {
	Value() value.Value
}

// SquareWavePlatform is a scripted true-value timeline that alternates
// between a low and a high value every half period, grounded on
// observers/mocked/platform.rs's MockPlatform.do_tick but replacing the
// exponential sale-arrival process with a deterministic square wave:
// useful for exercising transition/assignment/mutation interpretations
// against a value with predictable, repeatable edges.
type SquareWavePlatform struct {
	mu     sync.Mutex
	low    value.Value
	high   value.Value
	period int64
	tick   int64
	value  value.Value
}

// NewSquareWavePlatform returns a platform starting at low.
func NewSquareWavePlatform(low, high value.Value, period int64) *SquareWavePlatform {
	if period <= 0 {
		period = 2
	}
	return &SquareWavePlatform{low: low, high: high, period: period, value: low}
}

// Advance moves the platform's internal clock forward by one tick and
// returns the resulting value. Call it once per simulated tick; Value
// alone never advances the clock.
func (p *SquareWavePlatform) Advance() value.Value {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tick++
	half := p.period / 2
	if (p.tick/half)%2 == 0 {
		p.value = p.low
	} else {
		p.value = p.high
	}
	return p.value
}

// Value implements Platform.
func (p *SquareWavePlatform) Value() value.Value {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// SaleCounterPlatform is a monotonically-draining stock counter,
// grounded on MockPlatform's make_sale: each Advance has a chance of a
// unit sale (delta -1), mirroring the original's Poisson-ish sale
// arrival process with a fixed per-tick probability instead of an
// exponential clock (no runtime dependency on rand's exp sampling was
// wired elsewhere in the pack, so a Bernoulli trial per tick stands in
// for it).
type SaleCounterPlatform struct {
	mu         sync.Mutex
	value      value.Value
	saleChance float64
	rng        *rand.Rand
}

// NewSaleCounterPlatform starts at initial and loses one unit per
// Advance with probability saleChance (0..1).
func NewSaleCounterPlatform(initial value.Value, saleChance float64, seed int64) *SaleCounterPlatform {
	return &SaleCounterPlatform{
		value:      initial,
		saleChance: saleChance,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Advance runs one simulated tick, applying a sale if the trial hits.
func (p *SaleCounterPlatform) Advance() value.Value {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rng.Float64() < p.saleChance {
		p.value = p.value.Sub(value.Value(1))
	}
	return p.value
}

// Value implements Platform.
func (p *SaleCounterPlatform) Value() value.Value {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}
