package encoder

import (
	"math"
	"sync/atomic"
)

// Filter constants.
const (
	// DefaultCutoffHz is the cutoff frequency of the velocity low-pass
	// filter.
	DefaultCutoffHz = 5.0

	// MinVelocity is the minimum detectable velocity in degrees/sec.
	MinVelocity = 30

	// StaleEdgeMicros is the staleness window: if no edge arrives for
	// this long the raw velocity is forced to zero on the next update.
	// It corresponds to the inter-edge interval at MinVelocity.
	StaleEdgeMicros = 33000
)

// Filter smooths the estimator's raw velocity with a one-pole
// exponential low-pass filter. Update must be called from a single
// goroutine, once per main-loop iteration, whether or not any command
// byte arrived. Velocity may be read from any goroutine; the filtered
// value is stored as atomic float64 bits like the estimator's state.
type Filter struct {
	est      *Estimator
	cutoffHz float64

	filteredBits uint64
	prev         float64
	lastUS       int64
}

// NewFilter creates a Filter over est. A zero or negative cutoff
// selects DefaultCutoffHz.
func NewFilter(est *Estimator, cutoffHz float64) *Filter {
	if cutoffHz <= 0 {
		cutoffHz = DefaultCutoffHz
	}
	return &Filter{est: est, cutoffHz: cutoffHz}
}

// Update advances the filter to nowMicros.
//
// The recurrence is
//
//	filtered = (1000·prev + 2π·fc·raw·dt) / (2π·fc·dt + 1000)
//
// with dt in milliseconds; the 1000 scaling keeps the millisecond dt
// consistent with the filter units. The coefficients are load-bearing
// for behavioral compatibility and must not be rearranged.
func (f *Filter) Update(nowMicros int64) {
	if nowMicros-f.est.LastEdgeMicros() > StaleEdgeMicros {
		f.est.zeroRawVelocity()
	}
	dt := float64(nowMicros-f.lastUS) / 1000
	f.lastUS = nowMicros

	raw := f.est.RawVelocity()
	w := 2 * math.Pi * f.cutoffHz
	f.prev = f.Velocity()
	f.setVelocity((1000*f.prev + w*raw*dt) / (w*dt + 1000))
}

// Velocity returns the filtered velocity in degrees/sec.
func (f *Filter) Velocity() float64 {
	return math.Float64frombits(atomic.LoadUint64(&f.filteredBits))
}

func (f *Filter) setVelocity(v float64) {
	atomic.StoreUint64(&f.filteredBits, math.Float64bits(v))
}

// Reset zeroes the filtered velocity.
func (f *Filter) Reset() {
	f.setVelocity(0)
	f.prev = 0
}
