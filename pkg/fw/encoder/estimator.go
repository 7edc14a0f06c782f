// Package encoder derives position and velocity from quadrature
// encoder edge events.
package encoder

import (
	"math"
	"sync/atomic"
)

// Estimator accumulates edge events into a position count and an
// instantaneous velocity estimate.
//
// Edge runs in interrupt context: it may be called from any goroutine
// at any point, including mid-read of the estimator state. All shared
// fields are therefore accessed through sync/atomic; Edge is O(1),
// never blocks, and takes no locks.
type Estimator struct {
	position   int64  // degrees, ±1 per edge
	lastEdgeUS int64  // monotonic microsecond timestamp of last edge
	rawVelBits uint64 // float64 bits, degrees/sec, signed by direction
}

// Edge records one edge of the primary encoder channel. chanA and chanB
// are the logic levels of the two channels at the time of the edge:
// equal levels mean forward rotation, differing levels mean reverse.
//
// The instantaneous velocity is 1e6 divided by the microseconds since
// the previous edge. The estimate diverges as the interval approaches
// zero; that is a known artifact of the inverse-interval estimator and
// is intentionally not clamped.
func (e *Estimator) Edge(nowMicros int64, chanA, chanB bool) {
	last := atomic.LoadInt64(&e.lastEdgeUS)
	vel := 1e6 / float64(nowMicros-last)
	atomic.StoreInt64(&e.lastEdgeUS, nowMicros)
	if chanA != chanB {
		atomic.AddInt64(&e.position, -1)
		vel = -vel
	} else {
		atomic.AddInt64(&e.position, 1)
	}
	atomic.StoreUint64(&e.rawVelBits, math.Float64bits(vel))
}

// Position returns the integrated position in degrees.
func (e *Estimator) Position() int64 {
	return atomic.LoadInt64(&e.position)
}

// RawVelocity returns the last instantaneous velocity in degrees/sec.
func (e *Estimator) RawVelocity() float64 {
	return math.Float64frombits(atomic.LoadUint64(&e.rawVelBits))
}

// LastEdgeMicros returns the timestamp of the most recent edge.
func (e *Estimator) LastEdgeMicros() int64 {
	return atomic.LoadInt64(&e.lastEdgeUS)
}

// ResetPosition zeroes the integrated position.
func (e *Estimator) ResetPosition() {
	atomic.StoreInt64(&e.position, 0)
}

// zeroRawVelocity forces the raw velocity to zero. The edge handler
// cannot fire to express "stopped", so the periodic filter calls this
// when no edge has arrived within the staleness window.
func (e *Estimator) zeroRawVelocity() {
	atomic.StoreUint64(&e.rawVelBits, 0)
}
