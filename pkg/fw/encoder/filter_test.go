package encoder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// spin feeds edges at a constant interval so the raw velocity holds
// steady at 1e6/intervalUS deg/s while the filter runs.
func spin(est *Estimator, fromUS, toUS, intervalUS int64) {
	for now := fromUS; now <= toUS; now += intervalUS {
		est.Edge(now, true, true)
	}
}

func TestFilterConvergence(t *testing.T) {
	var est Estimator
	f := NewFilter(&est, DefaultCutoffHz)

	// Constant 100 deg/s (an edge every 10 ms) for 5 s, filter updated
	// every 10 ms. 5 s is far beyond 1/(2π·5Hz) ≈ 32 ms.
	const interval = 10000
	var now int64
	for now = interval; now <= 5000000; now += interval {
		est.Edge(now, true, true)
		f.Update(now)
	}
	require.InDelta(t, 100.0, f.Velocity(), 1.0)
}

func TestFilterTracksReverse(t *testing.T) {
	var est Estimator
	f := NewFilter(&est, DefaultCutoffHz)

	const interval = 5000 // 200 deg/s
	var now int64
	for now = interval; now <= 3000000; now += interval {
		est.Edge(now, true, false)
		f.Update(now)
	}
	require.InDelta(t, -200.0, f.Velocity(), 2.0)
}

func TestFilterStaleness(t *testing.T) {
	var est Estimator
	f := NewFilter(&est, DefaultCutoffHz)

	spin(&est, 1000, 100000, 1000)
	require.Equal(t, 1000.0, est.RawVelocity())

	// Within the staleness window the raw velocity is left alone.
	f.Update(100000 + StaleEdgeMicros)
	require.Equal(t, 1000.0, est.RawVelocity())

	// One microsecond past the window it is forced to zero, even though
	// the last computed instantaneous value was nonzero.
	f.Update(100000 + StaleEdgeMicros + 1)
	require.Equal(t, 0.0, est.RawVelocity())

	// And the filtered velocity decays toward zero from then on.
	for now := int64(200000); now <= 2000000; now += 10000 {
		f.Update(now)
	}
	require.InDelta(t, 0.0, f.Velocity(), 0.5)
}

func TestFilterRecurrence(t *testing.T) {
	var est Estimator
	f := NewFilter(&est, DefaultCutoffHz)

	est.Edge(0, true, true)
	est.Edge(10000, true, true) // raw = 100 deg/s
	f.lastUS = 10000

	// One step of the exact recurrence:
	// filtered = (1000·prev + 2π·fc·raw·dt) / (2π·fc·dt + 1000)
	f.Update(20000)
	w := 2 * math.Pi * DefaultCutoffHz
	expect := (1000*0.0 + w*100*10) / (w*10 + 1000)
	require.InEpsilon(t, expect, f.Velocity(), 1e-12)
}

func TestFilterReset(t *testing.T) {
	var est Estimator
	f := NewFilter(&est, 0) // zero cutoff selects the default
	require.Equal(t, DefaultCutoffHz, f.cutoffHz)

	spin(&est, 1000, 50000, 1000)
	f.Update(50000)
	require.NotZero(t, f.Velocity())
	f.Reset()
	require.Zero(t, f.Velocity())
}

func TestFilterConcurrentReads(t *testing.T) {
	var est Estimator
	f := NewFilter(&est, DefaultCutoffHz)

	// Velocity is read from other goroutines (telemetry) while the
	// loop goroutine runs Update. Exercised under the race detector.
	done := make(chan float64)
	go func() {
		var last float64
		for i := 0; i < 10000; i++ {
			last = f.Velocity()
		}
		done <- last
	}()

	const interval = 10000
	var now int64
	for now = interval; now <= 2000000; now += interval {
		est.Edge(now, true, true)
		f.Update(now)
	}
	last := <-done
	require.False(t, math.IsNaN(last))
	require.InDelta(t, 100.0, f.Velocity(), 1.0)
}

func TestStalenessMatchesMinVelocity(t *testing.T) {
	// The 33,000 µs window corresponds to the configured minimum
	// detectable velocity of 30 deg/s.
	require.True(t, float64(StaleEdgeMicros) <= 1e6/float64(MinVelocity))
}
