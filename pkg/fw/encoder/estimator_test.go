package encoder

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimatorPositionRoundTrip(t *testing.T) {
	testCases := []struct {
		name     string
		forward  int
		backward int
	}{
		{"forward only", 10, 0},
		{"backward only", 0, 7},
		{"mixed", 25, 13},
		{"net zero", 40, 40},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var est Estimator
			now := int64(0)
			for i := 0; i < tc.forward; i++ {
				now += 1000
				est.Edge(now, true, true)
			}
			for i := 0; i < tc.backward; i++ {
				now += 1000
				est.Edge(now, true, false)
			}
			require.Equal(t, int64(tc.forward-tc.backward), est.Position())
		})
	}
}

func TestEstimatorVelocity(t *testing.T) {
	var est Estimator
	est.Edge(1000000, true, true)

	// 2000 µs between edges: 1e6/2000 = 500 deg/s forward.
	est.Edge(1002000, true, true)
	require.Equal(t, 500.0, est.RawVelocity())
	require.Equal(t, int64(1002000), est.LastEdgeMicros())

	// Reverse phase negates the estimate.
	est.Edge(1004000, false, true)
	require.Equal(t, -500.0, est.RawVelocity())
}

func TestEstimatorVelocityUnclamped(t *testing.T) {
	var est Estimator
	est.Edge(1000000, true, true)

	// A 1 µs interval yields 1e6 deg/s; the estimator does not saturate.
	est.Edge(1000001, true, true)
	require.Equal(t, 1e6, est.RawVelocity())

	// A zero interval diverges to +Inf rather than faulting.
	est.Edge(1000001, true, true)
	require.True(t, math.IsInf(est.RawVelocity(), 1))
}

func TestEstimatorReset(t *testing.T) {
	var est Estimator
	est.Edge(1000, true, true)
	est.Edge(2000, true, true)
	require.Equal(t, int64(2), est.Position())
	est.ResetPosition()
	require.Equal(t, int64(0), est.Position())
	// Velocity state is untouched by a position reset.
	require.Equal(t, 1000.0, est.RawVelocity())
}

func TestEstimatorConcurrentReads(t *testing.T) {
	var est Estimator
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
				est.Edge(int64(i+1)*100, true, true)
			}
		}
	}()
	for i := 0; i < 10000; i++ {
		pos := est.Position()
		require.True(t, pos >= 0)
		require.False(t, math.IsNaN(est.RawVelocity()))
	}
	close(done)
	wg.Wait()
}
