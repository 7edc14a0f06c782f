package device

import (
	"bufio"
	"context"
	"io"
	"io/ioutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robolink/hwio.go/pkg/fw/encoder"
	"github.com/robolink/hwio.go/pkg/fw/hw"
	"github.com/robolink/hwio.go/pkg/fw/hw/sim"
)

func TestLoopServesCommands(t *testing.T) {
	board := sim.NewBoard()
	est := &encoder.Estimator{}
	filter := encoder.NewFilter(est, encoder.DefaultCutoffHz)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	dev := New(board, board, est, filter, DefaultProfile(), outW)
	loop := &Loop{
		Device: dev,
		Input:  inR,
		Clock:  hw.NewSystemClock(),
		Tick:   time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	lines := bufio.NewReader(outR)

	board.SetLoad(77)
	_, err := inW.Write([]byte{'7'})
	require.NoError(t, err)
	line, err := lines.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "77\n", line)

	// A motor drive command spread across writes still assembles.
	_, err = inW.Write([]byte{'6'})
	require.NoError(t, err)
	_, err = inW.Write([]byte{'a', 150})
	require.NoError(t, err)
	_, err = inW.Write([]byte{'9', '9'})
	require.NoError(t, err)
	line, err = lines.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "1\n", line)
	require.Equal(t, byte(150), board.PWM(3))
	require.True(t, board.ReadDigital(12))

	// Closing the input ends the session cleanly.
	require.NoError(t, inW.Close())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on EOF")
	}
}

func TestLoopUpdatesFilterWithoutInput(t *testing.T) {
	board := sim.NewBoard()
	est := &encoder.Estimator{}
	filter := encoder.NewFilter(est, encoder.DefaultCutoffHz)

	inR, _ := io.Pipe()
	dev := New(board, board, est, filter, DefaultProfile(), ioutil.Discard)
	loop := &Loop{
		Device: dev,
		Input:  inR,
		Clock:  hw.NewSystemClock(),
		Tick:   time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	// No input bytes at all: the periodic task still runs and forces
	// the stale raw velocity to zero.
	est.Edge(1, true, true)
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 0.0, est.RawVelocity())

	cancel()
	require.Equal(t, context.Canceled, <-done)
}
