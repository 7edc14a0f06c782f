package device

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robolink/hwio.go/pkg/fw/encoder"
	"github.com/robolink/hwio.go/pkg/fw/hw"
	"github.com/robolink/hwio.go/pkg/fw/hw/sim"
)

// countingIO counts hardware calls to verify rejected sequences touch
// nothing.
type countingIO struct {
	*sim.Board
	calls int
}

func (c *countingIO) SetMode(pin int, mode hw.PinMode) {
	c.calls++
	c.Board.SetMode(pin, mode)
}

func (c *countingIO) ReadDigital(pin int) bool {
	c.calls++
	return c.Board.ReadDigital(pin)
}

func (c *countingIO) WriteDigital(pin int, level bool) {
	c.calls++
	c.Board.WriteDigital(pin, level)
}

func (c *countingIO) ReadAnalog(ch int) int {
	c.calls++
	return c.Board.ReadAnalog(ch)
}

func (c *countingIO) WritePWM(pin int, duty byte) {
	c.calls++
	c.Board.WritePWM(pin, duty)
}

type testDevice struct {
	*Device
	board *sim.Board
	io    *countingIO
	est   *encoder.Estimator
	out   *bytes.Buffer
}

func newTestDevice() *testDevice {
	board := sim.NewBoard()
	cio := &countingIO{Board: board}
	est := &encoder.Estimator{}
	filter := encoder.NewFilter(est, encoder.DefaultCutoffHz)
	out := &bytes.Buffer{}
	dev := New(cio, board, est, filter, DefaultProfile(), out)
	return &testDevice{Device: dev, board: board, io: cio, est: est, out: out}
}

func (d *testDevice) send(t *testing.T, in ...byte) string {
	d.out.Reset()
	for _, b := range in {
		require.NoError(t, d.Step(b))
	}
	return d.out.String()
}

// spin feeds n forward (or backward, if n < 0) edges 2000 µs apart.
func (d *testDevice) spin(n int) {
	now := d.est.LastEdgeMicros()
	count, chanB := n, true
	if n < 0 {
		count, chanB = -n, false
	}
	for i := 0; i < count; i++ {
		now += 2000
		d.est.Edge(now, true, chanB)
	}
}

func TestDigitalCommands(t *testing.T) {
	d := newTestDevice()

	require.Empty(t, d.send(t, '0', 'e', '1'))
	require.Equal(t, hw.ModeOutput, d.board.Mode(4))

	require.Empty(t, d.send(t, '2', 'e', '1'))
	require.True(t, d.board.ReadDigital(4))

	require.Equal(t, "1\n", d.send(t, '1', 'e'))
	require.Empty(t, d.send(t, '2', 'e', '0'))
	require.Equal(t, "0\n", d.send(t, '1', 'e'))
}

func TestAnalogCommands(t *testing.T) {
	d := newTestDevice()

	d.board.SetAnalog(1, 512)
	require.Equal(t, "512\n", d.send(t, '3', 'b'))

	require.Empty(t, d.send(t, '4', 'c', 128))
	require.Equal(t, byte(128), d.board.PWM(2))
}

func TestEncoderCommands(t *testing.T) {
	d := newTestDevice()

	d.spin(17)
	require.Equal(t, "17\n", d.send(t, '5', 'a'))

	// Raw velocity: one edge every 2000 µs is 500 deg/s, truncated.
	require.Equal(t, "500\n", d.send(t, '5', 'c'))

	// Filtered velocity is reported truncated to integer.
	for i := 0; i < 500; i++ {
		d.spin(1)
		d.Filter.Update(d.est.LastEdgeMicros())
	}
	want := int(d.Filter.Velocity())
	require.True(t, want > 0)
	require.Equal(t, strconv.Itoa(want)+"\n", d.send(t, '5', 'b'))
}

func TestEncoderRoundTrip(t *testing.T) {
	d := newTestDevice()
	d.spin(25)
	d.spin(-13)
	require.Equal(t, "12\n", d.send(t, '5', 'a'))
}

func TestEncoderResetIdempotent(t *testing.T) {
	d := newTestDevice()
	d.spin(40)
	for i := 0; i < 200; i++ {
		d.Filter.Update(d.est.LastEdgeMicros() + int64(i)*1000)
	}

	require.Equal(t, "0\n", d.send(t, '5', 'd'))
	require.Equal(t, "0\n", d.send(t, '5', 'd'))
	require.Equal(t, "0\n", d.send(t, '5', 'a'))
	require.Equal(t, "0\n", d.send(t, '5', 'b'))
}

func TestMotorDrive(t *testing.T) {
	d := newTestDevice()

	require.Empty(t, d.send(t, '6', 'a', 200))
	require.True(t, d.board.ReadDigital(12))
	require.Equal(t, byte(200), d.board.PWM(3))

	require.Empty(t, d.send(t, '6', 'd', 90))
	require.False(t, d.board.ReadDigital(13))
	require.Equal(t, byte(90), d.board.PWM(11))
}

func TestLoadCellQuery(t *testing.T) {
	d := newTestDevice()
	d.board.SetLoad(1234)
	require.Equal(t, "1234\n", d.send(t, '7'))
}

func TestScriptTypeQuery(t *testing.T) {
	d := newTestDevice()
	require.Equal(t, "1\n", d.send(t, '9', '9'))
	require.Empty(t, d.send(t, '9', 'x'))
}

func TestRejectsAreSilent(t *testing.T) {
	d := newTestDevice()

	testCases := []struct {
		name string
		in   []byte
	}{
		{"invalid pin letter", []byte{'2', 'z'}},
		{"unknown family", []byte{'8'}},
		{"non-digit selector", []byte{'x'}},
		{"motor bad discriminator", []byte{'6', 'q'}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := d.io.calls
			require.Empty(t, d.send(t, tc.in...))
			require.Equal(t, calls, d.io.calls, "rejected sequence must not touch hardware")
		})
	}

	// The machine recovers: a well-formed command still works.
	require.Equal(t, "1\n", d.send(t, '9', '9'))
}
