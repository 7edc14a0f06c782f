// Package device executes hardware-IO commands against a board and
// drives the main loop.
package device

import (
	"io"
	"strconv"

	"github.com/golang/glog"

	"github.com/robolink/hwio.go/pkg/fw/encoder"
	"github.com/robolink/hwio.go/pkg/fw/hw"
	"github.com/robolink/hwio.go/pkg/fw/proto"
)

// Device owns the command state machine and applies completed
// operations to the hardware collaborators. It is not safe for
// concurrent use: all methods run on the loop goroutine. The encoder
// estimator is the only state shared with other contexts and carries
// its own atomic read discipline.
type Device struct {
	IO       hw.IO
	LoadCell hw.LoadCell
	Est      *encoder.Estimator
	Filter   *encoder.Filter
	Profile  Profile

	parser proto.Parser
	out    io.Writer
}

// New creates a Device writing replies to out.
func New(board hw.IO, load hw.LoadCell, est *encoder.Estimator, filter *encoder.Filter, profile Profile, out io.Writer) *Device {
	return &Device{
		IO:       board,
		LoadCell: load,
		Est:      est,
		Filter:   filter,
		Profile:  profile,
		out:      out,
	}
}

// SetOutput redirects replies, e.g. when a new session attaches.
func (d *Device) SetOutput(out io.Writer) {
	d.out = out
}

// Step consumes exactly one input byte. It never blocks waiting for
// more: a command either advances, completes with its side effects and
// at most one reply line, or is silently abandoned.
func (d *Device) Step(b byte) error {
	pr := d.parser.Parse(b)
	if pr.Rejected {
		// Silent reject: no reply, no hardware call.
		glog.V(3).Infof("rejected byte %#x", b)
		return nil
	}
	if pr.Op == nil {
		return nil
	}
	return d.exec(pr.Op)
}

func (d *Device) exec(op *proto.Op) error {
	switch op.Kind {
	case proto.OpPinMode:
		mode := hw.ModeInput
		if op.Value != 0 {
			mode = hw.ModeOutput
		}
		d.IO.SetMode(op.Pin, mode)

	case proto.OpDigitalRead:
		level := 0
		if d.IO.ReadDigital(op.Pin) {
			level = 1
		}
		return d.reply(level)

	case proto.OpDigitalWrite:
		d.IO.WriteDigital(op.Pin, op.Value != 0)

	case proto.OpAnalogRead:
		return d.reply(d.IO.ReadAnalog(op.Pin))

	case proto.OpAnalogWrite:
		d.IO.WritePWM(op.Pin, byte(op.Value))

	case proto.OpEncoderPosition:
		return d.reply(int(d.Est.Position()))

	case proto.OpEncoderVelocity:
		return d.reply(int(d.Filter.Velocity()))

	case proto.OpEncoderRawVelocity:
		return d.reply(int(d.Est.RawVelocity()))

	case proto.OpEncoderReset:
		d.Est.ResetPosition()
		d.Filter.Reset()
		return d.reply(int(d.Est.Position()))

	case proto.OpMotorDrive:
		d.driveMotor(op)

	case proto.OpLoadCellRead:
		return d.reply(d.LoadCell.ReadCalibratedUnits())

	case proto.OpScriptType:
		return d.reply(d.Profile.ScriptType)
	}
	return nil
}

func (d *Device) driveMotor(op *proto.Op) {
	pins := d.Profile.Motors.A
	if op.Channel == proto.MotorB {
		pins = d.Profile.Motors.B
	}
	duty := op.Value
	if duty < 0 || duty > 255 {
		// Unreachable from the byte domain, but the clamp-to-zero
		// contract is preserved.
		duty = 0
	}
	d.IO.WriteDigital(pins.Dir, op.Forward)
	d.IO.WritePWM(pins.PWM, byte(duty))
	glog.V(2).Infof("motor %d forward=%v duty=%d", op.Channel, op.Forward, duty)
}

func (d *Device) reply(v int) error {
	_, err := io.WriteString(d.out, strconv.Itoa(v)+"\n")
	return err
}
