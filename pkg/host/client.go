// Package host provides the host-side client of the hardware-IO
// command grammar, the role originally played by a MATLAB hardware-IO
// client.
package host

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/robolink/hwio.go/pkg/fw/proto"
)

// Errors reported by the client.
var (
	// ErrPinRange indicates a pin or channel outside the grammar.
	ErrPinRange = errors.New("pin out of range")
	// ErrBadReply indicates a reply line that is not a decimal integer.
	ErrBadReply = errors.New("malformed reply")
)

// Client speaks the command grammar over any byte stream (serial port,
// TCP connection, pipe). The device never replies to malformed
// commands, so the client validates arguments before sending: a
// silently rejected query would block forever waiting for its reply.
//
// Commands do not pipeline; Client is not safe for concurrent use.
type Client struct {
	rw io.ReadWriter
	r  *bufio.Reader
}

// NewClient creates a Client over rw.
func NewClient(rw io.ReadWriter) *Client {
	return &Client{rw: rw, r: bufio.NewReader(rw)}
}

func (c *Client) send(cmd ...byte) error {
	_, err := c.rw.Write(cmd)
	return err
}

func (c *Client) query(cmd ...byte) (int, error) {
	if err := c.send(cmd...); err != nil {
		return 0, err
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, ErrBadReply
	}
	return v, nil
}

// PinMode sets a digital pin to input or output.
func (c *Client) PinMode(pin int, output bool) error {
	letter := proto.DigitalPinLetter(pin)
	if letter == 0 {
		return ErrPinRange
	}
	val := byte('0')
	if output {
		val = '1'
	}
	return c.send(proto.SelPinMode, letter, val)
}

// DigitalRead reads the logic level of a pin.
func (c *Client) DigitalRead(pin int) (int, error) {
	letter := proto.DigitalPinLetter(pin)
	if letter == 0 {
		return 0, ErrPinRange
	}
	return c.query(proto.SelDigitalRead, letter)
}

// DigitalWrite sets the logic level of a pin.
func (c *Client) DigitalWrite(pin int, level bool) error {
	letter := proto.DigitalPinLetter(pin)
	if letter == 0 {
		return ErrPinRange
	}
	val := byte('0')
	if level {
		val = '1'
	}
	return c.send(proto.SelDigitalWrite, letter, val)
}

// AnalogRead samples an ADC channel.
func (c *Client) AnalogRead(ch int) (int, error) {
	letter := proto.AnalogPinLetter(ch)
	if letter == 0 {
		return 0, ErrPinRange
	}
	return c.query(proto.SelAnalogRead, letter)
}

// AnalogWrite writes an 8-bit PWM level to a pin.
func (c *Client) AnalogWrite(pin int, duty byte) error {
	letter := proto.DigitalPinLetter(pin)
	if letter == 0 {
		return ErrPinRange
	}
	return c.send(proto.SelAnalogWrite, letter, duty)
}

// EncoderPosition reads the integrated encoder position in degrees.
func (c *Client) EncoderPosition() (int, error) {
	return c.query(proto.SelEncoder, proto.EncoderSelPosition)
}

// EncoderVelocity reads the filtered velocity in degrees/sec.
func (c *Client) EncoderVelocity() (int, error) {
	return c.query(proto.SelEncoder, proto.EncoderSelVelocity)
}

// EncoderRawVelocity reads the raw instantaneous velocity.
func (c *Client) EncoderRawVelocity() (int, error) {
	return c.query(proto.SelEncoder, proto.EncoderSelRawVelocity)
}

// EncoderReset zeroes the position and the filtered velocity, and
// returns the reset position.
func (c *Client) EncoderReset() (int, error) {
	return c.query(proto.SelEncoder, proto.EncoderSelReset)
}

// MotorDrive drives a motor channel with the given direction and duty.
func (c *Client) MotorDrive(ch proto.MotorChannel, forward bool, duty byte) error {
	var sel byte
	switch {
	case ch == proto.MotorA && forward:
		sel = proto.MotorSelAForward
	case ch == proto.MotorB && forward:
		sel = proto.MotorSelBForward
	case ch == proto.MotorA:
		sel = proto.MotorSelABackward
	case ch == proto.MotorB:
		sel = proto.MotorSelBBackward
	}
	return c.send(proto.SelMotor, sel, duty)
}

// LoadCell reads the load cell in calibrated units.
func (c *Client) LoadCell() (int, error) {
	return c.query(proto.SelLoadCell)
}

// ScriptType queries the constant identifying the device's command
// profile.
func (c *Client) ScriptType() (int, error) {
	return c.query(proto.SelScriptType, proto.ScriptTypeSel)
}
