// Package hw declares the hardware collaborator interfaces the device
// core calls into.
package hw

import "time"

// PinMode selects the direction of a digital pin.
type PinMode int

// Pin modes.
const (
	ModeInput PinMode = iota
	ModeOutput
)

// Pin ranges of the command grammar.
const (
	// DigitalPinMin and DigitalPinMax bound the addressable digital pins.
	DigitalPinMin = 2
	DigitalPinMax = 19
	// AnalogChannels is the number of analog input channels.
	AnalogChannels = 6
)

// IO is the set of blocking-free pin primitives. Implementations must
// not block; the device loop calls these synchronously between protocol
// steps. The primitives carry no error returns: on the wire there is no
// channel to report one, and the silent-reject policy applies above
// this layer.
type IO interface {
	// SetMode configures a pin as input or output.
	SetMode(pin int, mode PinMode)
	// ReadDigital reads the logic level of a pin.
	ReadDigital(pin int) bool
	// WriteDigital sets the logic level of an output pin.
	WriteDigital(pin int, level bool)
	// ReadAnalog samples an ADC channel.
	ReadAnalog(ch int) int
	// WritePWM writes an 8-bit PWM duty to a pin.
	WritePWM(pin int, duty byte)
}

// LoadCell is an opaque sensor assumed already tared and scaled at
// initialization.
type LoadCell interface {
	ReadCalibratedUnits() int
}

// Clock provides the monotonic microsecond time base shared by the
// edge handler and the periodic filter.
type Clock interface {
	Micros() int64
}

// SystemClock is a Clock over the runtime monotonic clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a SystemClock starting at zero.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Micros implements Clock.
func (c *SystemClock) Micros() int64 {
	return time.Since(c.start).Nanoseconds() / 1000
}
