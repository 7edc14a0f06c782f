// Package sim provides an in-memory board implementing the hardware
// collaborator interfaces, for tests and hardware-free runs.
package sim

import (
	"sync"

	"github.com/robolink/hwio.go/pkg/fw/hw"
)

const numPins = hw.DigitalPinMax + 1

// Board is a simulated board. It implements hw.IO and hw.LoadCell.
// All methods are safe for concurrent use.
type Board struct {
	mu     sync.Mutex
	modes  [numPins]hw.PinMode
	levels [numPins]bool
	pwm    [numPins]byte
	analog [hw.AnalogChannels]int
	load   int
}

// NewBoard creates a Board with all pins low and in input mode.
func NewBoard() *Board {
	return &Board{}
}

// SetMode implements hw.IO.
func (b *Board) SetMode(pin int, mode hw.PinMode) {
	if pin < 0 || pin >= numPins {
		return
	}
	b.mu.Lock()
	b.modes[pin] = mode
	b.mu.Unlock()
}

// Mode reports the configured mode of a pin.
func (b *Board) Mode(pin int) hw.PinMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.modes[pin]
}

// ReadDigital implements hw.IO.
func (b *Board) ReadDigital(pin int) bool {
	if pin < 0 || pin >= numPins {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[pin]
}

// WriteDigital implements hw.IO.
func (b *Board) WriteDigital(pin int, level bool) {
	if pin < 0 || pin >= numPins {
		return
	}
	b.mu.Lock()
	b.levels[pin] = level
	b.mu.Unlock()
}

// ReadAnalog implements hw.IO.
func (b *Board) ReadAnalog(ch int) int {
	if ch < 0 || ch >= hw.AnalogChannels {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.analog[ch]
}

// SetAnalog sets the value sampled by an ADC channel.
func (b *Board) SetAnalog(ch, value int) {
	if ch < 0 || ch >= hw.AnalogChannels {
		return
	}
	b.mu.Lock()
	b.analog[ch] = value
	b.mu.Unlock()
}

// WritePWM implements hw.IO.
func (b *Board) WritePWM(pin int, duty byte) {
	if pin < 0 || pin >= numPins {
		return
	}
	b.mu.Lock()
	b.pwm[pin] = duty
	b.mu.Unlock()
}

// PWM reports the last duty written to a pin.
func (b *Board) PWM(pin int) byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pwm[pin]
}

// ReadCalibratedUnits implements hw.LoadCell.
func (b *Board) ReadCalibratedUnits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load
}

// SetLoad sets the load-cell reading.
func (b *Board) SetLoad(units int) {
	b.mu.Lock()
	b.load = units
	b.mu.Unlock()
}
