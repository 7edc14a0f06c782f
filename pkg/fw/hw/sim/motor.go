package sim

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robolink/hwio.go/pkg/fw/hw"
)

// MotorModel turns PWM duty on a motor channel into synthetic encoder
// edges, closing the loop between motor drive commands and encoder
// queries without hardware.
//
// The edge rate is proportional to the duty cycle; the direction pin
// selects the phase relationship reported to the edge handler (equal
// channel levels for forward, differing for reverse).
type MotorModel struct {
	Board  *Board
	Clock  hw.Clock
	PWMPin int
	DirPin int

	// TopSpeed is the edge rate in edges/sec at full duty.
	TopSpeed float64

	// Edge receives each synthetic edge; wired to the estimator's
	// edge handler.
	Edge func(nowMicros int64, chanA, chanB bool)

	// Tick bounds the idle polling interval. Zero selects a default.
	Tick time.Duration
}

// Run implements framework.Runnable. It polls the drive pins and emits
// edges until the context is canceled.
func (m *MotorModel) Run(ctx context.Context) error {
	tick := m.Tick
	if tick <= 0 {
		tick = time.Millisecond
	}
	top := m.TopSpeed
	if top <= 0 {
		top = 3600 // 10 rev/s at 360 edges per revolution
	}
	glog.V(1).Infof("motor model on pwm=%d dir=%d", m.PWMPin, m.DirPin)

	var nextEdgeUS int64
	timer := time.NewTicker(tick)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		duty := m.Board.PWM(m.PWMPin)
		if duty == 0 {
			nextEdgeUS = 0
			continue
		}
		intervalUS := int64(1e6 / (top * float64(duty) / 255))
		now := m.Clock.Micros()
		if nextEdgeUS == 0 {
			nextEdgeUS = now + intervalUS
			continue
		}
		for nextEdgeUS <= now {
			forward := m.Board.ReadDigital(m.DirPin)
			// chanA == chanB encodes forward rotation.
			m.Edge(nextEdgeUS, true, forward)
			nextEdgeUS += intervalUS
		}
	}
}
