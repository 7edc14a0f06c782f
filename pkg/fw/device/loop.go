package device

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/robolink/hwio.go/pkg/fw/hw"
)

// DefaultTick is the default period of the filter update.
const DefaultTick = 2 * time.Millisecond

// Loop is the device main loop. Each iteration either updates the
// velocity filter (on the periodic tick, whether or not any input
// arrived) or performs one full command-machine step for one received
// byte. The loop itself never blocks on input.
type Loop struct {
	Device *Device
	Input  io.Reader
	Clock  hw.Clock

	// Tick is the filter update period. Zero selects DefaultTick.
	Tick time.Duration
}

// Run processes the loop until the context is canceled or the input
// stream ends. An io.EOF from the input is a normal session end and
// returns nil.
func (l *Loop) Run(ctx context.Context) error {
	tick := l.Tick
	if tick <= 0 {
		tick = DefaultTick
	}

	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, byteCh, errCh)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Device.Filter.Update(l.Clock.Micros())
		case b := <-byteCh:
			if err := l.Device.Step(b); err != nil {
				return err
			}
		case err := <-errCh:
			if err == io.EOF {
				glog.V(1).Info("input stream ended")
				return nil
			}
			return err
		}
	}
}

func (l *Loop) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			n, err := l.Input.Read(buf)
			if n > 0 {
				select {
				case byteCh <- buf[0]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				errCh <- err
				return
			}
		}
	}
}
