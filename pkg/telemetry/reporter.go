// Package telemetry publishes periodic device state samples over MQTT.
package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/robolink/hwio.go/pkg/fw/encoder"
	"github.com/robolink/hwio.go/pkg/fw/hw"
	"github.com/robolink/hwio.go/pkg/mqtt"
)

// DefaultInterval is the default sampling period.
const DefaultInterval = 100 * time.Millisecond

// Sample is one telemetry observation, published as JSON.
type Sample struct {
	At        int64   `json:"at"`
	Position  int64   `json:"position"`
	Velocity  float64 `json:"velocity"`
	RawVel    float64 `json:"raw_velocity"`
	LoadUnits int     `json:"load_units"`
}

// DeviceID returns the configured ID, falling back to a machine-bound
// identifier.
func DeviceID(configured string) string {
	if configured != "" {
		return configured
	}
	id, err := machineid.ProtectedID("hwio")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "hwio-device"
	}
	return id
}

// Reporter samples encoder and load cell state and publishes it to
// topic "telemetry" under the queue's prefix.
type Reporter struct {
	Queue    *mqtt.Queue
	Est      *encoder.Estimator
	Filter   *encoder.Filter
	LoadCell hw.LoadCell
	Clock    hw.Clock
	Interval time.Duration
}

// Name implements framework.Named.
func (r *Reporter) Name() string {
	return "telemetry"
}

// Run samples and publishes until ctx is canceled. The filter is
// owned by the device loop; Run only reads its output.
func (r *Reporter) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.publish()
		}
	}
}

func (r *Reporter) publish() {
	sample := Sample{
		At:       r.Clock.Micros(),
		Position: r.Est.Position(),
		Velocity: r.Filter.Velocity(),
		RawVel:   r.Est.RawVelocity(),
	}
	if r.LoadCell != nil {
		sample.LoadUnits = r.LoadCell.ReadCalibratedUnits()
	}
	payload, err := json.Marshal(&sample)
	if err != nil {
		glog.Errorf("marshal sample: %v", err)
		return
	}
	r.Queue.Pub("telemetry", payload)
}
