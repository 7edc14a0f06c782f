package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"io/ioutil"
	"net"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"github.com/robolink/hwio.go/pkg/framework"
	"github.com/robolink/hwio.go/pkg/fw/device"
	"github.com/robolink/hwio.go/pkg/fw/encoder"
	"github.com/robolink/hwio.go/pkg/fw/hw"
	"github.com/robolink/hwio.go/pkg/fw/hw/sim"
	"github.com/robolink/hwio.go/pkg/mqtt"
	"github.com/robolink/hwio.go/pkg/telemetry"
)

var (
	addr     = ":7150"
	baud     = 115200
	mqttURL  string
	deviceID string
)

func init() {
	if val := os.Getenv("HWIO_LISTEN"); val != "" {
		addr = val
	}
	if val := os.Getenv("HWIO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&addr, "addr", addr,
		"Serve address: serial port path or TCP listen host:port.")
	flag.IntVar(&baud, "baud", baud, "Serial baud rate.")
	flag.StringVar(&mqttURL, "mqtt", mqttURL,
		"MQTT broker URL for telemetry, empty disables.")
	flag.StringVar(&deviceID, "id", deviceID,
		"Device ID for telemetry topics, defaults to a machine-bound ID.")
	device.SetupFlags()
}

// server owns the command session over serial or TCP. TCP serves one
// session at a time; the device state persists across sessions.
type server struct {
	dev   *device.Device
	clock hw.Clock
}

func (s *server) Name() string {
	return "server"
}

func (s *server) Run(ctx context.Context) error {
	if strings.ContainsRune(addr, '/') {
		return s.serveSerial(ctx)
	}
	return s.serveTCP(ctx)
}

func (s *server) serveSerial(ctx context.Context) error {
	port, err := serial.OpenPort(&serial.Config{Name: addr, Baud: baud})
	if err != nil {
		return err
	}
	glog.Infof("serving on serial %s", addr)
	s.dev.SetOutput(port)
	loop := &device.Loop{Device: s.dev, Input: port, Clock: s.clock}
	return framework.RunWithContextCloser(ctx, port, func() error {
		return loop.Run(ctx)
	})
}

func (s *server) serveTCP(ctx context.Context) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	glog.Infof("serving on tcp %s", addr)
	return framework.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			s.session(ctx, conn)
		}
	})
}

func (s *server) session(ctx context.Context, conn net.Conn) {
	glog.Infof("session from %s", conn.RemoteAddr())
	s.dev.SetOutput(conn)
	loop := &device.Loop{Device: s.dev, Input: conn, Clock: s.clock}
	err := framework.RunWithContextCloser(ctx, conn, func() error {
		return loop.Run(ctx)
	})
	s.dev.SetOutput(ioutil.Discard)
	if err != nil && err != context.Canceled {
		glog.Warningf("session from %s: %v", conn.RemoteAddr(), err)
		return
	}
	glog.Infof("session from %s closed", conn.RemoteAddr())
}

func main() {
	flag.Parse()

	profile, err := device.NewConfig().NewProfile()
	if err != nil {
		glog.Exitf("profile: %v", err)
	}

	clock := hw.NewSystemClock()
	board := sim.NewBoard()
	est := &encoder.Estimator{}
	filter := encoder.NewFilter(est, profile.Encoder.CutoffHz)
	dev := device.New(board, board, est, filter, profile, ioutil.Discard)

	runner := framework.NewRunner().HandleSignals()
	runner.Go(
		&server{dev: dev, clock: clock},
		framework.NamedRun("motor-a", &sim.MotorModel{
			Board:  board,
			Clock:  clock,
			PWMPin: profile.Motors.A.PWM,
			DirPin: profile.Motors.A.Dir,
			Edge:   est.Edge,
		}),
		framework.NamedRun("motor-b", &sim.MotorModel{
			Board:  board,
			Clock:  clock,
			PWMPin: profile.Motors.B.PWM,
			DirPin: profile.Motors.B.Dir,
			Edge:   est.Edge,
		}),
	)

	if mqttURL != "" {
		q, err := mqtt.NewQueueFromURL(mqttURL)
		if err != nil {
			glog.Exitf("mqtt: %v", err)
		}
		q.TopicPrefix += telemetry.DeviceID(deviceID) + "/"
		q.Connect()
		defer q.Close()
		runner.Go(&telemetry.Reporter{
			Queue:    q,
			Est:      est,
			Filter:   filter,
			LoadCell: board,
			Clock:    clock,
		})
	}

	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
