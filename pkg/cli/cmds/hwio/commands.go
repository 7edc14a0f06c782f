// Package hwio provides shell commands covering the device command
// set.
package hwio

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robolink/hwio.go/pkg/cli/sh"
	"github.com/robolink/hwio.go/pkg/fw/proto"
)

func pinArg(c *ishell.Context, index int) (int, error) {
	if len(c.Args) <= index {
		return 0, fmt.Errorf("PIN required")
	}
	pin, err := strconv.Atoi(c.Args[index])
	if err != nil {
		return 0, fmt.Errorf("Invalid PIN: %v", err)
	}
	return pin, nil
}

func levelArg(c *ishell.Context, index int) (bool, error) {
	if len(c.Args) <= index {
		return false, fmt.Errorf("VALUE required")
	}
	switch c.Args[index] {
	case "0", "low", "off":
		return false, nil
	case "1", "high", "on":
		return true, nil
	}
	return false, fmt.Errorf("Invalid VALUE: %q", c.Args[index])
}

func printQuery(c *ishell.Context, v int, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(v)
}

var (
	// PinModeCmd sets a pin direction.
	PinModeCmd = ishell.Cmd{
		Name:    "mode",
		Aliases: []string{"pm"},
		Help:    "PIN in|out",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, err := pinArg(c, 0)
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("in|out required"))
				return
			}
			var output bool
			switch c.Args[1] {
			case "in", "input":
			case "out", "output":
				output = true
			default:
				c.Err(fmt.Errorf("Invalid mode: %q", c.Args[1]))
				return
			}
			if err := sh.ClientFrom(c).PinMode(pin, output); err != nil {
				c.Err(err)
			}
		}),
	}

	// DigitalReadCmd reads a pin level.
	DigitalReadCmd = ishell.Cmd{
		Name:    "dread",
		Aliases: []string{"dr"},
		Help:    "PIN",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, err := pinArg(c, 0)
			if err != nil {
				c.Err(err)
				return
			}
			v, err := sh.ClientFrom(c).DigitalRead(pin)
			printQuery(c, v, err)
		}),
	}

	// DigitalWriteCmd sets a pin level.
	DigitalWriteCmd = ishell.Cmd{
		Name:    "dwrite",
		Aliases: []string{"dw"},
		Help:    "PIN 0|1",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, err := pinArg(c, 0)
			if err != nil {
				c.Err(err)
				return
			}
			level, err := levelArg(c, 1)
			if err != nil {
				c.Err(err)
				return
			}
			if err := sh.ClientFrom(c).DigitalWrite(pin, level); err != nil {
				c.Err(err)
			}
		}),
	}

	// AnalogReadCmd samples an ADC channel.
	AnalogReadCmd = ishell.Cmd{
		Name:    "aread",
		Aliases: []string{"ar"},
		Help:    "CHANNEL",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, err := pinArg(c, 0)
			if err != nil {
				c.Err(err)
				return
			}
			v, err := sh.ClientFrom(c).AnalogRead(ch)
			printQuery(c, v, err)
		}),
	}

	// AnalogWriteCmd writes a PWM duty to a pin.
	AnalogWriteCmd = ishell.Cmd{
		Name:    "awrite",
		Aliases: []string{"aw"},
		Help:    "PIN DUTY(0-255)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			pin, err := pinArg(c, 0)
			if err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("DUTY required"))
				return
			}
			duty, err := strconv.Atoi(c.Args[1])
			if err != nil || duty < 0 || duty > 255 {
				c.Err(fmt.Errorf("Invalid DUTY: %q", c.Args[1]))
				return
			}
			if err := sh.ClientFrom(c).AnalogWrite(pin, byte(duty)); err != nil {
				c.Err(err)
			}
		}),
	}

	// EncoderCmd queries the encoder.
	EncoderCmd = ishell.Cmd{
		Name:    "enc",
		Aliases: []string{"e"},
		Help:    "pos|vel|raw|reset",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			client := sh.ClientFrom(c)
			what := "pos"
			if len(c.Args) > 0 {
				what = c.Args[0]
			}
			var v int
			var err error
			switch what {
			case "pos", "p":
				v, err = client.EncoderPosition()
			case "vel", "v":
				v, err = client.EncoderVelocity()
			case "raw", "r":
				v, err = client.EncoderRawVelocity()
			case "reset", "z":
				v, err = client.EncoderReset()
			default:
				c.Err(fmt.Errorf("Invalid query: %q", what))
				return
			}
			printQuery(c, v, err)
		}),
	}

	// MotorCmd drives a motor channel.
	MotorCmd = ishell.Cmd{
		Name:    "motor",
		Aliases: []string{"m"},
		Help:    "a|b DUTY(-255..255)",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("CHANNEL and DUTY required"))
				return
			}
			var ch proto.MotorChannel
			switch c.Args[0] {
			case "a", "A":
				ch = proto.MotorA
			case "b", "B":
				ch = proto.MotorB
			default:
				c.Err(fmt.Errorf("Invalid CHANNEL: %q", c.Args[0]))
				return
			}
			duty, err := strconv.Atoi(c.Args[1])
			if err != nil || duty < -255 || duty > 255 {
				c.Err(fmt.Errorf("Invalid DUTY: %q", c.Args[1]))
				return
			}
			forward := duty >= 0
			if duty < 0 {
				duty = -duty
			}
			if err := sh.ClientFrom(c).MotorDrive(ch, forward, byte(duty)); err != nil {
				c.Err(err)
			}
		}),
	}

	// LoadCellCmd reads the load cell.
	LoadCellCmd = ishell.Cmd{
		Name:    "load",
		Aliases: []string{"lc"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			v, err := sh.ClientFrom(c).LoadCell()
			printQuery(c, v, err)
		}),
	}

	// ScriptTypeCmd queries the device command profile.
	ScriptTypeCmd = ishell.Cmd{
		Name:    "type",
		Aliases: []string{"t"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			v, err := sh.ClientFrom(c).ScriptType()
			printQuery(c, v, err)
		}),
	}
)

func init() {
	sh.AddCmds(
		&PinModeCmd,
		&DigitalReadCmd,
		&DigitalWriteCmd,
		&AnalogReadCmd,
		&AnalogWriteCmd,
		&EncoderCmd,
		&MotorCmd,
		&LoadCellCmd,
		&ScriptTypeCmd,
	)
}
