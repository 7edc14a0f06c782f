package device

import (
	"flag"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/robolink/hwio.go/pkg/fw/encoder"
)

// MotorPins is the drive line assignment for one motor channel.
type MotorPins struct {
	PWM int `yaml:"pwm"`
	Dir int `yaml:"dir"`
}

// Profile selects pin assignments and filter constants for a board.
// It can be loaded from a YAML file; zero fields keep their defaults.
type Profile struct {
	Motors struct {
		A MotorPins `yaml:"a"`
		B MotorPins `yaml:"b"`
	} `yaml:"motors"`
	Encoder struct {
		CutoffHz float64 `yaml:"cutoff_hz"`
	} `yaml:"encoder"`
	// ScriptType is the constant reported by the script-type query,
	// identifying this command profile.
	ScriptType int `yaml:"script_type"`
}

// DefaultProfile is the motor-shield pin map: channel A on PWM 3 with
// direction 12, channel B on PWM 11 with direction 13.
func DefaultProfile() Profile {
	var p Profile
	p.Motors.A = MotorPins{PWM: 3, Dir: 12}
	p.Motors.B = MotorPins{PWM: 11, Dir: 13}
	p.Encoder.CutoffHz = encoder.DefaultCutoffHz
	p.ScriptType = 1
	return p
}

// LoadProfile reads a Profile from a YAML file, filling unset fields
// from DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, err
	}
	if p.Encoder.CutoffHz <= 0 {
		p.Encoder.CutoffHz = encoder.DefaultCutoffHz
	}
	return p, nil
}

// Config provides common options to set up a device.
type Config struct {
	// ProfilePath is an optional YAML profile file.
	ProfilePath string
}

var defaultConfig Config

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ProfilePath, "profile", defaultConfig.ProfilePath, "Device profile YAML file.")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewProfile resolves the profile from config.
func (c *Config) NewProfile() (Profile, error) {
	if c.ProfilePath == "" {
		return DefaultProfile(), nil
	}
	return LoadProfile(c.ProfilePath)
}
