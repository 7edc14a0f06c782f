// Package sh provides the ishell backed interactive shell for talking
// to a device over serial or TCP.
package sh

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/tarm/serial"

	"github.com/robolink/hwio.go/pkg/host"
)

// Config provides the connection settings of the shell.
type Config struct {
	Addr string
	Baud int
}

var defaultConfig = Config{Baud: 115200}

// SetupFlags registers command line flags. Call from an init func,
// before flag.Parse.
func SetupFlags() {
	if defaultConfig.Addr == "" {
		defaultConfig.Addr = os.Getenv("HWIO_ADDR")
	}
	flag.StringVar(&defaultConfig.Addr, "addr", defaultConfig.Addr,
		"Device address: serial port path or TCP host:port.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Dial opens the device connection. A path-like address opens a
// serial port, anything else dials TCP.
func (c *Config) Dial() (io.ReadWriteCloser, error) {
	if c.Addr == "" {
		return nil, fmt.Errorf("no device address")
	}
	if strings.ContainsRune(c.Addr, '/') {
		return serial.OpenPort(&serial.Config{Name: c.Addr, Baud: c.Baud})
	}
	return net.Dial("tcp", c.Addr)
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell  *ishell.Shell
	Config *Config

	conn   io.Closer
	client *host.Client
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly bool

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// ClientFrom gets the connected device client from ishell context,
// or nil when not connected.
func ClientFrom(c *ishell.Context) *host.Client {
	return ShellFrom(c).client
}

// MustBeConnected wraps a command func that requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).client == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Connect opens the device at addr, replacing any current connection.
func (s *Shell) Connect(addr string) error {
	if addr != "" {
		s.Config.Addr = addr
	}
	conn, err := s.Config.Dial()
	if err != nil {
		return err
	}
	s.Disconnect()
	s.conn = conn
	s.client = host.NewClient(conn)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", s.Config.Addr))
	return nil
}

// Disconnect closes the current connection.
func (s *Shell) Disconnect() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.client = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Config.Addr != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Addr)
		}
		if err := s.Connect(""); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Addr, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects a device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "ADDR",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var addr string
			if len(c.Args) > 0 {
				addr = c.Args[0]
			}
			if err := s.Connect(addr); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).Run(flag.Args()...)
}
