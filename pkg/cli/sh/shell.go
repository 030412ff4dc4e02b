// Package sh provides the interactive frame shell.
package sh

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
	"github.com/robotalks/uartmsg/pkg/serial"
	"github.com/robotalks/uartmsg/pkg/telemetry"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *telemetry.Config
	Link   *l0.Link

	sink io.Closer
}

const (
	shellKey       = "$shell"
	closedPrompt   = "[closed] > "
	maxPayloadSize = 255
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell.
func New(conf *telemetry.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open sink.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Link == nil {
			c.Err(fmt.Errorf("sink not open"))
			return
		}
		fn(c)
	}
}

// ParseHex parses bytes given as hex words, e.g. "aa55", "0x01", "ff".
func ParseHex(args []string) ([]byte, error) {
	var b []byte
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.ToLower(arg), "0x")
		if len(arg)%2 == 1 {
			arg = "0" + arg
		}
		decoded, err := hex.DecodeString(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid hex %q", arg)
		}
		b = append(b, decoded...)
	}
	if len(b) > maxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes", len(b))
	}
	return b, nil
}

// FormatHex prints bytes as space separated hex.
func FormatHex(b []byte) string {
	return fmt.Sprintf("% x", b)
}

// BuildFrame builds a Message from the shell settings.
func (s *Shell) BuildFrame(payload []byte) (*l0.Message, error) {
	header, err := s.Config.SyncHeader()
	if err != nil {
		return nil, err
	}
	policy, err := s.Config.Policy()
	if err != nil {
		return nil, err
	}
	return l0.Build(payload, header, policy)
}

// Open opens the sink named by link.
func (s *Shell) Open(link string) error {
	conf := serial.DefaultConfig(link)
	conf.Baud = s.Config.Baud
	sink, err := conf.Open()
	if err != nil {
		return err
	}
	s.Close()
	s.sink = sink
	s.Link = l0.NewLink(sink)
	s.Link.ChunkSize = s.Config.ChunkSize
	s.Config.Sink = link
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", link))
	return nil
}

// Close closes the current sink.
func (s *Shell) Close() {
	if s.sink != nil {
		s.sink.Close()
		s.sink, s.Link = nil, nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

func (s *Shell) print(c *ishell.Context, v interface{}, text string) {
	if s.OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(text)
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Config.Sink != "" && s.Config.Sink != "-" {
		if err := s.Open(s.Config.Sink); err != nil {
			log.Fatalf("open %q failed: %v", s.Config.Sink, err)
		}
	}
	defer s.Close()

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

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf, err := telemetry.NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	New(conf).Run(flag.Args()...)
}
