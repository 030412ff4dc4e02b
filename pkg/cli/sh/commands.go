package sh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
)

var commands = []*ishell.Cmd{
	&ChecksumCmd,
	&CRC8Cmd,
	&FrameCmd,
	&SetCmd,
	&OpenCmd,
	&CloseCmd,
	&SendCmd,
	&StatsCmd,
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// SetOption changes one frame setting by name.
func (s *Shell) SetOption(name, val string) error {
	conf := *s.Config
	switch name {
	case "header":
		conf.Header = val
	case "sync":
		conf.SyncPattern = val
	case "checksum":
		conf.Checksum = val
	case "poly":
		poly, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 8)
		if err != nil {
			return fmt.Errorf("invalid poly %q", val)
		}
		conf.Poly = uint(poly)
	case "chunk":
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid chunk %q", val)
		}
		conf.ChunkSize = n
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	if _, err := conf.SyncHeader(); err != nil {
		return err
	}
	if _, err := conf.Policy(); err != nil {
		return err
	}
	*s.Config = conf
	if s.Link != nil {
		s.Link.ChunkSize = conf.ChunkSize
	}
	return nil
}

var (
	// ChecksumCmd folds bytes.
	ChecksumCmd = ishell.Cmd{
		Name:    "checksum",
		Aliases: []string{"cs"},
		Help:    "[xor|sum] HEX...",
		Func: func(c *ishell.Context) {
			fold, args := l0.FoldFunc(l0.XOR), c.Args
			if len(args) > 0 {
				switch args[0] {
				case "xor":
					args = args[1:]
				case "sum":
					fold, args = l0.FoldFunc(l0.Add), args[1:]
				}
			}
			payload, err := ParseHex(args)
			if err != nil {
				c.Err(err)
				return
			}
			if len(payload) == 0 {
				c.Err(l0.ErrNoData)
				return
			}
			sum := fold.Sum(payload)
			ShellFrom(c).print(c, map[string]byte{"checksum": sum}, fmt.Sprintf("%02x", sum))
		},
	}

	// CRC8Cmd runs the single byte CRC-8 division.
	CRC8Cmd = ishell.Cmd{
		Name: "crc8",
		Help: "POLY BYTE [and]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("POLY and BYTE required"))
				return
			}
			b, err := ParseHex(c.Args[:2])
			if err != nil || len(b) != 2 {
				c.Err(fmt.Errorf("POLY and BYTE must be single bytes"))
				return
			}
			extract := l0.ExtractOr
			if len(c.Args) > 2 && c.Args[2] == "and" {
				extract = l0.ExtractAnd
			}
			crc := l0.DivideCRC8(b[1], b[0], extract)
			ShellFrom(c).print(c, map[string]byte{"crc": crc}, fmt.Sprintf("%02x", crc))
		},
	}

	// FrameCmd shows the wire bytes of a frame.
	FrameCmd = ishell.Cmd{
		Name:    "frame",
		Aliases: []string{"f"},
		Help:    "HEX...",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			payload, err := ParseHex(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			msg, err := s.BuildFrame(payload)
			if err != nil {
				c.Err(err)
				return
			}
			s.print(c, map[string]interface{}{
				"frame":    FormatHex(msg.Bytes()),
				"checksum": msg.Checksum(),
			}, FormatHex(msg.Bytes()))
		},
	}

	// SetCmd changes frame settings.
	SetCmd = ishell.Cmd{
		Name: "set",
		Help: "header|sync|checksum|poly|chunk VALUE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				conf := ShellFrom(c).Config
				c.Printf("header=%s sync=%s checksum=%s poly=%02x chunk=%d\n",
					conf.Header, conf.SyncPattern, conf.Checksum, conf.Poly, conf.ChunkSize)
				return
			}
			if err := ShellFrom(c).SetOption(c.Args[0], c.Args[1]); err != nil {
				c.Err(err)
			}
		},
	}

	// OpenCmd opens a sink.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "LINK",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("LINK required"))
				return
			}
			if err := ShellFrom(c).Open(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes the sink.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// SendCmd builds and sends a frame.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "HEX...",
		Func: MustBeOpen(func(c *ishell.Context) {
			s := ShellFrom(c)
			payload, err := ParseHex(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			msg, err := s.BuildFrame(payload)
			if err != nil {
				c.Err(err)
				return
			}
			if err = s.Link.Send(msg); err != nil {
				c.Err(err)
				return
			}
			if s.Interactive {
				c.Println("OK")
			}
		}),
	}

	// StatsCmd prints link counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			stats := ShellFrom(c).Link.Stats()
			ShellFrom(c).print(c, stats, fmt.Sprintf("frames=%d bytes=%d errors=%d %s",
				stats.Frames, stats.Bytes, stats.Errors, stats.LastErr))
		}),
	}
)
