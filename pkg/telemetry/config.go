// Package telemetry streams IMU orientation frames onto a serial sink.
package telemetry

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
)

// Config provides options of the telemetry transmitter.
type Config struct {
	// Sink is where frames are written, see serial.Config.Link.
	// "-" writes to stdout.
	Sink string `toml:"sink"`
	Baud int    `toml:"baud"`
	// Relay optionally republishes frames as packets:
	// mqtt://host:port/prefix/, ws://host/path or tcp://host:port.
	Relay    string `toml:"relay"`
	DeviceID string `toml:"device_id"`

	// Header is short, medium or long; SyncPattern is its hex pattern.
	Header      string `toml:"header"`
	SyncPattern string `toml:"sync_pattern"`
	// Checksum is one of xor, sum, crc8, crc8-and, crc8-stream.
	Checksum string `toml:"checksum"`
	Poly     uint   `toml:"poly"`
	// Encoding is one of binary, quat, proto.
	Encoding  string        `toml:"encoding"`
	Interval  time.Duration `toml:"interval"`
	ChunkSize int           `toml:"chunk_size"`
	MaxErrors int           `toml:"max_errors"`

	HTTPAddr string `toml:"http_addr"`
}

var defaultConfig = Config{
	Baud:      9600,
	Header:    "short",
	Checksum:  "xor",
	Poly:      0x07,
	Encoding:  "binary",
	Interval:  100 * time.Millisecond,
	ChunkSize: l0.MaxChunkSize,
	MaxErrors: 10,
}

var (
	configFile string
	flagConfig Config
)

func init() {
	if val := os.Getenv("UARTMSG_SINK"); val != "" {
		defaultConfig.Sink = val
	}
	if val := os.Getenv("UARTMSG_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = baud
		}
	}
	if val := os.Getenv("UARTMSG_RELAY"); val != "" {
		defaultConfig.Relay = val
	}
	if val := os.Getenv("UARTMSG_DEVICE_ID"); val != "" {
		defaultConfig.DeviceID = val
	}
	if val := os.Getenv("UARTMSG_HTTP"); val != "" {
		defaultConfig.HTTPAddr = val
	}
	configFile = os.Getenv("UARTMSG_CONFIG")
}

// flag name -> copy from flagConfig.
var flagFields = map[string]func(dst, src *Config){
	"sink":       func(dst, src *Config) { dst.Sink = src.Sink },
	"baud":       func(dst, src *Config) { dst.Baud = src.Baud },
	"relay":      func(dst, src *Config) { dst.Relay = src.Relay },
	"device-id":  func(dst, src *Config) { dst.DeviceID = src.DeviceID },
	"header":     func(dst, src *Config) { dst.Header = src.Header },
	"sync":       func(dst, src *Config) { dst.SyncPattern = src.SyncPattern },
	"checksum":   func(dst, src *Config) { dst.Checksum = src.Checksum },
	"poly":       func(dst, src *Config) { dst.Poly = src.Poly },
	"encoding":   func(dst, src *Config) { dst.Encoding = src.Encoding },
	"interval":   func(dst, src *Config) { dst.Interval = src.Interval },
	"chunk":      func(dst, src *Config) { dst.ChunkSize = src.ChunkSize },
	"max-errors": func(dst, src *Config) { dst.MaxErrors = src.MaxErrors },
	"http":       func(dst, src *Config) { dst.HTTPAddr = src.HTTPAddr },
}

// SetupFlags sets up command line flags.
// Flags given explicitly override the config file.
func SetupFlags() {
	flagConfig = defaultConfig
	c := &flagConfig
	flag.StringVar(&configFile, "config", configFile, "TOML config `file`.")
	flag.StringVar(&c.Sink, "sink", c.Sink, "Frame sink: serial device, socket://host:port or - for stdout.")
	flag.IntVar(&c.Baud, "baud", c.Baud, "Serial baud rate.")
	flag.StringVar(&c.Relay, "relay", c.Relay, "Optional frame relay URL (mqtt://, ws://, tcp://).")
	flag.StringVar(&c.DeviceID, "device-id", c.DeviceID, "Device ID, defaults to a machine derived ID.")
	flag.StringVar(&c.Header, "header", c.Header, "Sync header: short, medium or long.")
	flag.StringVar(&c.SyncPattern, "sync", c.SyncPattern, "Sync header pattern in hex.")
	flag.StringVar(&c.Checksum, "checksum", c.Checksum, "Checksum: xor, sum, crc8, crc8-and, crc8-stream.")
	flag.UintVar(&c.Poly, "poly", c.Poly, "CRC-8 generator polynomial.")
	flag.StringVar(&c.Encoding, "encoding", c.Encoding, "Payload encoding: binary, quat, proto.")
	flag.DurationVar(&c.Interval, "interval", c.Interval, "Sample interval.")
	flag.IntVar(&c.ChunkSize, "chunk", c.ChunkSize, "Max payload bytes per write.")
	flag.IntVar(&c.MaxErrors, "max-errors", c.MaxErrors, "Consecutive sink errors before giving up, 0 never.")
	flag.StringVar(&c.HTTPAddr, "http", c.HTTPAddr, "Status server listen address.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config from defaults, environment, the config file
// and explicitly set flags, in that order.
func NewConfig() (*Config, error) {
	conf := defaultConfig
	if configFile != "" {
		if err := conf.LoadFile(configFile); err != nil {
			return nil, err
		}
	}
	if flag.Parsed() {
		flag.Visit(func(f *flag.Flag) {
			if fn := flagFields[f.Name]; fn != nil {
				fn(&conf, &flagConfig)
			}
		})
	}
	return &conf, nil
}

// LoadFile merges settings from a TOML file.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load %s: unknown keys %v", path, undecoded)
	}
	return nil
}

// Policy returns the checksum strategy.
func (c *Config) Policy() (l0.Checksum, error) {
	name := strings.ToLower(c.Checksum)
	if strings.HasPrefix(name, "crc8") && (c.Poly == 0 || c.Poly > 0xff) {
		return nil, fmt.Errorf("invalid CRC-8 polynomial %#x", c.Poly)
	}
	switch name {
	case "", "xor":
		return l0.FoldFunc(l0.XOR), nil
	case "sum", "add":
		return l0.FoldFunc(l0.Add), nil
	case "crc8":
		return l0.CRC8{Poly: byte(c.Poly)}, nil
	case "crc8-and":
		return l0.CRC8{Poly: byte(c.Poly), Extract: l0.ExtractAnd}, nil
	case "crc8-stream":
		return l0.CRC8Stream{Poly: byte(c.Poly)}, nil
	default:
		return nil, fmt.Errorf("unknown checksum %q", c.Checksum)
	}
}

// SyncHeader returns the configured header.
// Without a pattern, the header is filled with 0xaa 0x55 pairs.
func (c *Config) SyncHeader() (l0.SyncHeader, error) {
	kind, err := l0.ParseSyncKind(c.Header)
	if err != nil {
		return l0.SyncHeader{}, err
	}
	if c.SyncPattern == "" {
		pattern := make([]byte, kind.Len())
		for i := 0; i < len(pattern); i += 2 {
			pattern[i], pattern[i+1] = 0xaa, 0x55
		}
		return l0.ParseSyncHeader(c.Header, pattern)
	}
	pattern, err := hex.DecodeString(c.SyncPattern)
	if err != nil {
		return l0.SyncHeader{}, fmt.Errorf("invalid sync pattern: %w", err)
	}
	return l0.ParseSyncHeader(c.Header, pattern)
}
