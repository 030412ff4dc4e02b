// Package serial opens the byte sinks frames are written to.
package serial

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// Config holds sink settings.
type Config struct {
	// Link is a serial device path (file:///dev/ttyUSB0 or /dev/ttyUSB0)
	// or a TCP serial bridge (socket://host:port, tcp://host:port).
	Link string
	// Baud rate of serial devices.
	Baud int
	// ReadTimeout of serial devices, 0 blocks.
	ReadTimeout time.Duration
	// KeepAlive period of TCP bridges.
	KeepAlive time.Duration
	// ConnectTimeout bounds dialing TCP bridges, 0 means DefaultConnectTimeout.
	ConnectTimeout time.Duration
}

const (
	// DefaultBaud is the telemetry UART rate.
	DefaultBaud = 9600
	// DefaultConnectTimeout bounds dialing a TCP bridge.
	DefaultConnectTimeout = 5 * time.Second
)

// DefaultConfig returns a configuration for the link.
func DefaultConfig(link string) *Config {
	return &Config{
		Link:           link,
		Baud:           DefaultBaud,
		KeepAlive:      30 * time.Second,
		ConnectTimeout: DefaultConnectTimeout,
	}
}

// Kind tells how Link will be opened, "serial" or "tcp".
func (c *Config) Kind() (kind, target string, err error) {
	u, err := url.Parse(c.Link)
	if err != nil {
		return "", "", err
	}
	switch u.Scheme {
	case "socket", "tcp":
		if u.Host == "" {
			return "", "", fmt.Errorf("missing host in %q", c.Link)
		}
		return "tcp", u.Host, nil
	case "file", "":
		if u.Path == "" {
			return "", "", fmt.Errorf("missing device in %q", c.Link)
		}
		return "serial", u.Path, nil
	default:
		return "", "", fmt.Errorf("can not find a valid connection string in %q", c.Link)
	}
}

// Open opens the sink.
func (c *Config) Open() (io.ReadWriteCloser, error) {
	kind, target, err := c.Kind()
	if err != nil {
		return nil, err
	}
	if kind == "tcp" {
		timeout := c.ConnectTimeout
		if timeout <= 0 {
			timeout = DefaultConnectTimeout
		}
		conn, err := net.DialTimeout("tcp", target, timeout)
		if err != nil {
			return nil, err
		}
		if tcp, ok := conn.(*net.TCPConn); ok && c.KeepAlive > 0 {
			tcp.SetKeepAlive(true)
			tcp.SetKeepAlivePeriod(c.KeepAlive)
		}
		glog.Infof("connected to serial bridge %s", target)
		return conn, nil
	}
	baud := c.Baud
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        target,
		Baud:        baud,
		ReadTimeout: c.ReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, err
	}
	glog.Infof("opened %s at %d baud", target, baud)
	return port, nil
}

// Open is a shortcut of DefaultConfig(link).Open().
func Open(link string) (io.ReadWriteCloser, error) {
	return DefaultConfig(link).Open()
}
