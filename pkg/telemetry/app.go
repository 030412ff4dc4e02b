package telemetry

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/uartmsg/pkg/framework"
	"github.com/robotalks/uartmsg/pkg/imu"
	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
	l1 "github.com/robotalks/uartmsg/pkg/l1/comm"
	"github.com/robotalks/uartmsg/pkg/serial"
)

// App is an assembled transmitter.
type App struct {
	Pipeline *Pipeline
	Status   *StatusServer

	closers []io.Closer
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewApp opens sink and relay and assembles the pipeline
// with a simulated IMU source.
func (c *Config) NewApp() (*App, error) {
	return c.NewAppWith(imu.NewSimSource(c.Interval))
}

// NewAppWith is NewApp with a given source.
func (c *Config) NewAppWith(src imu.Source) (app *App, err error) {
	header, err := c.SyncHeader()
	if err != nil {
		return nil, err
	}
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	enc, err := imu.NewEncoder(c.Encoding)
	if err != nil {
		return nil, err
	}
	if c.Sink == "" {
		return nil, fmt.Errorf("sink must be specified")
	}

	app = &App{}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	var sink io.WriteCloser
	if c.Sink == "-" {
		sink = nopCloser{os.Stdout}
	} else {
		conf := serial.DefaultConfig(c.Sink)
		conf.Baud = c.Baud
		conf.ConnectTimeout = ConnectTimeout
		if sink, err = conf.Open(); err != nil {
			return nil, err
		}
	}
	app.closers = append(app.closers, sink)
	link := l0.NewLink(sink)
	link.ChunkSize = c.ChunkSize

	deviceID := c.DeviceID
	if deviceID == "" {
		deviceID = DeviceID()
	}

	app.Pipeline = &Pipeline{
		Source:    src,
		Encoder:   enc,
		Header:    header,
		Policy:    policy,
		Link:      link,
		MaxErrors: c.MaxErrors,
	}
	if closer, ok := src.(io.Closer); ok {
		app.closers = append(app.closers, closer)
	}
	if c.Relay != "" {
		w, closer, err := DialRelay(c.Relay, deviceID)
		if err != nil {
			return nil, fmt.Errorf("relay: %w", err)
		}
		app.closers = append(app.closers, closer)
		app.Pipeline.Relay = l1.NewRelay(w)
		glog.Infof("relaying frames to %s", c.Relay)
	}
	if c.HTTPAddr != "" {
		app.Status = &StatusServer{Addr: c.HTTPAddr, Pipeline: app.Pipeline, DeviceID: deviceID}
	}
	glog.Infof("device %s: %s header, %s checksum, %s payload", deviceID, header.Kind(), c.Checksum, c.Encoding)
	return app, nil
}

// Runnables lists what to run.
func (a *App) Runnables() []fx.Runnable {
	runners := []fx.Runnable{a.Pipeline}
	if a.Status != nil {
		runners = append(runners, a.Status)
	}
	return runners
}

// Close releases sink, source and relay.
func (a *App) Close() error {
	var errs fx.AggregatedError
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs.Add(a.closers[i].Close())
	}
	a.closers = nil
	return errs.Aggregate()
}
