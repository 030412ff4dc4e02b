package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/uartmsg/pkg/imu"
	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
	l1 "github.com/robotalks/uartmsg/pkg/l1/comm"
)

// Stats reports pipeline progress.
type Stats struct {
	Samples     uint64       `json:"samples"`
	Frames      uint64       `json:"frames"`
	Errors      uint64       `json:"errors"`
	RelayErrors uint64       `json:"relay_errors"`
	Link        l0.LinkStats `json:"link"`
}

// Pipeline turns samples into frames.
type Pipeline struct {
	Source  imu.Source
	Encoder imu.Encoder
	Header  l0.SyncHeader
	Policy  l0.Checksum
	Link    *l0.Link
	// Relay is optional.
	Relay *l1.Relay
	// MaxErrors stops Run after that many consecutive sink errors, 0 never stops.
	MaxErrors int
	// Limit stops Run after that many samples, 0 runs until canceled.
	Limit int

	stats      Stats
	lastSample *imu.Sample
	errCount   int
	lock       sync.RWMutex
}

// Name implements Named.
func (p *Pipeline) Name() string {
	return "pipeline"
}

// Run implements Runnable.
func (p *Pipeline) Run(ctx context.Context) error {
	for n := 0; p.Limit == 0 || n < p.Limit; n++ {
		sample, err := p.Source.Next(ctx)
		if err != nil {
			return err
		}
		if err = p.Step(sample); err != nil {
			glog.Warningf("sample dropped: %v", err)
			if p.MaxErrors > 0 && p.consecutiveErrors() >= p.MaxErrors {
				return fmt.Errorf("giving up after %d sink errors: %w", p.MaxErrors, err)
			}
		}
	}
	return nil
}

// Step encodes one sample and sends the frame.
// Relay errors are counted but not returned.
func (p *Pipeline) Step(sample imu.Sample) error {
	p.lock.Lock()
	p.stats.Samples++
	p.lastSample = &sample
	p.lock.Unlock()

	payload, err := p.Encoder.Encode(sample)
	if err != nil {
		return p.failed(fmt.Errorf("encode: %w", err))
	}
	msg, err := l0.Build(payload, p.Header, p.Policy)
	if err != nil {
		return p.failed(err)
	}
	if err = p.Link.Send(msg); err != nil {
		return p.failed(err)
	}
	var relayErr error
	if p.Relay != nil {
		relayErr = p.Relay.Forward(msg)
	}

	p.lock.Lock()
	defer p.lock.Unlock()
	p.stats.Frames++
	p.errCount = 0
	if relayErr != nil {
		p.stats.RelayErrors++
	}
	return nil
}

// Stats gets a snapshot of the counters.
func (p *Pipeline) Stats() Stats {
	p.lock.RLock()
	stats := p.stats
	p.lock.RUnlock()
	stats.Link = p.Link.Stats()
	return stats
}

// LastSample returns the latest sample, nil before the first one.
func (p *Pipeline) LastSample() *imu.Sample {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.lastSample
}

func (p *Pipeline) failed(err error) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stats.Errors++
	p.errCount++
	return err
}

func (p *Pipeline) consecutiveErrors() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.errCount
}
