package imu

import (
	"context"
	"math"
	"sync"
	"time"
)

// SimSource simulates a body spinning at constant rates.
// Rates are in degrees per second about the Z, Y and X axes.
type SimSource struct {
	YawRate   float64
	PitchRate float64
	RollRate  float64
	// Interval between samples, 0 returns samples immediately.
	Interval time.Duration

	start  time.Time
	now    func() time.Time
	ticker *time.Ticker
	lock   sync.Mutex
}

// NewSimSource creates a SimSource.
func NewSimSource(interval time.Duration) *SimSource {
	return &SimSource{
		YawRate:   30,
		PitchRate: 5,
		RollRate:  10,
		Interval:  interval,
		now:       time.Now,
	}
}

// At returns the sample after elapsed time since start.
func (s *SimSource) At(elapsed time.Duration) Quaternion {
	secs := elapsed.Seconds()
	rad := func(rate float64) float64 {
		return rate * secs * math.Pi / 180
	}
	// pitch and roll oscillate to stay away from gimbal lock.
	yaw := FromAxisAngle(0, 0, 1, rad(s.YawRate))
	pitch := FromAxisAngle(0, 1, 0, math.Sin(rad(s.PitchRate))*math.Pi/6)
	roll := FromAxisAngle(1, 0, 0, math.Sin(rad(s.RollRate))*math.Pi/6)
	return yaw.Mul(pitch).Mul(roll)
}

// Next implements Source.
func (s *SimSource) Next(ctx context.Context) (Sample, error) {
	s.lock.Lock()
	if s.now == nil {
		s.now = time.Now
	}
	if s.start.IsZero() {
		s.start = s.now()
	}
	if s.ticker == nil && s.Interval > 0 {
		s.ticker = time.NewTicker(s.Interval)
	}
	ticker := s.ticker
	s.lock.Unlock()

	if ticker != nil {
		select {
		case <-ctx.Done():
			return Sample{}, ctx.Err()
		case <-ticker.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	t := s.now()
	return SampleOf(t, s.At(t.Sub(s.start))), nil
}

// Close stops the ticker.
func (s *SimSource) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	return nil
}
