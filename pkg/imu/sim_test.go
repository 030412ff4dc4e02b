package imu

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimSourceAt(t *testing.T) {
	s := NewSimSource(0)
	s.PitchRate, s.RollRate = 0, 0
	o := s.At(time.Second).YawPitchRoll()
	require.InDelta(t, 30, o.Yaw, 1e-3)
	require.InDelta(t, 0, o.Pitch, 1e-3)
	require.InDelta(t, 0, o.Roll, 1e-3)
	require.Equal(t, s.At(3*time.Second), s.At(3*time.Second))
}

func TestSimSourceNext(t *testing.T) {
	base := time.Unix(1000, 0)
	clock := base
	s := NewSimSource(0)
	s.now = func() time.Time { return clock }

	first, err := s.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, base, first.Time)
	require.Equal(t, Orientation{}, first.Orientation)

	clock = base.Add(2 * time.Second)
	next, err := s.Next(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 60, next.Orientation.Yaw, 1)
}

func TestSimSourceCanceled(t *testing.T) {
	s := NewSimSource(time.Hour)
	defer s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Next(ctx)
	require.Equal(t, context.Canceled, err)

	s = NewSimSource(0)
	_, err = s.Next(ctx)
	require.Equal(t, context.Canceled, err)
}

func TestSimSourceTicks(t *testing.T) {
	s := NewSimSource(time.Millisecond)
	defer s.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		_, err := s.Next(ctx)
		require.NoError(t, err)
	}
}
