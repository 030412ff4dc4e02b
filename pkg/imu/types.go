// Package imu provides orientation samples used as frame payloads.
package imu

import (
	"context"
	"math"
	"time"
)

// Quaternion is a rotation as produced by the motion processor.
type Quaternion struct {
	W, X, Y, Z float32
}

// Orientation holds yaw, pitch and roll in degrees.
type Orientation struct {
	Yaw   float32 `json:"yaw"`
	Pitch float32 `json:"pitch"`
	Roll  float32 `json:"roll"`
}

// Sample is a single reading.
type Sample struct {
	Time        time.Time   `json:"time"`
	Quat        Quaternion  `json:"quat"`
	Orientation Orientation `json:"orientation"`
}

// Source produces samples, Next blocks until one is available.
type Source interface {
	Next(context.Context) (Sample, error)
}

// Identity is the quaternion of no rotation.
var Identity = Quaternion{W: 1}

// Norm returns the length of q.
func (q Quaternion) Norm() float64 {
	w, x, y, z := float64(q.W), float64(q.X), float64(q.Y), float64(q.Z)
	return math.Sqrt(w*w + x*x + y*y + z*z)
}

// Normalize scales q to unit length. A zero quaternion becomes Identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return Identity
	}
	return Quaternion{
		W: float32(float64(q.W) / n),
		X: float32(float64(q.X) / n),
		Y: float32(float64(q.Y) / n),
		Z: float32(float64(q.Z) / n),
	}
}

// Mul composes two rotations, q applied after r.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// FromAxisAngle creates the rotation of angle radians about the unit axis.
func FromAxisAngle(x, y, z, angle float64) Quaternion {
	s := math.Sin(angle / 2)
	return Quaternion{
		W: float32(math.Cos(angle / 2)),
		X: float32(x * s),
		Y: float32(y * s),
		Z: float32(z * s),
	}
}

// YawPitchRoll converts q (Z-Y-X convention) into degrees.
func (q Quaternion) YawPitchRoll() Orientation {
	w, x, y, z := float64(q.W), float64(q.X), float64(q.Y), float64(q.Z)
	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	sinp := 2 * (w*y - z*x)
	if sinp > 1 {
		sinp = 1
	} else if sinp < -1 {
		sinp = -1
	}
	pitch := math.Asin(sinp)
	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	return Orientation{
		Yaw:   float32(yaw * 180 / math.Pi),
		Pitch: float32(pitch * 180 / math.Pi),
		Roll:  float32(roll * 180 / math.Pi),
	}
}

// SampleOf creates a Sample from a raw quaternion.
func SampleOf(t time.Time, q Quaternion) Sample {
	q = q.Normalize()
	return Sample{Time: t, Quat: q, Orientation: q.YawPitchRoll()}
}
