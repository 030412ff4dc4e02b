package imu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var testSample = Sample{
	Quat:        Quaternion{W: 1, X: 0.5, Y: -0.25, Z: 0},
	Orientation: Orientation{Yaw: 90, Pitch: -12.5, Roll: 1},
}

func TestBinaryEncoder(t *testing.T) {
	b, err := BinaryEncoder.Encode(testSample)
	require.NoError(t, err)
	require.Len(t, b, AnglesSize)
	require.Equal(t, []byte{0x42, 0xb4, 0, 0}, b[:4])
	require.Equal(t, float32(-12.5), math.Float32frombits(binary.BigEndian.Uint32(b[4:])))
	require.Equal(t, float32(1), math.Float32frombits(binary.BigEndian.Uint32(b[8:])))
}

func TestQuaternionEncoder(t *testing.T) {
	b, err := QuaternionEncoder.Encode(testSample)
	require.NoError(t, err)
	require.Len(t, b, 16)
	require.Equal(t, []byte{0x3f, 0x80, 0, 0}, b[:4])
	require.Equal(t, float32(-0.25), math.Float32frombits(binary.BigEndian.Uint32(b[8:])))
}

func TestProtoEncoder(t *testing.T) {
	b, err := ProtoEncoder.Encode(testSample)
	require.NoError(t, err)
	require.Len(t, b, 15)
	require.Equal(t, byte(0x0d), b[0])
	require.Equal(t, []byte{0, 0, 0xb4, 0x42}, b[1:5])

	o, err := DecodeProtoAngles(b)
	require.NoError(t, err)
	require.Equal(t, testSample.Orientation, o)

	_, err = DecodeProtoAngles(b[:7])
	require.Error(t, err)
	_, err = DecodeProtoAngles([]byte{0x08, 0x01})
	require.Error(t, err)
}

func TestNewEncoder(t *testing.T) {
	for _, name := range []string{"", "binary", "quat", "Proto"} {
		enc, err := NewEncoder(name)
		require.NoError(t, err, name)
		require.NotNil(t, enc)
	}
	_, err := NewEncoder("json")
	require.Error(t, err)
}
