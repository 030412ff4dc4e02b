package imu

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/golang/protobuf/proto"
)

// Encoder turns a Sample into payload bytes.
type Encoder interface {
	Encode(Sample) ([]byte, error)
}

// EncodeFunc is func type of Encoder.
type EncodeFunc func(Sample) ([]byte, error)

// Encode implements Encoder.
func (f EncodeFunc) Encode(s Sample) ([]byte, error) {
	return f(s)
}

// AnglesSize is the size of BinaryEncoder output.
const AnglesSize = 12

// BinaryEncoder writes yaw, pitch and roll as big-endian float32.
var BinaryEncoder = EncodeFunc(func(s Sample) ([]byte, error) {
	b := make([]byte, AnglesSize)
	putFloats(b, s.Orientation.Yaw, s.Orientation.Pitch, s.Orientation.Roll)
	return b, nil
})

// QuaternionEncoder writes w, x, y, z as big-endian float32.
var QuaternionEncoder = EncodeFunc(func(s Sample) ([]byte, error) {
	b := make([]byte, 16)
	putFloats(b, s.Quat.W, s.Quat.X, s.Quat.Y, s.Quat.Z)
	return b, nil
})

// Protobuf field numbers of the angles.
const (
	FieldYaw   = 1
	FieldPitch = 2
	FieldRoll  = 3
)

// ProtoEncoder writes the angles as protobuf fixed32 fields.
var ProtoEncoder = EncodeFunc(func(s Sample) ([]byte, error) {
	buf := proto.NewBuffer(make([]byte, 0, 15))
	fields := []struct {
		num int
		val float32
	}{
		{FieldYaw, s.Orientation.Yaw},
		{FieldPitch, s.Orientation.Pitch},
		{FieldRoll, s.Orientation.Roll},
	}
	for _, f := range fields {
		if err := buf.EncodeVarint(uint64(f.num<<3 | proto.WireFixed32)); err != nil {
			return nil, err
		}
		if err := buf.EncodeFixed32(uint64(math.Float32bits(f.val))); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
})

// DecodeProtoAngles is the reverse of ProtoEncoder, unknown fields are rejected.
func DecodeProtoAngles(b []byte) (o Orientation, err error) {
	for off := 0; off < len(b); {
		key, n := proto.DecodeVarint(b[off:])
		if n == 0 {
			return o, io.ErrUnexpectedEOF
		}
		off += n
		if key&7 != proto.WireFixed32 {
			return o, fmt.Errorf("unexpected wire type %d", key&7)
		}
		if len(b)-off < 4 {
			return o, io.ErrUnexpectedEOF
		}
		f := math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
		off += 4
		switch key >> 3 {
		case FieldYaw:
			o.Yaw = f
		case FieldPitch:
			o.Pitch = f
		case FieldRoll:
			o.Roll = f
		default:
			return o, fmt.Errorf("unknown field %d", key>>3)
		}
	}
	return
}

// NewEncoder selects an Encoder by name.
func NewEncoder(name string) (Encoder, error) {
	switch strings.ToLower(name) {
	case "", "binary", "angles":
		return BinaryEncoder, nil
	case "quat", "quaternion":
		return QuaternionEncoder, nil
	case "proto", "protobuf":
		return ProtoEncoder, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

func putFloats(b []byte, vals ...float32) {
	for n, v := range vals {
		binary.BigEndian.PutUint32(b[n*4:], math.Float32bits(v))
	}
}
