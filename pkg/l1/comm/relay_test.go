package comm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
	"github.com/robotalks/uartmsg/pkg/l1/comm/stream"
)

type packetRecorder struct {
	packets [][]byte
	err     error
}

func (r *packetRecorder) WritePacket(pkt []byte) error {
	if r.err != nil {
		return r.err
	}
	r.packets = append(r.packets, pkt)
	return nil
}

func TestRelayForward(t *testing.T) {
	var rec packetRecorder
	relay := NewRelay(&rec)
	msg, err := l0.Build([]byte{0xff, 0x01}, l0.ShortSync([2]byte{0xaa, 0x55}), nil)
	require.NoError(t, err)
	require.NoError(t, relay.Forward(msg))
	require.Equal(t, [][]byte{{0xaa, 0x55, 0xff, 0x01, 0xfe}}, rec.packets)

	rec.err = errors.New("broken")
	require.Equal(t, rec.err, relay.Forward(msg))
}

func TestRelayStream(t *testing.T) {
	var buf bytes.Buffer
	relay := NewRelay(stream.New(&buf))
	msg, err := l0.Build([]byte{1, 2, 3}, l0.SyncHeader{}, l0.CRC8{Poly: 0x07})
	require.NoError(t, err)
	require.NoError(t, relay.Forward(msg))
	require.Equal(t, []byte{6, 0, 0, 0, 0, 0, 1, 2, 3, 0x07}, buf.Bytes())

	pkt, err := stream.New(&buf).ReadPacket()
	require.NoError(t, err)
	require.Equal(t, msg.Bytes(), pkt)
}
