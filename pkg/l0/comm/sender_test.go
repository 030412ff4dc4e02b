package comm

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordWriter struct {
	writes [][]byte
	failAt int // 1-based index of the failing write, 0 never fails
	short  bool
}

func (w *recordWriter) Write(p []byte) (int, error) {
	if w.failAt > 0 && len(w.writes)+1 == w.failAt {
		if w.short {
			return len(p) - 1, nil
		}
		return 0, io.ErrClosedPipe
	}
	w.writes = append(w.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (w *recordWriter) bytes() []byte {
	var b []byte
	for _, p := range w.writes {
		b = append(b, p...)
	}
	return b
}

func mustBuild(t *testing.T, payload []byte, header SyncHeader, policy Checksum) *Message {
	msg, err := Build(payload, header, policy)
	require.NoError(t, err)
	return msg
}

func TestSend(t *testing.T) {
	long := make([]byte, 20)
	for i := range long {
		long[i] = byte(i + 1)
	}
	testCases := []struct {
		name   string
		msg    func(*testing.T) *Message
		expect [][]byte
	}{
		{
			name: "short",
			msg: func(t *testing.T) *Message {
				return mustBuild(t, []byte{0xff, 0x01}, ShortSync([2]byte{0xaa, 0x55}), nil)
			},
			expect: [][]byte{{0xaa, 0x55}, {0xff, 0x01}, {0xfe}},
		},
		{
			name: "exact chunk",
			msg: func(t *testing.T) *Message {
				return mustBuild(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, MediumSync([4]byte{9, 9, 9, 9}), nil)
			},
			expect: [][]byte{{9, 9, 9, 9}, {1, 2, 3, 4, 5, 6, 7, 8}, {8}},
		},
		{
			name: "chunked",
			msg: func(t *testing.T) *Message {
				return mustBuild(t, long, LongSync([8]byte{1, 1, 1, 1, 2, 2, 2, 2}), FoldFunc(Add))
			},
			expect: [][]byte{
				{1, 1, 1, 1, 2, 2, 2, 2},
				long[:8], long[8:16], long[16:],
				{210},
			},
		},
		{
			name: "crc",
			msg: func(t *testing.T) *Message {
				return mustBuild(t, []byte{0x00, 0x10}, SyncHeader{}, CRC8{Poly: 0x07})
			},
			expect: [][]byte{{0, 0}, {0x00, 0x10}, {0x07}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var w recordWriter
			require.NoError(t, Send(&w, tc.msg(t)))
			require.Equal(t, tc.expect, w.writes)
		})
	}
}

func TestSendLongPayloadIntact(t *testing.T) {
	payload := []byte("twenty bytes payload")
	require.Len(t, payload, 20)
	var w recordWriter
	require.NoError(t, Send(&w, mustBuild(t, payload, SyncHeader{}, nil)))
	out := w.bytes()
	require.Equal(t, payload, out[2:22])
	require.True(t, len(w.writes) >= 5, "header, 3 payload chunks, checksum")
}

func TestSendChunkSize(t *testing.T) {
	var w recordWriter
	s := NewSender(&w, mustBuild(t, []byte{1, 2, 3, 4, 5}, SyncHeader{}, nil))
	s.ChunkSize = 2
	require.NoError(t, s.Send())
	require.Equal(t, [][]byte{{0, 0}, {1, 2}, {3, 4}, {5}, {1 ^ 2 ^ 3 ^ 4 ^ 5}}, w.writes)

	w = recordWriter{}
	s = NewSender(&w, mustBuild(t, make([]byte, 10), SyncHeader{}, nil))
	s.ChunkSize = 100
	require.NoError(t, s.Send())
	require.Len(t, w.writes, 4)
}

func TestSendFailures(t *testing.T) {
	testCases := []struct {
		name   string
		failAt int
		short  bool
		stage  string
		writes int
	}{
		{"header", 1, false, "header", 0},
		{"header short", 1, true, "header", 0},
		{"first chunk", 2, false, "payload", 1},
		{"second chunk", 3, false, "payload", 2},
		{"checksum", 4, false, "checksum", 3},
		{"checksum short", 4, true, "checksum", 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := recordWriter{failAt: tc.failAt, short: tc.short}
			err := Send(&w, mustBuild(t, make([]byte, 12), SyncHeader{}, nil))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrWriteFailed))
			var we *WriteError
			require.True(t, errors.As(err, &we))
			require.Equal(t, tc.stage, we.Stage)
			if tc.short {
				require.Equal(t, io.ErrShortWrite, we.Err)
			} else {
				require.True(t, errors.Is(err, io.ErrClosedPipe))
			}
			require.Len(t, w.writes, tc.writes)
		})
	}
}

func TestSendConsumes(t *testing.T) {
	var w recordWriter
	s := NewSender(&w, mustBuild(t, []byte{1}, SyncHeader{}, nil))
	require.NoError(t, s.Send())
	require.Equal(t, ErrConsumed, s.Send())
	require.Len(t, w.writes, 3)

	w = recordWriter{failAt: 1}
	s = NewSender(&w, mustBuild(t, []byte{1}, SyncHeader{}, nil))
	require.Error(t, s.Send())
	w.failAt = 0
	require.Equal(t, ErrConsumed, s.Send())
	require.Empty(t, w.writes)
}
