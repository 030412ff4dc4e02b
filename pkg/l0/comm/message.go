package comm

import "io"

// MaxChunkSize is the largest payload piece handed to the sink in one write.
const MaxChunkSize = 8

// Message is a built frame: sync header, payload and its checksum.
// The payload is not copied, the caller must keep it unchanged until the
// Message is sent.
type Message struct {
	header   SyncHeader
	payload  []byte
	checksum byte
}

// Build creates a Message and computes the checksum of payload.
// A nil policy folds with XOR.
func Build(payload []byte, header SyncHeader, policy Checksum) (*Message, error) {
	if len(payload) == 0 {
		return nil, ErrNoData
	}
	if policy == nil {
		policy = FoldFunc(XOR)
	}
	return &Message{
		header:   header,
		payload:  payload,
		checksum: policy.Sum(payload),
	}, nil
}

// Header returns the sync header.
func (m *Message) Header() SyncHeader {
	return m.header
}

// Payload returns the borrowed payload.
func (m *Message) Payload() []byte {
	return m.payload
}

// Checksum returns the checksum computed at build time.
func (m *Message) Checksum() byte {
	return m.checksum
}

// PacketSize is the worst-case buffer size for a frame body, it doesn't
// depend on this Message. Use WireSize for the real length.
func (m *Message) PacketSize() int {
	return 2*MaxChunkSize + 1
}

// WireSize returns the number of bytes the frame occupies on the wire.
func (m *Message) WireSize() int {
	return m.header.Len() + len(m.payload) + 1
}

// Bytes returns encoded bytes for packet based transports.
func (m *Message) Bytes() []byte {
	b := make([]byte, 0, m.WireSize())
	b = append(b, m.header.Bytes()...)
	b = append(b, m.payload...)
	return append(b, m.checksum)
}

// WriteTo writes the whole frame in a single write.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.Bytes())
	return int64(n), err
}
