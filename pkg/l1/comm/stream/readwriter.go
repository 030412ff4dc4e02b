package stream

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultMaxSize limits the packets accepted by ReadPacket.
const DefaultMaxSize = 64 * 1024

// ReadWriter implements PacketReadWriter.
// Each packet is prefixed by 4-byte (little-endian) indicate the length.
type ReadWriter struct {
	io.ReadWriter
	MaxSize uint32
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{ReadWriter: s, MaxSize: DefaultMaxSize}
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var size uint32
	if err := binary.Read(p, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	if p.MaxSize > 0 && size > p.MaxSize {
		return nil, fmt.Errorf("packet size %d exceeds %d", size, p.MaxSize)
	}
	pkt := make([]byte, size)
	_, err := io.ReadFull(p, pkt)
	return pkt, err
}

// WritePacket implements PacketWriter.
// Length and packet go out in one write.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	b := make([]byte, 4+len(pkt))
	binary.LittleEndian.PutUint32(b, uint32(len(pkt)))
	copy(b[4:], pkt)
	n, err := p.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	return err
}
