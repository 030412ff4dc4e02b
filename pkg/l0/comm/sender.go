package comm

import "io"

// Sender writes one Message onto a sink.
type Sender struct {
	// ChunkSize limits the payload bytes per write,
	// values outside 1..MaxChunkSize mean MaxChunkSize.
	ChunkSize int

	w   io.Writer
	msg *Message
}

// NewSender creates a Sender owning msg.
func NewSender(w io.Writer, msg *Message) *Sender {
	return &Sender{w: w, msg: msg}
}

// Send writes header, payload and checksum in order.
// The first failed write aborts the frame. The Message is consumed
// whatever the outcome, a second call returns ErrConsumed.
func (s *Sender) Send() error {
	msg := s.msg
	if msg == nil {
		return ErrConsumed
	}
	s.msg = nil

	if err := writeAll(s.w, msg.header.Bytes()); err != nil {
		return &WriteError{Stage: "header", Err: err}
	}
	chunk := s.ChunkSize
	if chunk <= 0 || chunk > MaxChunkSize {
		chunk = MaxChunkSize
	}
	for data := msg.payload; len(data) > 0; {
		n := chunk
		if n > len(data) {
			n = len(data)
		}
		if err := writeAll(s.w, data[:n]); err != nil {
			return &WriteError{Stage: "payload", Err: err}
		}
		data = data[n:]
	}
	if err := writeAll(s.w, []byte{msg.checksum}); err != nil {
		return &WriteError{Stage: "checksum", Err: err}
	}
	return nil
}

// Send is a shortcut for NewSender(w, msg).Send().
func Send(w io.Writer, msg *Message) error {
	return NewSender(w, msg).Send()
}

func writeAll(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	return err
}
