package comm

import (
	"io"
	"sync"

	"github.com/golang/glog"
)

// LinkStats reports the traffic on a Link.
type LinkStats struct {
	Frames  uint64 `json:"frames"`
	Bytes   uint64 `json:"bytes"`
	Errors  uint64 `json:"errors"`
	LastErr string `json:"last_error,omitempty"`
}

// Link serializes frames from multiple goroutines onto one sink.
type Link struct {
	Writer    io.Writer
	ChunkSize int

	stats LinkStats
	lock  sync.Mutex
}

// NewLink creates a Link.
func NewLink(w io.Writer) *Link {
	return &Link{Writer: w}
}

// Send sends a Message, frames never interleave on the sink.
func (l *Link) Send(msg *Message) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	s := NewSender(l.Writer, msg)
	s.ChunkSize = l.ChunkSize
	if err := s.Send(); err != nil {
		l.stats.Errors++
		l.stats.LastErr = err.Error()
		glog.V(2).Infof("SEND failed: %v", err)
		return err
	}
	l.stats.Frames++
	l.stats.Bytes += uint64(msg.WireSize())
	if glog.V(3) {
		glog.Infof("SEND %d bytes checksum=%02x", msg.WireSize(), msg.checksum)
	}
	return nil
}

// Stats gets a snapshot of the counters.
func (l *Link) Stats() LinkStats {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.stats
}
