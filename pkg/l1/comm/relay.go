package comm

import (
	"sync"

	"github.com/golang/glog"

	l0 "github.com/robotalks/uartmsg/pkg/l0/comm"
)

// Relay forwards complete frames, one frame per packet.
type Relay struct {
	Writer PacketWriter

	lock sync.Mutex
}

// NewRelay creates a Relay with given PacketWriter.
func NewRelay(w PacketWriter) *Relay {
	return &Relay{Writer: w}
}

// Forward writes the wire image of msg as a single packet.
func (r *Relay) Forward(msg *l0.Message) error {
	pkt := msg.Bytes()
	r.lock.Lock()
	defer r.lock.Unlock()
	if err := r.Writer.WritePacket(pkt); err != nil {
		glog.V(2).Infof("RELAY failed: %v", err)
		return err
	}
	return nil
}
