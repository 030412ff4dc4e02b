package mqtt

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// FramesTopic is the topic suffix frames are published to.
const FramesTopic = "frames"

// ReadWriter implements PacketReadWriter.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh  chan packet
	done      chan struct{}
	closeOnce sync.Once
}

type packet struct {
	topic   string
	payload []byte
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{Queue: q, packetCh: make(chan packet, 1), done: make(chan struct{})}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForDevice sets both topics to device/frames.
func (p *ReadWriter) ForDevice(deviceID string) *ReadWriter {
	topic := DeviceTopic(deviceID)
	return p.WithTopics(topic, topic)
}

// DeviceTopic returns the frames topic of a device.
func DeviceTopic(deviceID string) string {
	return deviceID + "/" + FramesTopic
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	_, pkt, err := p.ReadTopicPacket()
	return pkt, err
}

// ReadTopicPacket returns the next packet and the topic it arrived on,
// without TopicPrefix. It returns io.EOF once the ReadWriter is closed.
func (p *ReadWriter) ReadTopicPacket() (string, []byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt.topic, pkt.payload, nil
	case <-p.done:
		return "", nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable.
// It subscribes SubTopic until ctx is canceled.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	sub.Token.Wait()
	if err := sub.Token.Error(); err != nil {
		p.Close()
		return err
	}
	<-ctx.Done()
	p.Close()
	if err := sub.Close(); err != nil {
		glog.Warningf("unsubscribe %q failed: %v", p.SubTopic, err)
	}
	return ctx.Err()
}

// Close stops ReadPacket, packets arriving afterwards are dropped.
func (p *ReadWriter) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}

func (p *ReadWriter) handleMsg(topic string, payload []byte) {
	if !MatchTopic(topic, p.SubTopic) {
		return
	}
	select {
	case p.packetCh <- packet{topic: topic, payload: payload}:
	case <-p.done:
	}
}
