package telemetry

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	l1 "github.com/robotalks/uartmsg/pkg/l1/comm"
	"github.com/robotalks/uartmsg/pkg/l1/comm/mqtt"
	"github.com/robotalks/uartmsg/pkg/l1/comm/stream"
	"github.com/robotalks/uartmsg/pkg/l1/comm/websocket"
)

// ConnectTimeout bounds relay connection setup.
var ConnectTimeout = 5 * time.Second

// DialRelay connects the packet transport named by relayURL.
// MQTT relays publish to deviceID/frames.
func DialRelay(relayURL, deviceID string) (l1.PacketWriter, io.Closer, error) {
	u, err := url.Parse(relayURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid relay URL: %w", err)
	}
	switch u.Scheme {
	case "mqtt", "mqtts":
		q, err := mqtt.NewQueueFromURL(relayURL)
		if err != nil {
			return nil, nil, err
		}
		if err = q.Connect(ConnectTimeout); err != nil {
			return nil, nil, err
		}
		return mqtt.NewPacketReadWriter(q).ForDevice(deviceID), q, nil
	case "ws", "wss":
		rw, err := websocket.Dial(relayURL, "")
		if err != nil {
			return nil, nil, err
		}
		return rw, rw, nil
	case "tcp":
		conn, err := net.DialTimeout("tcp", u.Host, ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		return stream.New(conn), conn, nil
	default:
		return nil, nil, fmt.Errorf("unknown relay URL scheme: %q", u.Scheme)
	}
}
