package websocket

import "golang.org/x/net/websocket"

// ReadWriter implements PacketReadWriter.
// Every packet is a binary websocket message.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// Dial connects to a websocket server. An empty origin uses the server URL.
func Dial(url, origin string) (*ReadWriter, error) {
	if origin == "" {
		origin = url
	}
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close closes the connection.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}
