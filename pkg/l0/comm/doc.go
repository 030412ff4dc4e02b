// Package comm provides L0 framing support.
package comm

// L0 framing is written by the firmware side onto a point-to-point
// byte sink (e.g. a UART) and consumed by whatever listens on the other
// end of the wire.
//
// Every frame is laid out as:
//
//   [ sync header: 2|4|8 bytes ] [ payload: N bytes ] [ checksum: 1 byte ]
//
// The sync header marks the start of a frame, its pattern is opaque to
// this package and only its width is fixed. The payload is written in
// chunks of at most MaxChunkSize bytes. The checksum is computed once
// when the Message is built, either by folding the payload or by the
// single byte CRC-8 division.
//
// There is no retransmission, flow control or decoding here.
//
// Producer: L0 firmware
// Consumer: telemetry receiver
