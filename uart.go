package drivers

import "io"

// UART is a byte-oriented serial port.
//
// ReadByte blocks until a byte has been received. Buffered reports how many received
// bytes are waiting to be read without blocking.
type UART interface {
	io.ByteReader
	io.ByteWriter
	Buffered() int
}
