package ds1302

import (
	"time"

	"github.com/ajanata/drivers"
)

// Bus carries transactions on the 3-wire interface: Begin, one or more bytes shifted
// out or in, then End. Everything above the pins talks to the chip through it.
type Bus interface {
	Begin()
	End()
	ShiftOut(b uint8)
	ShiftIn() uint8
}

const (
	ceSettle   = 4 * time.Microsecond // CE setup and inactive time
	clockPhase = time.Microsecond     // SCLK high and low time
)

// Wire implements Bus by bit-banging three GPIO lines. It is open loop: there is no
// acknowledge on this bus, so nothing it does can fail.
type Wire struct {
	ce   drivers.Pin
	sclk drivers.Pin
	io   drivers.IOPin

	// Delay holds a line state for at least the given time. Defaults to time.Sleep.
	Delay func(time.Duration)
}

// NewWire creates a Wire on the given enable (RST), clock and data lines. Call
// Configure before the first transaction.
func NewWire(ce, sclk drivers.Pin, io drivers.IOPin) *Wire {
	return &Wire{
		ce:    ce,
		sclk:  sclk,
		io:    io,
		Delay: time.Sleep,
	}
}

// Configure drives CE and SCLK low and releases the data line.
func (w *Wire) Configure() {
	w.ce.Low()
	w.sclk.Low()
	w.io.Input()
}

// Begin asserts CE and waits for the chip to start listening for a command.
func (w *Wire) Begin() {
	w.ce.High()
	w.Delay(ceSettle)
}

// End deasserts CE, which also latches a pending write.
func (w *Wire) End() {
	w.ce.Low()
	w.Delay(ceSettle)
}

// ShiftOut sends b least significant bit first. The data line stays an output.
func (w *Wire) ShiftOut(b uint8) {
	w.io.Output()
	for i := 0; i < 8; i++ {
		if b&0x01 != 0 {
			w.io.High()
		} else {
			w.io.Low()
		}
		w.pulse()
		b >>= 1
	}
}

// ShiftIn reads a byte least significant bit first. Each bit is sampled before the
// clock pulse that makes the chip present the next one.
func (w *Wire) ShiftIn() uint8 {
	var b uint8
	w.io.Input()
	for i := 0; i < 8; i++ {
		b >>= 1
		if w.io.Get() {
			b |= 0x80
		}
		w.pulse()
	}
	return b
}

func (w *Wire) pulse() {
	w.sclk.High()
	w.Delay(clockPhase)
	w.sclk.Low()
	w.Delay(clockPhase)
}
