//go:build tinygo
// +build tinygo

package drivers

import (
	"machine"
	"runtime"
)

// GPIO adapts a machine.Pin to IOPin.
type GPIO machine.Pin

func (p GPIO) High() { machine.Pin(p).High() }

func (p GPIO) Low() { machine.Pin(p).Low() }

func (p GPIO) Get() bool { return machine.Pin(p).Get() }

func (p GPIO) Input() {
	machine.Pin(p).Configure(machine.PinConfig{Mode: machine.PinInput})
}

func (p GPIO) Output() {
	machine.Pin(p).Configure(machine.PinConfig{Mode: machine.PinOutput})
}

// Serial adapts a machine.UART to UART. The machine driver returns an error when its
// receive buffer is empty, so ReadByte yields to the scheduler until a byte arrives.
type Serial struct {
	*machine.UART
}

func (s Serial) ReadByte() (byte, error) {
	for s.UART.Buffered() == 0 {
		runtime.Gosched()
	}
	return s.UART.ReadByte()
}
