package tester

import (
	"bytes"
	"io"
)

type rx struct {
	b        byte
	buffered bool
}

// UART is a scripted serial port. Bytes given to Buffer are already sitting in the
// receive buffer, as if left over from an earlier exchange; bytes given to Type arrive
// only when the reader asks for them. Once the script is used up ReadByte returns io.EOF.
type UART struct {
	rx  []rx
	out bytes.Buffer
}

func NewUART() *UART {
	return &UART{}
}

// Buffer queues bytes that are waiting in the receive buffer.
func (u *UART) Buffer(s string) {
	for i := 0; i < len(s); i++ {
		u.rx = append(u.rx, rx{b: s[i], buffered: true})
	}
}

// Type queues bytes that arrive one by one as they are read.
func (u *UART) Type(s string) {
	for i := 0; i < len(s); i++ {
		u.rx = append(u.rx, rx{b: s[i]})
	}
}

func (u *UART) ReadByte() (byte, error) {
	if len(u.rx) == 0 {
		return 0, io.EOF
	}
	b := u.rx[0].b
	u.rx = u.rx[1:]
	return b, nil
}

func (u *UART) WriteByte(b byte) error {
	return u.out.WriteByte(b)
}

// Buffered counts the buffered bytes at the head of the script.
func (u *UART) Buffered() int {
	n := 0
	for n < len(u.rx) && u.rx[n].buffered {
		n++
	}
	return n
}

// Pending is the number of scripted bytes not read yet.
func (u *UART) Pending() int {
	return len(u.rx)
}

// Output returns everything written so far and clears it.
func (u *UART) Output() string {
	s := u.out.String()
	u.out.Reset()
	return s
}
