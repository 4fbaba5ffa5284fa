// Package console implements text output and a small line editor on top of a serial
// port, for menu-driven firmware talking to a terminal emulator.
package console

import (
	"errors"
	"fmt"

	"github.com/ajanata/drivers"
)

// NumberSize is the buffer size used by ReadNumber: up to three digits.
const NumberSize = 4

// ErrNotNumber is returned by ReadNumber for a line that had input but no digits.
var ErrNotNumber = errors.New("console: not a number")

type Console struct {
	port drivers.UART
	num  *LineBuffer
}

// New creates a console on a configured serial port.
func New(port drivers.UART) *Console {
	return &Console{
		port: port,
		num:  NewLineBuffer(NumberSize),
	}
}

// Print writes s as is.
func (c *Console) Print(s string) error {
	for i := 0; i < len(s); i++ {
		if err := c.port.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) Printf(format string, args ...interface{}) error {
	return c.Print(fmt.Sprintf(format, args...))
}

// ReadByte blocks until one byte arrives.
func (c *Console) ReadByte() (byte, error) {
	return c.port.ReadByte()
}

// Drain discards input that is already waiting in the receive buffer and returns how
// many bytes were dropped.
func (c *Console) Drain() (int, error) {
	n := 0
	for c.port.Buffered() > 0 {
		if _, err := c.port.ReadByte(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ReadLine reads one line into buf, see LineBuffer for the size limit. A carriage
// return or newline ends the line and is answered with a newline; it is not stored.
// Every other byte is echoed and stored if accept allows it (nil accepts everything)
// and buf has room. Other bytes are consumed and dropped without echo; rejected counts
// those refused by accept.
func (c *Console) ReadLine(buf *LineBuffer, accept func(byte) bool) (rejected int, err error) {
	buf.Reset()
	for {
		ch, err := c.port.ReadByte()
		if err != nil {
			return rejected, err
		}
		if ch == '\r' || ch == '\n' {
			return rejected, c.Print("\n")
		}
		if accept != nil && !accept(ch) {
			rejected++
			continue
		}
		if !buf.Append(ch) {
			continue
		}
		if err := c.port.WriteByte(ch); err != nil {
			return rejected, err
		}
	}
}

// ReadString reads a line of at most size-1 bytes.
func (c *Console) ReadString(size int) (string, error) {
	buf := NewLineBuffer(size)
	_, err := c.ReadLine(buf, nil)
	return buf.String(), err
}

// ReadNumber reads a line of up to three digits, ignoring anything else typed. ok is
// false when the line was empty, and err is ErrNotNumber when it held no digits but
// something else. Values above 255 wrap around.
func (c *Console) ReadNumber() (n uint8, ok bool, err error) {
	rejected, err := c.ReadLine(c.num, IsDigit)
	if err != nil {
		return 0, false, err
	}
	if c.num.Len() == 0 {
		if rejected > 0 {
			return 0, false, ErrNotNumber
		}
		return 0, false, nil
	}
	return Atoi(c.num.String()), true, nil
}

func IsDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Atoi parses a decimal number the forgiving way: leading blanks and a sign are
// allowed, parsing stops at the first non-digit and the result is truncated to 8 bits.
// Strings without digits parse as 0.
func Atoi(s string) uint8 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	var n uint32
	for ; i < len(s) && IsDigit(s[i]); i++ {
		n = n*10 + uint32(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return uint8(n)
}
