package console

import (
	"io"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/drivers/tester"
)

func TestReadLine(t *testing.T) {
	c := qt.New(t)
	port := tester.NewUART()
	port.Type("123\n")
	con := New(port)

	s, err := con.ReadString(4)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "123")
	c.Assert(port.Output(), qt.Equals, "123\n")
}

func TestReadLineTruncates(t *testing.T) {
	c := qt.New(t)
	port := tester.NewUART()
	port.Type("abcdefgh\rnext\n")
	con := New(port)

	s, err := con.ReadString(4)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "abc")
	// overflow is consumed but not echoed
	c.Assert(port.Output(), qt.Equals, "abc\n")

	s, err = con.ReadString(8)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "next")
	c.Assert(port.Pending(), qt.Equals, 0)
}

func TestReadLineEmpty(t *testing.T) {
	c := qt.New(t)
	port := tester.NewUART()
	port.Type("\r")
	con := New(port)

	s, err := con.ReadString(16)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "")
	c.Assert(port.Output(), qt.Equals, "\n")
}

func TestReadLineEOF(t *testing.T) {
	c := qt.New(t)
	port := tester.NewUART()
	port.Type("12")
	con := New(port)

	_, err := con.ReadString(16)
	c.Assert(err, qt.Equals, io.EOF)
}

func TestReadNumber(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		in   string
		echo string
		n    uint8
		ok   bool
	}{
		{"9\n", "9\n", 9, true},
		{"23\r", "23\n", 23, true},
		{"0\n", "0\n", 0, true},
		{"\n", "\n", 0, false},
		{"a1b2\n", "12\n", 12, true},
		{"1234\n", "123\n", 123, true},
		{"999\n", "999\n", 231, true},
	}
	for _, tt := range tests {
		port := tester.NewUART()
		port.Type(tt.in)
		con := New(port)
		n, ok, err := con.ReadNumber()
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, tt.n, qt.Commentf("input %q", tt.in))
		c.Assert(ok, qt.Equals, tt.ok, qt.Commentf("input %q", tt.in))
		c.Assert(port.Output(), qt.Equals, tt.echo, qt.Commentf("input %q", tt.in))
	}
}

func TestReadNumberNoDigits(t *testing.T) {
	c := qt.New(t)
	port := tester.NewUART()
	port.Type("xyz\n-\r\n")
	con := New(port)

	_, ok, err := con.ReadNumber()
	c.Assert(err, qt.ErrorIs, ErrNotNumber)
	c.Assert(ok, qt.IsFalse)
	_, ok, err = con.ReadNumber()
	c.Assert(err, qt.ErrorIs, ErrNotNumber)
	c.Assert(ok, qt.IsFalse)
	// a bare line end is just empty
	_, ok, err = con.ReadNumber()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsFalse)
	c.Assert(port.Output(), qt.Equals, "\n\n\n")
}

func TestDrain(t *testing.T) {
	c := qt.New(t)
	port := tester.NewUART()
	port.Buffer("\n42")
	port.Type("7\n")
	con := New(port)

	n, err := con.Drain()
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 3)

	v, ok, err := con.ReadNumber()
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)
	c.Assert(v, qt.Equals, uint8(7))
}

func TestPrintf(t *testing.T) {
	c := qt.New(t)
	port := tester.NewUART()
	con := New(port)
	c.Assert(con.Printf("Time: %02d:%02d:%02d\n", 9, 5, 0), qt.IsNil)
	c.Assert(port.Output(), qt.Equals, "Time: 09:05:00\n")
}

func TestAtoi(t *testing.T) {
	c := qt.New(t)
	tests := map[string]uint8{
		"":      0,
		"7":     7,
		"  12":  12,
		"+5":    5,
		"08":    8,
		"59x":   59,
		"x59":   0,
		"256":   0,
		"300":   44,
		"-1":    255,
		"65535": 255,
	}
	for in, want := range tests {
		c.Assert(Atoi(in), qt.Equals, want, qt.Commentf("input %q", in))
	}
}
