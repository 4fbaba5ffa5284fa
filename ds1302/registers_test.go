package ds1302

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestCommand(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		reg  Register
		read bool
		want uint8
	}{
		{Seconds, false, 0x80},
		{Seconds, true, 0x81},
		{Minutes, false, 0x82},
		{Hours, true, 0x85},
		{Day, false, 0x86},
		{Month, true, 0x89},
		{Year, false, 0x8C},
		{Year, true, 0x8D},
		{Control, false, 0x8E},
	}
	for _, tt := range tests {
		c.Assert(command(tt.reg, tt.read), qt.Equals, tt.want, qt.Commentf("register %d read=%v", tt.reg, tt.read))
	}
}

func TestRAMCommand(t *testing.T) {
	c := qt.New(t)
	c.Assert(ramCommand(0, false), qt.Equals, uint8(0xC0))
	c.Assert(ramCommand(0, true), qt.Equals, uint8(0xC1))
	c.Assert(ramCommand(30, true), qt.Equals, uint8(0xFD))
}
