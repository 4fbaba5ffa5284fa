package tester

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

// shiftOut clocks b into the model the way a correct host does.
func shiftOut(c *DS1302, b uint8) {
	io := c.IO()
	io.Output()
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			io.High()
		} else {
			io.Low()
		}
		c.SCLK().High()
		c.Delay(time.Microsecond)
		c.SCLK().Low()
		c.Delay(time.Microsecond)
		b >>= 1
	}
}

func shiftIn(c *DS1302) uint8 {
	var b uint8
	c.IO().Input()
	for i := 0; i < 8; i++ {
		b >>= 1
		if c.IO().Get() {
			b |= 0x80
		}
		c.SCLK().High()
		c.Delay(time.Microsecond)
		c.SCLK().Low()
		c.Delay(time.Microsecond)
	}
	return b
}

func begin(c *DS1302) {
	c.CE().High()
	c.Delay(4 * time.Microsecond)
}

func end(c *DS1302) {
	c.CE().Low()
	c.Delay(4 * time.Microsecond)
}

func TestDS1302WriteRead(t *testing.T) {
	c := qt.New(t)
	chip := NewDS1302(c)

	begin(chip)
	shiftOut(chip, 0x8E) // control
	shiftOut(chip, 0x00)
	end(chip)
	c.Assert(chip.Register(regControl), qt.Equals, uint8(0))

	begin(chip)
	shiftOut(chip, 0x82) // minutes
	shiftOut(chip, 0x47)
	end(chip)

	begin(chip)
	shiftOut(chip, 0x83)
	v := shiftIn(chip)
	end(chip)
	c.Assert(v, qt.Equals, uint8(0x47))
	c.Assert(chip.Commands(), qt.DeepEquals, []uint8{0x8E, 0x82, 0x83})
}

func TestDS1302WriteProtect(t *testing.T) {
	c := qt.New(t)
	chip := NewDS1302(c)

	begin(chip)
	shiftOut(chip, 0xC4) // RAM 2
	shiftOut(chip, 0x99)
	end(chip)
	c.Assert(chip.RAM(2), qt.Equals, uint8(0))

	chip.SetRegister(regControl, 0)
	begin(chip)
	shiftOut(chip, 0xC4)
	shiftOut(chip, 0x99)
	end(chip)
	c.Assert(chip.RAM(2), qt.Equals, uint8(0x99))
}

func TestDS1302Absent(t *testing.T) {
	c := qt.New(t)
	chip := NewDS1302(c)
	chip.Absent = true
	begin(chip)
	shiftOut(chip, 0x81)
	c.Assert(shiftIn(chip), qt.Equals, uint8(0xFF))
	end(chip)
}

func TestDS1302Violations(t *testing.T) {
	c := qt.New(t)
	chip := NewDS1302(nil)

	// no settle time after CE and no clock phases
	chip.CE().High()
	chip.IO().Output()
	chip.SCLK().High()
	chip.SCLK().Low()
	chip.CE().Low()
	chip.CE().High()

	v := chip.Violations()
	c.Assert(v, qt.DeepEquals, []string{
		"SCLK phase of 0s, need 1µs",
		"SCLK rose 0s after CE, need 4µs",
		"SCLK phase of 0s, need 1µs",
		"CE inactive for 0s, need 4µs",
	})
}

func TestDS1302Tick(t *testing.T) {
	c := qt.New(t)
	chip := NewDS1302(c)
	chip.SetTime(time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC))

	chip.Tick()
	c.Assert(chip.Time(), qt.Equals, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC))

	chip.SetRegister(regSeconds, 0x59)
	chip.Tick()
	c.Assert(chip.Time(), qt.Equals, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	c.Assert(chip.Register(regYear), qt.Equals, uint8(0x24))
	c.Assert(chip.Register(regHours), qt.Equals, uint8(0x00))
}

func TestDS1302TwelveHour(t *testing.T) {
	c := qt.New(t)
	chip := NewDS1302(c)
	chip.SetRegister(regSeconds, 0x00)
	chip.SetRegister(regHours, 0x80|0x20|0x11)
	c.Assert(chip.Time().Hour(), qt.Equals, 23)
	chip.SetRegister(regHours, 0x80|0x12)
	c.Assert(chip.Time().Hour(), qt.Equals, 0)
}

func TestUART(t *testing.T) {
	c := qt.New(t)
	u := NewUART()
	u.Buffer("ab")
	u.Type("c")
	u.Buffer("d")
	c.Assert(u.Buffered(), qt.Equals, 2)
	c.Assert(u.Pending(), qt.Equals, 4)

	for _, want := range "abcd" {
		b, err := u.ReadByte()
		c.Assert(err, qt.IsNil)
		c.Assert(b, qt.Equals, byte(want))
		if want == 'b' {
			c.Assert(u.Buffered(), qt.Equals, 0)
		}
	}
	_, err := u.ReadByte()
	c.Assert(err, qt.Not(qt.IsNil))

	c.Assert(u.WriteByte('x'), qt.IsNil)
	c.Assert(u.Output(), qt.Equals, "x")
	c.Assert(u.Output(), qt.Equals, "")
}
