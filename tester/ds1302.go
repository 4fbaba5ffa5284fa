package tester

import (
	"fmt"
	"sync"
	"time"

	"github.com/ajanata/drivers"
)

// Register indexes used by the DS1302 model.
const (
	regSeconds = iota
	regMinutes
	regHours
	regDay
	regMonth
	regWeekday
	regYear
	regControl
	regTrickle
	numRegs
)

const (
	ds1302CE    = 4 * time.Microsecond
	ds1302Clock = time.Microsecond
)

type phase uint8

const (
	phaseIdle phase = iota
	phaseCommand
	phaseWrite
	phaseRead
)

// DS1302 models a DS1302 at the pin level. Hand its CE, SCLK and IO lines to the code
// under test and pass Delay as the code's delay function: time on the lines is then
// virtual, and framing or timing mistakes are reported to the Failer.
//
// A DS1302 is safe to Tick from another goroutine while the lines are in use.
type DS1302 struct {
	mu sync.Mutex
	f  Failer

	// Absent makes the model leave the data line floating high, as if no chip were
	// connected.
	Absent bool

	clock [numRegs]uint8
	ram   [31]uint8

	now       time.Duration
	ce        bool
	ceAt      time.Duration
	ceLowAt   time.Duration
	ceWasLow  bool
	sclk      bool
	sclkAt    time.Duration
	hostOut   bool
	hostLevel bool
	chipOut   bool
	chipLevel bool

	phase   phase
	shift   uint8
	bits    int
	cmd     uint8
	out     uint8
	outBit  int
	cmds    []uint8
	reports []string
}

// NewDS1302 returns a model in its power-on state: 01/01/2000 00:00:00 with the
// oscillator halted and write protection on. f may be nil, in which case protocol
// violations are only recorded.
func NewDS1302(f Failer) *DS1302 {
	c := &DS1302{f: f}
	c.clock[regSeconds] = 0x80
	c.clock[regDay] = 0x01
	c.clock[regMonth] = 0x01
	c.clock[regWeekday] = 0x01
	c.clock[regControl] = 0x80
	return c
}

func (c *DS1302) CE() drivers.Pin {
	return ds1302CEPin{c}
}

func (c *DS1302) SCLK() drivers.Pin {
	return ds1302SCLKPin{c}
}

func (c *DS1302) IO() drivers.IOPin {
	return ds1302IOPin{c}
}

// Delay advances the model's virtual time.
func (c *DS1302) Delay(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Elapsed is the virtual time spent in Delay so far.
func (c *DS1302) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Commands returns every command byte received, in order.
func (c *DS1302) Commands() []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint8(nil), c.cmds...)
}

// Violations returns the protocol violations seen so far.
func (c *DS1302) Violations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.reports...)
}

// Register returns the raw contents of clock register i.
func (c *DS1302) Register(i int) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock[i]
}

// SetRegister overwrites clock register i, bypassing write protection.
func (c *DS1302) SetRegister(i int, v uint8) {
	c.mu.Lock()
	c.clock[i] = v
	c.mu.Unlock()
}

// RAM returns the raw contents of scratch byte i.
func (c *DS1302) RAM(i int) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ram[i]
}

// SetTime loads t into the clock registers in 24-hour mode, keeping the halt flag.
func (c *DS1302) SetTime(t time.Time) {
	c.mu.Lock()
	c.store(t)
	c.mu.Unlock()
}

// Time decodes the clock registers.
func (c *DS1302) Time() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// Halted reports whether the oscillator is stopped.
func (c *DS1302) Halted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock[regSeconds]&0x80 != 0
}

// Tick advances the clock by one second unless it is halted.
func (c *DS1302) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clock[regSeconds]&0x80 != 0 {
		return
	}
	c.store(c.load().Add(time.Second))
}

func (c *DS1302) load() time.Time {
	h := c.clock[regHours]
	var hour int
	if h&0x80 != 0 {
		hour = fromBcd(h&0x1F) % 12
		if h&0x20 != 0 {
			hour += 12
		}
	} else {
		hour = fromBcd(h & 0x3F)
	}
	return time.Date(2000+fromBcd(c.clock[regYear]),
		time.Month(fromBcd(c.clock[regMonth]&0x1F)),
		fromBcd(c.clock[regDay]&0x3F),
		hour,
		fromBcd(c.clock[regMinutes]&0x7F),
		fromBcd(c.clock[regSeconds]&0x7F),
		0, time.UTC)
}

func (c *DS1302) store(t time.Time) {
	c.clock[regSeconds] = c.clock[regSeconds]&0x80 | toBcd(t.Second())
	c.clock[regMinutes] = toBcd(t.Minute())
	c.clock[regHours] = toBcd(t.Hour())
	c.clock[regDay] = toBcd(t.Day())
	c.clock[regMonth] = toBcd(int(t.Month()))
	c.clock[regWeekday] = toBcd(int(t.Weekday()) + 1)
	c.clock[regYear] = toBcd(t.Year() % 100)
}

func (c *DS1302) violate(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.reports = append(c.reports, msg)
	if c.f != nil {
		c.f.Fatalf("ds1302: %s", msg)
	}
}

func (c *DS1302) setCE(high bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if high == c.ce {
		return
	}
	c.ce = high
	if high {
		if c.ceWasLow && c.now-c.ceLowAt < ds1302CE {
			c.violate("CE inactive for %v, need %v", c.now-c.ceLowAt, ds1302CE)
		}
		if c.sclk {
			c.violate("CE raised while SCLK high")
		}
		c.ceAt = c.now
		c.phase = phaseCommand
		c.shift, c.bits = 0, 0
		return
	}
	if c.sclk {
		c.violate("CE dropped while SCLK high")
	}
	c.ceLowAt = c.now
	c.ceWasLow = true
	c.phase = phaseIdle
	c.chipOut = false
}

func (c *DS1302) setSCLK(high bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if high == c.sclk {
		return
	}
	if c.ce && c.now-c.sclkAt < ds1302Clock {
		c.violate("SCLK phase of %v, need %v", c.now-c.sclkAt, ds1302Clock)
	}
	c.sclk = high
	c.sclkAt = c.now
	if !c.ce {
		return
	}
	if high {
		if c.now-c.ceAt < ds1302CE {
			c.violate("SCLK rose %v after CE, need %v", c.now-c.ceAt, ds1302CE)
		}
		c.rising()
	} else {
		c.falling()
	}
}

func (c *DS1302) rising() {
	if c.phase != phaseCommand && c.phase != phaseWrite {
		return
	}
	if !c.hostOut {
		c.violate("data line not driven while clocking in bit %d", c.bits)
	}
	c.shift >>= 1
	if c.hostLevel {
		c.shift |= 0x80
	}
	c.bits++
	if c.bits < 8 {
		return
	}
	c.bits = 0
	if c.phase == phaseWrite {
		c.apply(c.cmd, c.shift)
		c.phase = phaseIdle
		return
	}
	c.cmd = c.shift
	c.cmds = append(c.cmds, c.cmd)
	switch {
	case c.cmd&0x80 == 0:
		c.violate("command 0x%02x lacks bit 7", c.cmd)
		c.phase = phaseIdle
	case c.cmd&0x01 != 0:
		c.phase = phaseRead
		c.out = c.value(c.cmd)
		c.outBit = -1
	default:
		c.phase = phaseWrite
	}
}

// falling presents the next output bit during a read.
func (c *DS1302) falling() {
	if c.phase != phaseRead || c.Absent {
		return
	}
	c.outBit++
	if c.outBit >= 8 {
		c.chipOut = false
		c.phase = phaseIdle
		return
	}
	c.chipOut = true
	c.chipLevel = c.out>>uint(c.outBit)&0x01 != 0
}

func (c *DS1302) value(cmd uint8) uint8 {
	i := int(cmd>>1) & 0x1F
	if cmd&0x40 != 0 {
		if i < len(c.ram) {
			return c.ram[i]
		}
		return 0
	}
	if i < numRegs {
		return c.clock[i]
	}
	return 0
}

func (c *DS1302) apply(cmd, v uint8) {
	i := int(cmd>>1) & 0x1F
	if cmd&0x40 == 0 && i == regControl {
		c.clock[regControl] = v & 0x80
		return
	}
	if c.clock[regControl]&0x80 != 0 {
		return
	}
	if cmd&0x40 != 0 {
		if i < len(c.ram) {
			c.ram[i] = v
		}
		return
	}
	if i < numRegs {
		c.clock[i] = v
	}
}

func (c *DS1302) getIO() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hostOut {
		return c.hostLevel
	}
	if c.chipOut {
		return c.chipLevel
	}
	// floating line reads high
	return true
}

func (c *DS1302) setIODir(out bool) {
	c.mu.Lock()
	c.hostOut = out
	c.mu.Unlock()
}

func (c *DS1302) setIO(high bool) {
	c.mu.Lock()
	c.hostLevel = high
	c.mu.Unlock()
}

type ds1302CEPin struct{ c *DS1302 }

func (p ds1302CEPin) High() { p.c.setCE(true) }
func (p ds1302CEPin) Low()  { p.c.setCE(false) }

type ds1302SCLKPin struct{ c *DS1302 }

func (p ds1302SCLKPin) High() { p.c.setSCLK(true) }
func (p ds1302SCLKPin) Low()  { p.c.setSCLK(false) }

type ds1302IOPin struct{ c *DS1302 }

func (p ds1302IOPin) High()     { p.c.setIO(true) }
func (p ds1302IOPin) Low()      { p.c.setIO(false) }
func (p ds1302IOPin) Get() bool { return p.c.getIO() }
func (p ds1302IOPin) Input()    { p.c.setIODir(false) }
func (p ds1302IOPin) Output()   { p.c.setIODir(true) }

func toBcd(n int) uint8 {
	return uint8(n/10)<<4 | uint8(n%10)
}

func fromBcd(b uint8) int {
	return int(b>>4)*10 + int(b&0x0F)
}
