// Package ds1302 implements a driver for the DS1302 trickle-charge timekeeping chip, which
// talks over a 3-wire serial interface (CE, SCLK and a bidirectional I/O line).
//
// The driver covers the clock and calendar registers, the clock halt flag, write
// protection and the 31 bytes of scratch RAM. Trickle charging and burst mode remain
// unimplemented.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/DS1302.pdf
package ds1302

import (
	"errors"
	"time"
)

var (
	ErrInvalidTime = errors.New("ds1302: time out of range")
	ErrInvalidDate = errors.New("ds1302: date out of range")
	ErrRAMAddress  = errors.New("ds1302: RAM address out of range")
)

// TimeOfDay is a time in 24-hour format.
type TimeOfDay struct {
	Hour   uint8
	Minute uint8
	Second uint8
}

// Valid reports whether t fits the clock registers.
func (t TimeOfDay) Valid() bool {
	return t.Hour < 24 && t.Minute < 60 && t.Second < 60
}

// Date is a calendar date. The chip stores a two-digit year, the century is always 2000.
type Date struct {
	Day   uint8
	Month uint8
	Year  uint8
}

// Valid reports whether d fits the calendar registers. Days are not checked against
// the length of the month.
func (d Date) Valid() bool {
	return d.Day >= 1 && d.Day <= 31 && d.Month >= 1 && d.Month <= 12 && d.Year <= 99
}

type Device struct {
	bus Bus
}

// New creates a driver on the given bus. The bus must already be configured.
func New(bus Bus) Device {
	return Device{bus: bus}
}

// Configure clears write protection and makes sure the oscillator is running, without
// touching the current time.
func (d *Device) Configure() {
	d.SetWriteProtect(false)
	d.Enable()
}

// ReadRegister reads one clock register in a single transaction.
func (d *Device) ReadRegister(r Register) uint8 {
	return d.read(command(r, true))
}

// WriteRegister writes one clock register in a single transaction.
func (d *Device) WriteRegister(r Register, value uint8) {
	d.write(command(r, false), value)
}

func (d *Device) read(cmd uint8) uint8 {
	d.bus.Begin()
	d.bus.ShiftOut(cmd)
	v := d.bus.ShiftIn()
	d.bus.End()
	return v
}

func (d *Device) write(cmd, value uint8) {
	d.bus.Begin()
	d.bus.ShiftOut(cmd)
	d.bus.ShiftOut(value)
	d.bus.End()
}

// Time reads the current time. If a register does not hold valid BCD the decoded
// values are still returned along with a *BCDError.
func (d *Device) Time() (TimeOfDay, error) {
	dec := decoder{dev: d}
	t := TimeOfDay{
		Second: dec.read(Seconds, ^uint8(haltFlag)),
		Minute: dec.read(Minutes, 0x7F),
		Hour:   dec.hours(),
	}
	return t, dec.err
}

// SetTime writes t and clears the halt flag, so the clock runs afterwards.
func (d *Device) SetTime(t TimeOfDay) error {
	if !t.Valid() {
		return ErrInvalidTime
	}
	d.WriteRegister(Seconds, decToBcd(t.Second)&^haltFlag)
	d.WriteRegister(Minutes, decToBcd(t.Minute))
	// 24-hour mode
	d.WriteRegister(Hours, decToBcd(t.Hour))
	return nil
}

// Date reads the current date, see Time for error handling.
func (d *Device) Date() (Date, error) {
	dec := decoder{dev: d}
	date := Date{
		Day:   dec.read(Day, 0x3F),
		Month: dec.read(Month, 0x1F),
		Year:  dec.read(Year, 0xFF),
	}
	return date, dec.err
}

func (d *Device) SetDate(date Date) error {
	if !date.Valid() {
		return ErrInvalidDate
	}
	d.WriteRegister(Day, decToBcd(date.Day))
	d.WriteRegister(Month, decToBcd(date.Month))
	d.WriteRegister(Year, decToBcd(date.Year))
	return nil
}

// Enable clears the halt flag, keeping the seconds value.
func (d *Device) Enable() {
	s := d.ReadRegister(Seconds)
	d.WriteRegister(Seconds, s&^haltFlag)
}

// Disable sets the halt flag, keeping the seconds value.
func (d *Device) Disable() {
	s := d.ReadRegister(Seconds)
	d.WriteRegister(Seconds, s|haltFlag)
}

// Halted reports whether the oscillator is stopped.
func (d *Device) Halted() bool {
	return d.ReadRegister(Seconds)&haltFlag != 0
}

// SetWriteProtect turns write protection on or off. While it is on the chip ignores
// writes to every register except Control.
func (d *Device) SetWriteProtect(on bool) {
	var v uint8
	if on {
		v = writeProtect
	}
	d.WriteRegister(Control, v)
}

func (d *Device) WriteProtected() bool {
	return d.ReadRegister(Control)&writeProtect != 0
}

// ReadRAM reads one byte of battery-backed RAM.
func (d *Device) ReadRAM(index uint8) (uint8, error) {
	if index >= RAMSize {
		return 0, ErrRAMAddress
	}
	return d.read(ramCommand(index, true)), nil
}

// WriteRAM writes one byte of battery-backed RAM.
func (d *Device) WriteRAM(index, value uint8) error {
	if index >= RAMSize {
		return ErrRAMAddress
	}
	d.write(ramCommand(index, false), value)
	return nil
}

// Now reads date and time as a UTC time.Time.
func (d *Device) Now() (time.Time, error) {
	date, err := d.Date()
	if err != nil {
		return time.Time{}, err
	}
	t, err := d.Time()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(2000+int(date.Year), time.Month(date.Month), int(date.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC), nil
}

// Set writes t to the clock and starts it. Only years 2000-2099 can be stored.
func (d *Device) Set(t time.Time) error {
	if t.Year() < 2000 || t.Year() > 2099 {
		return ErrInvalidDate
	}
	err := d.SetDate(Date{
		Day:   uint8(t.Day()),
		Month: uint8(t.Month()),
		Year:  uint8(t.Year() - 2000),
	})
	if err != nil {
		return err
	}
	// the chip counts weekdays 1-7 and only needs them to advance at midnight
	d.WriteRegister(Weekday, uint8(t.Weekday())+1)
	return d.SetTime(TimeOfDay{
		Hour:   uint8(t.Hour()),
		Minute: uint8(t.Minute()),
		Second: uint8(t.Second()),
	})
}

// decoder reads BCD registers and keeps the first malformed one it sees.
type decoder struct {
	dev *Device
	err error
}

func (dec *decoder) read(r Register, mask uint8) uint8 {
	return dec.check(r, dec.dev.ReadRegister(r)&mask)
}

// hours decodes either register layout into 0-23.
func (dec *decoder) hours() uint8 {
	raw := dec.dev.ReadRegister(Hours)
	if raw&mode12h == 0 {
		return dec.check(Hours, raw&0x3F)
	}
	h := dec.check(Hours, raw&0x1F)
	if (h < 1 || h > 12) && dec.err == nil {
		dec.err = &BCDError{Register: Hours, Value: raw}
	}
	if h == 12 {
		h = 0
	}
	if raw&pmFlag != 0 {
		h += 12
	}
	return h
}

func (dec *decoder) check(r Register, raw uint8) uint8 {
	if !validBcd(raw) && dec.err == nil {
		dec.err = &BCDError{Register: r, Value: raw}
	}
	return bcdToDec(raw)
}
