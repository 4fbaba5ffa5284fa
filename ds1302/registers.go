package ds1302

// Register is the index of a clock/calendar or control register. The command byte
// sent on the wire is derived from it by command.
type Register uint8

const (
	Seconds        Register = 0x00 // Seconds, bit 7 is the clock halt flag
	Minutes        Register = 0x01 // Minutes
	Hours          Register = 0x02 // Hours, bit 7 selects 12-hour mode
	Day            Register = 0x03 // Day of month
	Month          Register = 0x04 // Month
	Weekday        Register = 0x05 // Day of week, 1-7
	Year           Register = 0x06 // Two-digit year
	Control        Register = 0x07 // Write-protect, bit 7
	TrickleCharger Register = 0x08 // Trickle charger select
)

// RAMSize is the number of battery-backed scratch bytes.
const RAMSize = 31

const (
	cmdValid = 0x80 // must be set in every command byte
	cmdRAM   = 0x40 // selects RAM instead of clock registers
	cmdRead  = 0x01 // read when set, write when clear

	haltFlag     = 0x80 // in Seconds
	writeProtect = 0x80 // in Control
	mode12h      = 0x80 // in Hours
	pmFlag       = 0x20 // in Hours, 12-hour mode only
)

// command encodes the command byte for a clock register access: the register index
// sits in bits 1-5 above the direction bit.
func command(r Register, read bool) uint8 {
	cmd := cmdValid | uint8(r&0x1F)<<1
	if read {
		cmd |= cmdRead
	}
	return cmd
}

// ramCommand encodes the command byte for a RAM access.
func ramCommand(index uint8, read bool) uint8 {
	return command(Register(index), read) | cmdRAM
}
