// Package drivers holds the hardware interfaces shared by the device drivers in this
// repository, plus adapters from TinyGo's machine package when built with TinyGo.
package drivers

// Pin is a digital output line.
type Pin interface {
	High()
	Low()
}

// IOPin is a digital line whose direction can be switched at runtime, such as the
// shared data line of a 3-wire serial bus.
type IOPin interface {
	Pin
	Get() bool
	// Input releases the line so the peripheral can drive it.
	Input()
	// Output makes the host drive the line.
	Output()
}
