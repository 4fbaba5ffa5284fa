// Package tester contains host-side stand-ins for the hardware the drivers talk to, so
// that drivers and programs can run without a board attached.
package tester

// Failer is implemented by *testing.T and *quicktest.C.
type Failer interface {
	Fatalf(format string, args ...interface{})
}
