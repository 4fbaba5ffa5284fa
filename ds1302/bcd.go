package ds1302

import "fmt"

// BCDError reports a register that did not hold packed decimal digits, or a 12-hour
// value outside 1-12. Either usually means the chip is absent or was never initialized.
type BCDError struct {
	Register Register
	Value    uint8
}

func (e *BCDError) Error() string {
	return fmt.Sprintf("ds1302: register 0x%02x holds 0x%02x, not BCD", uint8(e.Register), e.Value)
}

// decToBcd converts 0-99 to BCD
func decToBcd(dec uint8) uint8 {
	return (dec/10)<<4 | dec%10
}

// bcdToDec converts BCD to int. Nibbles above 9 give a result above 99.
func bcdToDec(bcd uint8) uint8 {
	return (bcd>>4)*10 + bcd&0x0F
}

func validBcd(bcd uint8) bool {
	return bcd>>4 <= 9 && bcd&0x0F <= 9
}
