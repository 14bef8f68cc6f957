package intcodec

import "fmt"

// ContinuationBit is the position of the VByte continuation flag within a byte.
const ContinuationBit = 7

// ExtractBits returns the integer formed by bits [lsbit, msbit] (inclusive,
// 0 = least significant) of b.
func ExtractBits(b byte, msbit, lsbit int) byte {
	validateBitRange(msbit, lsbit)
	width := msbit - lsbit + 1
	return (b >> lsbit) & byte(1<<width-1)
}

// ExtractBitsLR is ExtractBits addressed left to right: index 0 is the most
// significant bit, which is the order bits appear in a stream.
func ExtractBitsLR(b byte, left, right int) byte {
	return ExtractBits(b, 7-left, 7-right)
}

// MSB reports whether bit pos (0 = least significant) of b is set. With
// pos == ContinuationBit it tests the VByte continuation flag.
func MSB(b byte, pos int) bool {
	validateBitRange(pos, pos)
	return b&(1<<pos) != 0
}

func validateBitRange(msbit, lsbit int) {
	if lsbit < 0 || msbit > 7 || msbit < lsbit {
		panic(fmt.Sprintf("intcodec: invalid bit range [%d, %d] (must satisfy 0 <= lsbit <= msbit <= 7)", lsbit, msbit))
	}
}
