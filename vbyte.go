package intcodec

import "fmt"

const (
	// vbyteGroupBits is the payload width of a single VByte byte.
	vbyteGroupBits = 7
	vbyteGroupMask = 1<<vbyteGroupBits - 1
	vbyteContinue  = 1 << ContinuationBit
	// maxVByteLen is the longest encoding of a 64-bit integer (ceil(64/7)).
	maxVByteLen = (64 + vbyteGroupBits - 1) / vbyteGroupBits
)

// VByte encodes self-delimiting integers as big-endian 7-bit groups. Every
// byte except the last carries the continuation bit, so small counts and
// headers cost a single byte while arbitrarily large values remain
// representable.
//
// VByte has no state; the zero value is ready to use.
type VByte struct{}

// Write appends u and returns the number of bytes written. Zero is encoded
// as a single zero byte.
func (VByte) Write(bw *BitWriter, u uint64) int {
	groups := max(1, (BitLength(u)+vbyteGroupBits-1)/vbyteGroupBits)
	for g := groups - 1; g >= 0; g-- {
		chunk := byte(u>>(vbyteGroupBits*g)) & vbyteGroupMask
		if g > 0 {
			chunk |= vbyteContinue
		}
		bw.Write(uint64(chunk), 8)
	}
	return groups
}

// WriteSigned appends v with one extra leading sign bit and returns the
// number of bytes written.
func (VByte) WriteSigned(bw *BitWriter, v int64) int {
	groups := (SignedBitLength(v) + vbyteGroupBits - 1) / vbyteGroupBits
	for g := groups - 1; g >= 0; g-- {
		// Arithmetic shift keeps the sign extension in the leading group.
		chunk := byte(v>>(vbyteGroupBits*g)) & vbyteGroupMask
		if g > 0 {
			chunk |= vbyteContinue
		}
		bw.Write(uint64(chunk), 8)
	}
	return groups
}

// Read decodes an unsigned VByte integer.
func (VByte) Read(br *BitReader) (uint64, error) {
	acc, count, lead, err := readVByteGroups(br)
	if err != nil {
		return 0, err
	}
	if count == maxVByteLen && lead > 1 {
		return 0, fmt.Errorf("%w: %d-byte varint with leading group %#x", ErrOverflow, count, lead)
	}
	return acc, nil
}

// ReadSigned decodes a VByte integer written by WriteSigned. The sign bit is
// the most significant of the 7*count accumulated bits.
func (VByte) ReadSigned(br *BitReader) (int64, error) {
	acc, count, lead, err := readVByteGroups(br)
	if err != nil {
		return 0, err
	}
	nbits := vbyteGroupBits * count
	if nbits <= 64 {
		return UnsignedToSigned(acc, nbits-1), nil
	}
	// 70 accumulated bits: the leading group must be pure sign extension.
	if lead != 0 && lead != vbyteGroupMask {
		return 0, fmt.Errorf("%w: %d-byte signed varint with leading group %#x", ErrOverflow, count, lead)
	}
	return int64(acc), nil
}

// readVByteGroups accumulates 7-bit groups until a byte without continuation
// bit is read. It returns the accumulated value (truncated to 64 bits), the
// number of groups and the payload of the leading group.
func readVByteGroups(br *BitReader) (acc uint64, count int, lead byte, err error) {
	for {
		v, err := br.Read(8)
		if err != nil {
			return 0, 0, 0, err
		}
		b := byte(v)
		group := ExtractBits(b, ContinuationBit-1, 0)
		if count == 0 {
			lead = group
		}
		count++
		if count > maxVByteLen {
			return 0, 0, 0, fmt.Errorf("%w: varint longer than %d bytes", ErrOverflow, maxVByteLen)
		}
		acc = acc<<vbyteGroupBits | uint64(group)
		if !MSB(b, ContinuationBit) {
			return acc, count, lead, nil
		}
	}
}
