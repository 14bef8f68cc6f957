package intcodec

import (
	"fmt"
	"math/bits"
)

// BitLength returns the minimal number of bits needed to represent u.
// BitLength(0) is 0.
func BitLength(u uint64) int {
	return bits.Len64(u)
}

// SignedBitLength returns the number of bits, sign bit included, needed to
// represent v in two's complement.
func SignedBitLength(v int64) int {
	if v < 0 {
		return bits.Len64(uint64(^v)) + 1
	}
	return bits.Len64(uint64(v)) + 1
}

// requiredBitWidth returns the minimum number of bits needed to encode every
// value in the slice. Uses OR-reduction to avoid per-element branching.
func requiredBitWidth(values []uint64) int {
	var orAll uint64
	for _, v := range values {
		orAll |= v
	}
	return bits.Len64(orAll)
}

// DeltaEncode returns [x0, x1-x0, x2-x1, ...]. Empty and single-element
// inputs are returned as copies.
func DeltaEncode(values []int64) []int64 {
	out := make([]int64, len(values))
	var prev int64
	for i, v := range values {
		out[i] = v - prev
		prev = v
	}
	return out
}

// DeltaDecode reconstructs the prefix sums encoded by DeltaEncode.
func DeltaDecode(deltas []int64) []int64 {
	out := make([]int64, len(deltas))
	var prev int64
	for i, d := range deltas {
		prev += d
		out[i] = prev
	}
	return out
}

// UnsignedToSigned interprets the low msbIndex+1 bits of u as a two's
// complement number whose sign bit is at msbIndex.
func UnsignedToSigned(u uint64, msbIndex int) int64 {
	if msbIndex < 0 || msbIndex > 63 {
		panic(fmt.Sprintf("intcodec: invalid sign bit index %d", msbIndex))
	}
	if msbIndex == 63 {
		return int64(u)
	}
	mask := uint64(1)<<(msbIndex+1) - 1
	u &= mask
	if u&(1<<msbIndex) == 0 {
		return int64(u)
	}
	// Flip the field and subtract: -(^u & mask) - 1 == u - 2^(msbIndex+1).
	return -int64(u^mask) - 1
}

// zigzagEncode64 maps signed integers to unsigned ones so that values with a
// small magnitude stay small.
func zigzagEncode64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// zigzagDecode64 is the inverse of zigzagEncode64.
func zigzagDecode64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
