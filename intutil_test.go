package intcodec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBits(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(byte(0b101), ExtractBits(0b1011_0100, 7, 5))
	assert.Equal(byte(0b10100), ExtractBits(0b1011_0100, 4, 0))
	assert.Equal(byte(0xFF), ExtractBits(0xFF, 7, 0))
	assert.Equal(byte(1), ExtractBits(0x80, 7, 7))

	assert.Equal(byte(0b101), ExtractBitsLR(0b1011_0100, 0, 2))
	assert.Equal(byte(0b100), ExtractBitsLR(0b1011_0100, 5, 7))

	assert.Panics(func() { ExtractBits(0, 8, 0) })
	assert.Panics(func() { ExtractBits(0, 2, 3) })
	assert.Panics(func() { ExtractBits(0, 3, -1) })
}

func TestMSB(t *testing.T) {
	assert := assert.New(t)
	assert.True(MSB(0x80, ContinuationBit))
	assert.False(MSB(0x7F, ContinuationBit))
	assert.True(MSB(0x01, 0))
	assert.Panics(func() { MSB(0, 8) })
}

func TestBitLength(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, BitLength(0))
	assert.Equal(1, BitLength(1))
	assert.Equal(7, BitLength(127))
	assert.Equal(8, BitLength(128))
	assert.Equal(64, BitLength(math.MaxUint64))

	assert.Equal(1, SignedBitLength(0))
	assert.Equal(1, SignedBitLength(-1))
	assert.Equal(7, SignedBitLength(63))
	assert.Equal(7, SignedBitLength(-64))
	assert.Equal(8, SignedBitLength(64))
	assert.Equal(64, SignedBitLength(math.MaxInt64))
	assert.Equal(64, SignedBitLength(math.MinInt64))
}

func TestRequiredBitWidth(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, requiredBitWidth(nil))
	assert.Equal(0, requiredBitWidth([]uint64{0, 0}))
	assert.Equal(3, requiredBitWidth([]uint64{5, 5, 0}))
	assert.Equal(64, requiredBitWidth([]uint64{1, math.MaxUint64}))
}

func TestDeltaEncodeDecode(t *testing.T) {
	assert := assert.New(t)
	values := []int64{1, 3, 53}
	deltas := DeltaEncode(values)
	assert.Equal([]int64{1, 2, 50}, deltas)
	assert.Equal(values, DeltaDecode(deltas))
	// The input is left untouched.
	assert.Equal([]int64{1, 3, 53}, values)

	assert.Empty(DeltaEncode(nil))
	assert.Empty(DeltaDecode(nil))
	assert.Equal([]int64{-7}, DeltaEncode([]int64{-7}))

	extremes := []int64{math.MaxInt64, math.MinInt64, 0, math.MaxInt64}
	assert.Equal(extremes, DeltaDecode(DeltaEncode(extremes)))
}

func TestUnsignedToSigned(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(int64(-1), UnsignedToSigned(0x7F, 6))
	assert.Equal(int64(63), UnsignedToSigned(0x3F, 6))
	assert.Equal(int64(-64), UnsignedToSigned(0x40, 6))
	assert.Equal(int64(-1), UnsignedToSigned(1, 0))
	assert.Equal(int64(0), UnsignedToSigned(0, 0))
	// Bits above the sign bit are ignored.
	assert.Equal(int64(5), UnsignedToSigned(0xF05, 7))
	assert.Equal(int64(math.MinInt64), UnsignedToSigned(1<<63, 63))
	assert.Equal(int64(-1), UnsignedToSigned(math.MaxUint64, 63))

	assert.Panics(func() { UnsignedToSigned(0, 64) })
	assert.Panics(func() { UnsignedToSigned(0, -1) })
}

func TestZigzag(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(0), zigzagEncode64(0))
	assert.Equal(uint64(1), zigzagEncode64(-1))
	assert.Equal(uint64(2), zigzagEncode64(1))
	assert.Equal(uint64(math.MaxUint64), zigzagEncode64(math.MinInt64))
	for _, v := range []int64{0, 1, -1, 1000, -1000, math.MaxInt64, math.MinInt64} {
		assert.Equal(v, zigzagDecode64(zigzagEncode64(v)))
	}
}
