package intcodec

import (
	"math"
	"testing"

	"github.com/mhr3/streamvbyte"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSvbEncodedLen(t *testing.T) {
	assert := assert.New(t)
	for _, n := range []int{1, 2, 3, 4, 5, 8, 9, 127, 128, 129} {
		values := make([]uint32, n)
		for i := range values {
			values[i] = uint32(i) << uint(8*(i%4))
		}
		data := streamvbyte.EncodeUint32(values, nil)
		size, ok := svbEncodedLen(data, n)
		assert.True(ok, "n=%d", n)
		assert.Equal(len(data), size, "n=%d", n)
	}

	_, ok := svbEncodedLen([]byte{0x00}, 5)
	assert.False(ok)
}

func TestStreamVByteLayout(t *testing.T) {
	assert := assert.New(t)
	codec := NewStreamVByteIntListEncoder()

	buf, err := codec.Encode([]int64{7})
	require.NoError(t, err)
	assert.Equal([]byte{0x01, 0x07}, buf)

	buf, err = codec.Encode([]int64{100, 101, 99})
	require.NoError(t, err)
	// count 3, first 100 (two signed VByte bytes), one control byte and the
	// zigzag deltas 2 and 3.
	assert.Equal([]byte{0x03, 0x80, 0x64, 0x00, 0x02, 0x03}, buf)

	got, err := codec.Decode(buf)
	assert.NoError(err)
	assert.Equal([]int64{100, 101, 99}, got)
}

func TestStreamVByteDeltaRange(t *testing.T) {
	assert := assert.New(t)
	codec := NewStreamVByteIntListEncoder()

	assertCodecRoundTrip(t, codec, []int64{0, math.MaxInt32, 0, math.MinInt32})
	assertCodecRoundTrip(t, codec, []int64{math.MinInt64, math.MinInt64 + 1})

	for _, src := range [][]int64{
		{0, math.MaxInt32 + 1},
		{0, math.MinInt32 - 1},
		{math.MinInt64, math.MaxInt64},
		{math.MaxInt64, math.MinInt64},
	} {
		_, err := codec.Encode(src)
		assert.ErrorIs(err, ErrValueRange, "%v", src)
	}
}

func TestStreamVByteInvalidCount(t *testing.T) {
	assert := assert.New(t)
	codec := NewStreamVByteIntListEncoder()
	_, err := codec.Decode([]byte{0x00, 0x00})
	assert.ErrorIs(err, ErrInvalidBuffer)
	_, err = codec.Decode([]byte{0x7F, 0x00, 0x00})
	assert.ErrorIs(err, ErrInvalidBuffer)
}
