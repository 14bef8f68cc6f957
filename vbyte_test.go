package intcodec

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVByteEncoding(t *testing.T) {
	cases := []struct {
		value uint64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x81, 0x00}},
		{300, []byte{0x82, 0x2C}},
		{16383, []byte{0xFF, 0x7F}},
		{16384, []byte{0x81, 0x80, 0x00}},
	}
	for _, tc := range cases {
		assert := assert.New(t)
		var vb VByte
		bw := NewBitWriter(0)
		n := vb.Write(bw, tc.value)
		bw.Close()
		assert.Equal(len(tc.want), n, "value %d", tc.value)
		assert.Equal(tc.want, bw.Bytes(), "value %d", tc.value)

		got, err := vb.Read(NewBitReader(bw.Bytes()))
		assert.NoError(err)
		assert.Equal(tc.value, got)
	}
}

func TestVByteSignedEncoding(t *testing.T) {
	cases := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x7F}},
		{63, []byte{0x3F}},
		{-64, []byte{0x40}},
		{64, []byte{0x80, 0x40}},
		{-65, []byte{0xFF, 0x3F}},
	}
	for _, tc := range cases {
		assert := assert.New(t)
		var vb VByte
		bw := NewBitWriter(0)
		vb.WriteSigned(bw, tc.value)
		bw.Close()
		assert.Equal(tc.want, bw.Bytes(), "value %d", tc.value)

		got, err := vb.ReadSigned(NewBitReader(bw.Bytes()))
		assert.NoError(err)
		assert.Equal(tc.value, got)
	}
}

func TestVByteExtremes(t *testing.T) {
	assert := assert.New(t)
	var vb VByte
	bw := NewBitWriter(0)
	assert.Equal(maxVByteLen, vb.Write(bw, math.MaxUint64))
	assert.Equal(maxVByteLen, vb.WriteSigned(bw, math.MinInt64))
	assert.Equal(maxVByteLen, vb.WriteSigned(bw, math.MaxInt64))
	bw.Close()

	br := NewBitReader(bw.Bytes())
	u, err := vb.Read(br)
	assert.NoError(err)
	assert.Equal(uint64(math.MaxUint64), u)
	s, err := vb.ReadSigned(br)
	assert.NoError(err)
	assert.Equal(int64(math.MinInt64), s)
	s, err = vb.ReadSigned(br)
	assert.NoError(err)
	assert.Equal(int64(math.MaxInt64), s)
	assert.Equal(0, br.Remaining())
}

func TestVByteRandomRoundTrip(t *testing.T) {
	assert := assert.New(t)
	rng := rand.New(rand.NewSource(99))
	var vb VByte
	unsigned := make([]uint64, 300)
	signed := make([]int64, 300)
	bw := NewBitWriter(0)
	for i := range unsigned {
		shift := uint(rng.Intn(64))
		unsigned[i] = rng.Uint64() >> shift
		signed[i] = int64(rng.Uint64()) >> shift
		vb.Write(bw, unsigned[i])
		vb.WriteSigned(bw, signed[i])
	}
	bw.Close()

	br := NewBitReader(bw.Bytes())
	for i := range unsigned {
		u, err := vb.Read(br)
		assert.NoError(err)
		assert.Equal(unsigned[i], u)
		s, err := vb.ReadSigned(br)
		assert.NoError(err)
		assert.Equal(signed[i], s)
	}
}

func TestVByteUnaligned(t *testing.T) {
	assert := assert.New(t)
	var vb VByte
	bw := NewBitWriter(0)
	bw.Write(0b101, 3)
	vb.Write(bw, 16384)
	vb.WriteSigned(bw, -12345)
	bw.Close()

	br := NewBitReader(bw.Bytes())
	_, err := br.Read(3)
	assert.NoError(err)
	u, err := vb.Read(br)
	assert.NoError(err)
	assert.Equal(uint64(16384), u)
	s, err := vb.ReadSigned(br)
	assert.NoError(err)
	assert.Equal(int64(-12345), s)
}

func TestVByteMalformed(t *testing.T) {
	assert := assert.New(t)
	var vb VByte

	_, err := vb.Read(NewBitReader([]byte{0x81}))
	assert.ErrorIs(err, ErrInsufficientData)
	_, err = vb.Read(NewBitReader(nil))
	assert.ErrorIs(err, ErrInsufficientData)

	tooLong := []byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}
	_, err = vb.Read(NewBitReader(tooLong))
	assert.ErrorIs(err, ErrOverflow)

	// Ten groups whose leading group carries more than the 64th bit.
	wide := []byte{0x82, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}
	_, err = vb.Read(NewBitReader(wide))
	assert.ErrorIs(err, ErrOverflow)
	_, err = vb.ReadSigned(NewBitReader(wide))
	assert.ErrorIs(err, ErrOverflow)
}
