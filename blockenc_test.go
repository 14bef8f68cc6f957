package intcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockEncoderRoundTrip(t *testing.T) {
	assert := assert.New(t)
	enc, err := NewBlockEncoder(16)
	require.NoError(t, err)
	assert.Equal(16, enc.BlockSize())

	columns := [][]int64{nil, {1}, genSequential(16), genMixed(17), genMixed(100)}
	bw := NewBitWriter(0)
	for _, col := range columns {
		enc.Write(bw, col)
	}
	bw.Close()

	br := NewBitReader(bw.Bytes())
	for _, want := range columns {
		got, err := enc.Read(br)
		assert.NoError(err)
		assert.Equal(len(want), len(got))
		if len(want) > 0 {
			assert.Equal(want, got)
		}
	}
	assert.NoError(validateTrailer(br))
}

func TestBlockEncoderEmptyColumn(t *testing.T) {
	assert := assert.New(t)
	enc, err := NewBlockEncoder(DefaultBlockSize)
	require.NoError(t, err)

	bw := NewBitWriter(0)
	enc.Write(bw, nil)
	bw.Close()
	assert.Equal([]byte{0x00}, bw.Bytes())
}

func TestBlockEncoderRejectsOversizedBlocks(t *testing.T) {
	assert := assert.New(t)
	wide, err := NewBlockEncoder(8)
	require.NoError(t, err)
	narrow, err := NewBlockEncoder(4)
	require.NoError(t, err)

	bw := NewBitWriter(0)
	wide.Write(bw, genSequential(8))
	bw.Close()

	_, err = narrow.Read(NewBitReader(bw.Bytes()))
	assert.ErrorIs(err, ErrInvalidBuffer)
	got, err := wide.Read(NewBitReader(bw.Bytes()))
	assert.NoError(err)
	assert.Equal(genSequential(8), got)
}

func TestBlockEncoderInvalidSize(t *testing.T) {
	assert := assert.New(t)
	_, err := NewBlockEncoder(0)
	assert.ErrorIs(err, ErrInvalidBlockSize)
	_, err = NewSortedBlockEncoder(DefaultSliceSize, -1)
	assert.ErrorIs(err, ErrInvalidBlockSize)
}
