package intcodec

import (
	"fmt"
	"slices"
)

// BlockEncoder frame-of-reference packs an arbitrary integer column in
// fixed-size blocks behind a block count:
//
//	[block_count: VByte][block_count x FrameOfReference]
//
// It is the building block SortedBlockEncoder applies to each of its columns.
type BlockEncoder struct {
	blockSize int
}

// NewBlockEncoder returns a BlockEncoder cutting columns into blockSize values.
func NewBlockEncoder(blockSize int) (BlockEncoder, error) {
	if blockSize < 1 {
		return BlockEncoder{}, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	return BlockEncoder{blockSize: blockSize}, nil
}

// BlockSize returns the maximum number of values per block.
func (b BlockEncoder) BlockSize() int {
	return b.blockSize
}

// Write packs ints. An empty column is a single zero block count.
func (b BlockEncoder) Write(bw *BitWriter, ints []int64) {
	var (
		vb  VByte
		frm FrameOfReference
	)
	vb.Write(bw, uint64(ceilDiv(len(ints), b.blockSize)))
	for block := range slices.Chunk(ints, b.blockSize) {
		frm.Write(bw, block)
	}
}

// Read unpacks a column written by Write.
func (b BlockEncoder) Read(br *BitReader) ([]int64, error) {
	var (
		vb  VByte
		frm FrameOfReference
	)
	blockCount, err := vb.Read(br)
	if err != nil {
		return nil, fmt.Errorf("%w: block count: %w", ErrInvalidBuffer, err)
	}
	if blockCount > uint64(br.Remaining()/16) {
		return nil, fmt.Errorf("%w: block count %d exceeds buffer", ErrInvalidBuffer, blockCount)
	}

	out := make([]int64, 0, min(int(blockCount)*b.blockSize, 1<<16))
	for i := range int(blockCount) {
		block, err := frm.Read(br)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if len(block) > b.blockSize {
			return nil, fmt.Errorf("%w: block %d holds %d values, limit %d",
				ErrInvalidBuffer, i, len(block), b.blockSize)
		}
		out = append(out, block...)
	}
	return out, nil
}
