package intcodec

import (
	"fmt"
	"slices"
)

// BinaryPackingIntListEncoder sorts a sequence, delta-encodes it and packs the
// deltas in independent frame-of-reference blocks:
//
//	[first: signed VByte][block_count: VByte][block_count x FrameOfReference]
//
// The original element order is not preserved: Decode yields the sorted
// sequence. With sorting disabled the input order survives but deltas may be
// negative, which widens the blocks.
type BinaryPackingIntListEncoder struct {
	blockSize int
	sorted    bool
}

var _ IntListCodec = (*BinaryPackingIntListEncoder)(nil)

// NewBinaryPackingIntListEncoder returns a codec packing blockSize deltas per block.
func NewBinaryPackingIntListEncoder(blockSize int, sorted bool) (*BinaryPackingIntListEncoder, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}
	return &BinaryPackingIntListEncoder{blockSize: blockSize, sorted: sorted}, nil
}

// Name implements IntListCodec.
func (e *BinaryPackingIntListEncoder) Name() string {
	return NameBinaryPacking
}

// Encode implements IntListCodec.
func (e *BinaryPackingIntListEncoder) Encode(values []int64) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	xs := values
	if e.sorted {
		xs = slices.Clone(values)
		slices.Sort(xs)
	}
	deltas := DeltaEncode(xs)
	rest := deltas[1:]

	var (
		vb  VByte
		frm FrameOfReference
	)
	bw := NewBitWriter(len(values) + 8)
	vb.WriteSigned(bw, deltas[0])
	vb.Write(bw, uint64(ceilDiv(len(rest), e.blockSize)))
	for block := range slices.Chunk(rest, e.blockSize) {
		frm.Write(bw, block)
	}
	bw.Close()
	return bw.Bytes(), nil
}

// Decode implements IntListCodec.
func (e *BinaryPackingIntListEncoder) Decode(buf []byte) ([]int64, error) {
	if len(buf) == 0 {
		return []int64{}, nil
	}
	var (
		vb  VByte
		frm FrameOfReference
	)
	br := NewBitReader(buf)
	first, err := vb.ReadSigned(br)
	if err != nil {
		return nil, fmt.Errorf("%w: first value: %w", ErrInvalidBuffer, err)
	}
	blockCount, err := vb.Read(br)
	if err != nil {
		return nil, fmt.Errorf("%w: block count: %w", ErrInvalidBuffer, err)
	}
	// Every frame needs at least its two header bytes.
	if blockCount > uint64(br.Remaining()/16) {
		return nil, fmt.Errorf("%w: block count %d exceeds buffer", ErrInvalidBuffer, blockCount)
	}

	deltas := make([]int64, 1, 1+min(int(blockCount)*e.blockSize, 1<<16))
	deltas[0] = first
	for i := range int(blockCount) {
		block, err := frm.Read(br)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if len(deltas)+len(block) > MaxDecodedLen {
			return nil, fmt.Errorf("%w: sequence exceeds %d values", ErrInvalidBuffer, MaxDecodedLen)
		}
		deltas = append(deltas, block...)
	}
	if err := validateTrailer(br); err != nil {
		return nil, err
	}
	return DeltaDecode(deltas), nil
}
