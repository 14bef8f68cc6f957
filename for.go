package intcodec

import (
	"fmt"
	"slices"
)

// MaxDecodedLen bounds the number of integers a single decode may produce so
// that a corrupt count cannot trigger an unbounded allocation.
const MaxDecodedLen = 1 << 26

// FixedCountFOR bit-packs a block of integers whose length is known from
// context (for example a fixed slice size). The block is written as
//
//	[min: signed VByte][width: VByte][count x width-bit offsets]
//
// where every offset is value-min. A width of 0 means every value equals min.
// Nothing at all is written for an empty block.
type FixedCountFOR struct{}

// Write packs ints, which must hold exactly count values.
func (FixedCountFOR) Write(bw *BitWriter, ints []int64, count int) {
	if len(ints) != count {
		panic(fmt.Sprintf("intcodec: frame of reference expects %d values, got %d", count, len(ints)))
	}
	if count == 0 {
		return
	}
	writeFrame(bw, ints, nil)
}

// Read unpacks exactly count values. A zero count reads nothing.
func (FixedCountFOR) Read(br *BitReader, count int) ([]int64, error) {
	if count < 0 || count > MaxDecodedLen {
		return nil, fmt.Errorf("%w: invalid frame length %d", ErrInvalidBuffer, count)
	}
	if count == 0 {
		return []int64{}, nil
	}
	var vb VByte
	minValue, err := vb.ReadSigned(br)
	if err != nil {
		return nil, fmt.Errorf("%w: frame minimum: %w", ErrInvalidBuffer, err)
	}
	return readOffsets(br, minValue, count)
}

// FrameOfReference is the self-describing variant of FixedCountFOR. It stores
// the element count between the minimum and the bit width:
//
//	[min: signed VByte][count: VByte][width: VByte][count x width-bit offsets]
//
// An empty block is written as min=0, count=0 with no width.
type FrameOfReference struct{}

// Write packs ints together with their count.
func (FrameOfReference) Write(bw *BitWriter, ints []int64) {
	var vb VByte
	if len(ints) == 0 {
		vb.WriteSigned(bw, 0)
		vb.Write(bw, 0)
		return
	}
	writeFrame(bw, ints, func() { vb.Write(bw, uint64(len(ints))) })
}

// Read unpacks a block written by FrameOfReference.Write.
func (FrameOfReference) Read(br *BitReader) ([]int64, error) {
	var vb VByte
	minValue, err := vb.ReadSigned(br)
	if err != nil {
		return nil, fmt.Errorf("%w: frame minimum: %w", ErrInvalidBuffer, err)
	}
	count, err := vb.Read(br)
	if err != nil {
		return nil, fmt.Errorf("%w: frame length: %w", ErrInvalidBuffer, err)
	}
	if count > MaxDecodedLen {
		return nil, fmt.Errorf("%w: invalid frame length %d", ErrInvalidBuffer, count)
	}
	if count == 0 {
		return []int64{}, nil
	}
	return readOffsets(br, minValue, int(count))
}

// writeFrame writes the minimum, the optional count header, the width and the
// packed offsets of a non-empty block.
func writeFrame(bw *BitWriter, ints []int64, writeCount func()) {
	var vb VByte
	minValue := slices.Min(ints)
	offsets := make([]uint64, len(ints))
	for i, v := range ints {
		// Modular subtraction keeps offsets exact across the full int64 range.
		offsets[i] = uint64(v) - uint64(minValue)
	}
	width := requiredBitWidth(offsets)

	vb.WriteSigned(bw, minValue)
	if writeCount != nil {
		writeCount()
	}
	vb.Write(bw, uint64(width))
	for _, off := range offsets {
		bw.Write(off, width)
	}
}

// readOffsets reads the width header and count packed offsets relative to minValue.
func readOffsets(br *BitReader, minValue int64, count int) ([]int64, error) {
	var vb VByte
	width, err := vb.Read(br)
	if err != nil {
		return nil, fmt.Errorf("%w: frame width: %w", ErrInvalidBuffer, err)
	}
	if width > 64 {
		return nil, fmt.Errorf("%w: frame width %d exceeds 64 bits", ErrInvalidBuffer, width)
	}
	w := int(width)
	if w > 0 && count > br.Remaining()/w {
		return nil, fmt.Errorf("%w: frame of %d x %d bits truncated (have %d bits)",
			ErrInvalidBuffer, count, w, br.Remaining())
	}

	out := make([]int64, count)
	for i := range out {
		off, err := br.Read(w)
		if err != nil {
			return nil, fmt.Errorf("%w: frame offset %d: %w", ErrInvalidBuffer, i, err)
		}
		out[i] = int64(uint64(minValue) + off)
	}
	return out, nil
}
