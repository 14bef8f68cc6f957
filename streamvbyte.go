package intcodec

import (
	"fmt"
	"math"

	"github.com/mhr3/streamvbyte"
)

// svbControlBlockSizeLUT is a precomputed lookup table for StreamVByte control byte sizes.
// Each control byte encodes lengths for 4 values (2 bits each, code+1 = byte length).
// Entry i = sum of byte lengths for all 4 values encoded in control byte i.
var svbControlBlockSizeLUT [256]uint8

func init() {
	for ctrl := range 256 {
		// Sum of (code+1) for all 4 values
		size := (ctrl & 0x03) + ((ctrl >> 2) & 0x03) + ((ctrl >> 4) & 0x03) + (ctrl >> 6) + 4
		svbControlBlockSizeLUT[ctrl] = uint8(size)
	}
}

// svbEncodedLen returns the number of bytes a StreamVByte stream of count
// values occupies at the start of svbData, or false if the control bytes are
// truncated. Control bytes come first (one per 4 values), then the data bytes.
func svbEncodedLen(svbData []byte, count int) (int, bool) {
	numControlBytes := (count + 3) >> 2
	if len(svbData) < numControlBytes {
		return 0, false
	}
	size := numControlBytes
	full := count >> 2
	for _, ctrl := range svbData[:full] {
		size += int(svbControlBlockSizeLUT[ctrl])
	}
	// The last control byte may describe fewer than 4 values.
	if tail := count & 0x03; tail > 0 {
		ctrl := svbData[full]
		for i := range tail {
			size += int((ctrl>>(i*2))&0x03) + 1
		}
	}
	return size, true
}

// StreamVByteIntListEncoder is an order-preserving baseline codec: consecutive
// deltas are zigzag-encoded and stored with StreamVByte, which spends whole
// bytes per value but decodes very quickly.
//
//	[count: VByte][first: signed VByte][StreamVByte(zigzag(deltas[1:]))]
//
// Every delta must fit in an int32.
type StreamVByteIntListEncoder struct{}

var _ IntListCodec = (*StreamVByteIntListEncoder)(nil)

// NewStreamVByteIntListEncoder returns the StreamVByte baseline codec.
func NewStreamVByteIntListEncoder() *StreamVByteIntListEncoder {
	return &StreamVByteIntListEncoder{}
}

// Name implements IntListCodec.
func (e *StreamVByteIntListEncoder) Name() string {
	return NameStreamVByte
}

// Encode implements IntListCodec. It returns ErrValueRange when two
// neighbouring values differ by more than an int32 can hold.
func (e *StreamVByteIntListEncoder) Encode(values []int64) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	deltas := DeltaEncode(values)
	zigzag := make([]uint32, len(deltas)-1)
	for i, d := range deltas[1:] {
		// Wrapped deltas are caught here as well: the true difference of two
		// int64 values can only wrap if it is far outside the int32 range.
		if d < math.MinInt32 || d > math.MaxInt32 || (values[i+1] > values[i]) != (d > 0) {
			return nil, fmt.Errorf("%w: delta between positions %d and %d does not fit 32 bits",
				ErrValueRange, i, i+1)
		}
		zigzag[i] = uint32(zigzagEncode64(d))
	}

	var vb VByte
	bw := NewBitWriter(2*len(values) + 8)
	vb.Write(bw, uint64(len(values)))
	vb.WriteSigned(bw, deltas[0])
	if len(zigzag) > 0 {
		bw.AppendBytes(streamvbyte.EncodeUint32(zigzag, nil))
	}
	bw.Close()
	return bw.Bytes(), nil
}

// Decode implements IntListCodec.
func (e *StreamVByteIntListEncoder) Decode(buf []byte) ([]int64, error) {
	if len(buf) == 0 {
		return []int64{}, nil
	}
	var vb VByte
	br := NewBitReader(buf)
	count, err := vb.Read(br)
	if err != nil {
		return nil, fmt.Errorf("%w: count: %w", ErrInvalidBuffer, err)
	}
	first, err := vb.ReadSigned(br)
	if err != nil {
		return nil, fmt.Errorf("%w: first value: %w", ErrInvalidBuffer, err)
	}
	// Every delta takes at least one data byte.
	if count == 0 || count-1 > uint64(br.Remaining()/8) {
		return nil, fmt.Errorf("%w: invalid count %d", ErrInvalidBuffer, count)
	}

	rest := int(count) - 1
	out := make([]int64, 1, count)
	out[0] = first
	if rest == 0 {
		if err := validateTrailer(br); err != nil {
			return nil, err
		}
		return out, nil
	}

	svbData := buf[br.Offset():]
	size, ok := svbEncodedLen(svbData, rest)
	if !ok || size > len(svbData) {
		return nil, fmt.Errorf("%w: truncated StreamVByte data (need %d bytes, got %d)",
			ErrInvalidBuffer, size, len(svbData))
	}
	if size < len(svbData) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidBuffer, len(svbData)-size)
	}

	zigzag := streamvbyte.DecodeUint32(svbData, rest, nil)
	for _, z := range zigzag {
		out = append(out, int64(zigzagDecode64(uint64(z))))
	}
	return DeltaDecode(out), nil
}
