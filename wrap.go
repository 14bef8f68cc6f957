package intcodec

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/Akron/intcodec-go/compress"
)

// checksumBits is the width of the xxHash64 checksum field.
const checksumBits = 64

// CompressedIntListEncoder layers a general-purpose compressor on top of
// another codec. The inner encoding is compressed and framed as
//
//	[raw_len: VByte][xxhash64(raw): 64 bits][compressed payload]
//
// so that Decode can verify what it hands to the inner codec. Ordering
// guarantees are those of the inner codec; empty input stays empty.
type CompressedIntListEncoder struct {
	inner      IntListCodec
	compressor compress.Codec
}

var _ IntListCodec = (*CompressedIntListEncoder)(nil)

// NewCompressedIntListEncoder wraps inner with the given compressor.
func NewCompressedIntListEncoder(inner IntListCodec, compressor compress.Codec) *CompressedIntListEncoder {
	return &CompressedIntListEncoder{inner: inner, compressor: compressor}
}

// Name implements IntListCodec. The name is "<inner>+<compression>".
func (e *CompressedIntListEncoder) Name() string {
	return e.inner.Name() + "+" + e.compressor.Type().String()
}

// Inner returns the wrapped codec.
func (e *CompressedIntListEncoder) Inner() IntListCodec {
	return e.inner
}

// Encode implements IntListCodec.
func (e *CompressedIntListEncoder) Encode(values []int64) ([]byte, error) {
	raw, err := e.inner.Encode(values)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []byte{}, nil
	}
	payload, err := e.compressor.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("intcodec: %s compression: %w", e.compressor.Type(), err)
	}

	var vb VByte
	bw := NewBitWriter(len(payload) + 16)
	vb.Write(bw, uint64(len(raw)))
	bw.Write(xxhash.Sum64(raw), checksumBits)
	bw.AppendBytes(payload)
	bw.Close()
	return bw.Bytes(), nil
}

// Decode implements IntListCodec.
func (e *CompressedIntListEncoder) Decode(buf []byte) ([]int64, error) {
	if len(buf) == 0 {
		return []int64{}, nil
	}
	var vb VByte
	br := NewBitReader(buf)
	rawLen, err := vb.Read(br)
	if err != nil {
		return nil, fmt.Errorf("%w: raw length: %w", ErrInvalidBuffer, err)
	}
	sum, err := br.Read(checksumBits)
	if err != nil {
		return nil, fmt.Errorf("%w: checksum: %w", ErrInvalidBuffer, err)
	}

	raw, err := e.compressor.Decompress(buf[br.Offset():])
	if err != nil {
		return nil, fmt.Errorf("%w: %s decompression: %w", ErrInvalidBuffer, e.compressor.Type(), err)
	}
	if uint64(len(raw)) != rawLen {
		return nil, fmt.Errorf("%w: decompressed %d bytes, header says %d", ErrInvalidBuffer, len(raw), rawLen)
	}
	if got := xxhash.Sum64(raw); got != sum {
		return nil, fmt.Errorf("%w: got %#016x, want %#016x", ErrChecksum, got, sum)
	}
	return e.inner.Decode(raw)
}
