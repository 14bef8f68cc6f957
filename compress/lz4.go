package compress

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table
// between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// maxLZ4DecompressedSize caps the adaptive decompression buffer.
const maxLZ4DecompressedSize = 128 * 1024 * 1024

// LZ4Compressor provides LZ4 block compression.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Type implements Codec.
func (c LZ4Compressor) Type() Type {
	return LZ4
}

// Compress compresses data into a single LZ4 block. Incompressible input
// is returned as an empty block by the lz4 package; it is stored verbatim
// behind a zero marker byte instead.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, 1+lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 {
		dst[0] = 0
		return append(dst[:1], data...), nil
	}
	dst[0] = 1

	return dst[:1+n], nil
}

// Decompress decompresses a block produced by Compress. The decompressed size
// is unknown, so the buffer starts at four times the input and doubles on
// ErrInvalidSourceShortBuffer up to the largest size the input can expand to.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == 0 {
		return append([]byte(nil), data[1:]...), nil
	}
	data = data[1:]

	// LZ4 cannot expand a block by more than a factor of 255.
	limit := min(maxLZ4DecompressedSize, 255*len(data)+64)
	bufSize := min(max(len(data)*4, 64), limit)
	for {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) || bufSize == limit {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		bufSize = min(bufSize*2, limit)
	}
}
