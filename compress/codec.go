// Package compress provides general-purpose byte compressors that can be
// layered on top of an intcodec encoding.
//
// The integer codecs remove the structure of a sequence (ordering, deltas,
// shared bit widths); the compressors here remove what is left, typically
// repeated byte patterns in long encodings. All compressors are stateless
// values and safe for concurrent use; encoder and decoder state is pooled
// internally.
package compress

import (
	"fmt"
	"strings"
)

// Type identifies a compression algorithm.
type Type uint8

const (
	None Type = 0x1 // None stores data unchanged.
	Zstd Type = 0x2 // Zstd is Zstandard compression.
	S2   Type = 0x3 // S2 is the Snappy-compatible S2 compression.
	LZ4  Type = 0x4 // LZ4 is LZ4 block compression.
)

// String returns the lower-case name of the compression type.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// ParseType converts a compression name (case-insensitive) into a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "s2":
		return S2, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("unsupported compression type: %q", name)
	}
}

// Compressor compresses byte slices.
type Compressor interface {
	// Compress returns the compressed form of data. The returned slice is
	// owned by the caller; data is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores data produced by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original bytes, or an error if data is corrupt
	// or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions and reports its algorithm.
type Codec interface {
	Compressor
	Decompressor
	Type() Type
}

var builtinCodecs = map[Type]Codec{
	None: NewNoOpCompressor(),
	Zstd: NewZstdCompressor(),
	S2:   NewS2Compressor(),
	LZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the compression type.
func GetCodec(t Type) (Codec, error) {
	if codec, ok := builtinCodecs[t]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", t)
}
