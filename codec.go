// Package intcodec implements a family of integer-sequence compression codecs.
//
// Sequences of int64 values are delta coded, cut into blocks or small slices
// and bit-packed with a frame of reference (one shared minimum and one shared
// bit width per block). Headers and counts use self-delimiting VByte
// integers. The order-preserving codecs additionally sort every slice and
// record how it was reordered as a single sort order: the rank of the slice's
// permutation among all SliceSize! permutations, looked up in an immutable
// PermutationTable.
//
// All codecs share the IntListCodec interface. An empty sequence always
// encodes to an empty byte string. Codecs hold no mutable state and may be
// used concurrently; the package maintains no global mutable state besides
// the lazily built, read-only permutation tables.
package intcodec

import (
	"fmt"
	"slices"

	"github.com/Akron/intcodec-go/compress"
)

// DefaultBlockSize is the default number of deltas per frame-of-reference block.
const DefaultBlockSize = 128

// Codec names understood by New.
const (
	NameBinaryPacking = "binpack"
	NameSortedFOR     = "sortedfor"
	NameSortedFOR2    = "sortedfor2"
	NameSortedBlock   = "sortedblock"
	NameStreamVByte   = "streamvbyte"
)

// IntListCodec encodes integer sequences into opaque byte strings and back.
type IntListCodec interface {
	// Name identifies the codec (and its wrapper, if any).
	Name() string
	// Encode serializes values. The input slice is not modified.
	Encode(values []int64) ([]byte, error)
	// Decode parses a buffer produced by Encode.
	Decode(buf []byte) ([]int64, error)
}

// Options configures codecs created by New. Zero fields select defaults.
type Options struct {
	// SliceSize is the permutation slice size of the order-preserving codecs.
	SliceSize int
	// BlockSize is the number of integers per frame-of-reference block.
	BlockSize int
	// Unsorted disables the initial sort of the binary packing codec, which
	// then preserves the input order at the cost of signed deltas.
	Unsorted bool
	// Compression wraps the codec in a CompressedIntListEncoder unless it is
	// zero or compress.None.
	Compression compress.Type
}

func (o Options) withDefaults() Options {
	if o.SliceSize == 0 {
		o.SliceSize = DefaultSliceSize
	}
	if o.BlockSize == 0 {
		o.BlockSize = DefaultBlockSize
	}
	return o
}

// Names returns the registered codec names in a stable order.
func Names() []string {
	return []string{NameBinaryPacking, NameSortedFOR, NameSortedFOR2, NameSortedBlock, NameStreamVByte}
}

// New creates the codec registered under name, wrapped in the configured
// compression if any.
func New(name string, opts Options) (IntListCodec, error) {
	opts = opts.withDefaults()
	codec, err := newBase(name, opts)
	if err != nil {
		return nil, err
	}
	if opts.Compression == 0 || opts.Compression == compress.None {
		return codec, nil
	}
	compressor, err := compress.GetCodec(opts.Compression)
	if err != nil {
		return nil, fmt.Errorf("intcodec: %w", err)
	}
	return NewCompressedIntListEncoder(codec, compressor), nil
}

// MustNew is like New but panics if the codec cannot be created. It is meant
// for package-level codec variables with fixed options.
func MustNew(name string, opts Options) IntListCodec {
	codec, err := New(name, opts)
	if err != nil {
		panic(err)
	}
	return codec
}

func newBase(name string, opts Options) (IntListCodec, error) {
	switch name {
	case NameBinaryPacking:
		e, err := NewBinaryPackingIntListEncoder(opts.BlockSize, !opts.Unsorted)
		if err != nil {
			return nil, err
		}
		return e, nil
	case NameSortedFOR:
		e, err := NewSortedFrameOfReferenceIntListEncoder(opts.SliceSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case NameSortedFOR2:
		e, err := NewSortedFrameOfReferenceIntListEncoder2(opts.SliceSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case NameSortedBlock:
		e, err := NewSortedBlockEncoder(opts.SliceSize, opts.BlockSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case NameStreamVByte:
		return NewStreamVByteIntListEncoder(), nil
	default:
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownCodec, name, Names())
	}
}

// IsOrderPreserving reports whether Decode(Encode(xs)) reproduces xs in its
// original order for the named codec and options.
func IsOrderPreserving(name string, opts Options) bool {
	if name == NameBinaryPacking {
		return opts.Unsorted
	}
	return slices.Contains(Names(), name)
}

// validateTrailer checks that only zero pad bits of the final byte remain.
func validateTrailer(br *BitReader) error {
	n := br.Remaining()
	if n >= 8 {
		return fmt.Errorf("%w: %d trailing bytes", ErrInvalidBuffer, n/8)
	}
	pad, err := br.Read(n)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBuffer, err)
	}
	if pad != 0 {
		return fmt.Errorf("%w: non-zero padding bits", ErrInvalidBuffer)
	}
	return nil
}

// ceilDiv returns ceil(n/d) for non-negative n and positive d.
func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
