package intcodec

import "errors"

// ErrInvalidBuffer is returned when an encoded buffer is malformed or truncated.
var ErrInvalidBuffer = errors.New("intcodec: invalid buffer")

// ErrInsufficientData is returned by BitReader when the stream ends before the
// requested number of bits could be read.
var ErrInsufficientData = errors.New("intcodec: insufficient data")

// ErrOverflow is returned when a VByte integer does not fit in 64 bits.
var ErrOverflow = errors.New("intcodec: varint overflows 64 bits")

// ErrInvalidSliceSize is returned when a permutation slice size is unsupported.
var ErrInvalidSliceSize = errors.New("intcodec: invalid slice size")

// ErrInvalidBlockSize is returned when a block size is not positive.
var ErrInvalidBlockSize = errors.New("intcodec: invalid block size")

// ErrInvalidSortOrder is returned when a sort order or ordering is not part
// of the permutation table.
var ErrInvalidSortOrder = errors.New("intcodec: invalid sort order")

// ErrValueRange is returned when a value cannot be represented by a codec.
var ErrValueRange = errors.New("intcodec: value out of range")

// ErrChecksum is returned when a compressed payload fails verification.
var ErrChecksum = errors.New("intcodec: checksum mismatch")

// ErrUnknownCodec is returned by New for unregistered codec names.
var ErrUnknownCodec = errors.New("intcodec: unknown codec")

// ErrNotLoaded is returned when Reader operations are called before Load().
var ErrNotLoaded = errors.New("intcodec: reader not loaded")

// ErrPositionOutOfRange is returned when accessing a position beyond the sequence.
var ErrPositionOutOfRange = errors.New("intcodec: position out of range")
