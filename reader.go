package intcodec

import "slices"

// Reader provides random access to a sequence encoded by any IntListCodec.
// The buffer is decoded once on Load; Get, Next and SkipTo then work on the
// decoded values.
// A Reader is not safe for concurrent use. Create multiple readers from
// the same buffer if concurrent access is needed.
type Reader struct {
	codec IntListCodec

	// values holds the decoded sequence (decoded once on Load)
	values []int64

	// pos is the current position for sequential iteration (0-based)
	pos int

	// isSorted indicates if the decoded sequence is non-decreasing
	isSorted bool

	// loaded indicates if the reader has been loaded with data
	loaded bool
}

// NewReader creates an empty Reader for buffers produced by codec. It must be
// loaded with Load() before use.
func NewReader(codec IntListCodec) *Reader {
	return &Reader{codec: codec}
}

// Load decodes buf into the reader.
// This resets all internal state and can be called multiple times to reuse the reader.
// On error the reader is left unloaded.
func (r *Reader) Load(buf []byte) error {
	r.loaded = false
	r.pos = 0
	values, err := r.codec.Decode(buf)
	if err != nil {
		return err
	}

	r.values = values
	r.isSorted = slices.IsSorted(values)
	r.loaded = true
	return nil
}

// IsLoaded returns whether the reader has been loaded with data.
func (r *Reader) IsLoaded() bool {
	return r.loaded
}

// Len returns the number of decoded values.
func (r *Reader) Len() int {
	if !r.loaded {
		return 0
	}
	return len(r.values)
}

// Pos returns the current position for sequential iteration.
func (r *Reader) Pos() int {
	return r.pos
}

// Reset resets the reader position to the beginning for sequential iteration.
func (r *Reader) Reset() {
	r.pos = 0
}

// Get returns the value at the specified position.
// Returns an error if the reader is not loaded or pos is out of range.
func (r *Reader) Get(pos int) (int64, error) {
	if !r.loaded {
		return 0, ErrNotLoaded
	}
	if pos < 0 || pos >= len(r.values) {
		return 0, ErrPositionOutOfRange
	}
	return r.values[pos], nil
}

// GetSafe returns the value at the specified position and whether the position is valid.
func (r *Reader) GetSafe(pos int) (int64, bool) {
	val, err := r.Get(pos)
	return val, err == nil
}

// Next returns the next value in sequence and its position.
// Returns (0, 0, false) if not loaded or no more elements.
func (r *Reader) Next() (value int64, pos int, ok bool) {
	if !r.loaded || r.pos >= len(r.values) {
		return 0, 0, false
	}
	value, pos = r.values[r.pos], r.pos
	r.pos++
	return value, pos, true
}

// SkipTo advances to and returns the first value >= req at or after the
// current position. Sorted sequences (for example everything decoded by the
// binary packing codec) are searched with binary search, others linearly.
func (r *Reader) SkipTo(req int64) (value int64, pos int, ok bool) {
	if !r.loaded || len(r.values) == 0 {
		return 0, 0, false
	}
	if r.isSorted {
		return r.skipToBinarySearch(req)
	}
	return r.skipToLinear(req)
}

func (r *Reader) skipToBinarySearch(req int64) (value int64, pos int, ok bool) {
	if r.pos >= len(r.values) {
		return 0, 0, false
	}
	idx, _ := slices.BinarySearch(r.values[r.pos:], req)
	absPos := r.pos + idx
	if absPos >= len(r.values) {
		r.pos = len(r.values)
		return 0, 0, false
	}
	r.pos = absPos + 1
	return r.values[absPos], absPos, true
}

func (r *Reader) skipToLinear(req int64) (value int64, pos int, ok bool) {
	for r.pos < len(r.values) {
		v, p := r.values[r.pos], r.pos
		r.pos++
		if v >= req {
			return v, p, true
		}
	}
	return 0, 0, false
}

// Decode copies all decoded values into the provided destination slice.
// If dst has insufficient capacity, a new slice is allocated.
// Returns nil if the reader is not loaded.
func (r *Reader) Decode(dst []int64) []int64 {
	if !r.loaded {
		return nil
	}
	if cap(dst) < len(r.values) {
		dst = make([]int64, len(r.values))
	} else {
		dst = dst[:len(r.values)]
	}
	copy(dst, r.values)
	return dst
}

// IsSorted returns whether the decoded sequence is non-decreasing.
func (r *Reader) IsSorted() bool {
	return r.isSorted
}
