package intcodec

import (
	"fmt"
	"slices"
)

// BitWriter appends arbitrary-width unsigned bit fields to a byte buffer.
// Fields are stored most-significant bit first and may cross byte boundaries.
// The unused low-order bits of the final byte are always zero, so closing the
// writer only has to freeze it.
//
// A BitWriter is owned by a single encode call and is not safe for concurrent use.
type BitWriter struct {
	buf []byte
	// nbits is the total number of bits written so far.
	nbits  int
	closed bool
}

// NewBitWriter returns a writer whose buffer is pre-sized for sizeHint bytes.
func NewBitWriter(sizeHint int) *BitWriter {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &BitWriter{buf: make([]byte, 0, sizeHint)}
}

// Write appends the low-order n bits of value. n must be within [0, 64];
// writing zero bits is a no-op.
func (w *BitWriter) Write(value uint64, n int) {
	if w.closed {
		panic("intcodec: write to closed BitWriter")
	}
	if n < 0 || n > 64 {
		panic(fmt.Sprintf("intcodec: invalid bit count %d (must be within [0, 64])", n))
	}
	if n == 0 {
		return
	}
	if n < 64 {
		value &= (1 << n) - 1
	}

	remaining := n
	for remaining > 0 {
		used := w.nbits & 7
		if used == 0 {
			w.buf = append(w.buf, 0)
		}
		free := 8 - used
		take := min(free, remaining)
		chunk := byte(value>>(remaining-take)) & byte(1<<take-1)
		w.buf[len(w.buf)-1] |= chunk << (free - take)
		remaining -= take
		w.nbits += take
	}
}

// WriteInt appends the low-order n bits of a non-negative value. Negative
// values are a programming error: signed integers must be converted by the
// caller (for example through VByte.WriteSigned or a frame of reference).
func (w *BitWriter) WriteInt(value int64, n int) {
	if value < 0 {
		panic(fmt.Sprintf("intcodec: cannot write negative value %d as unsigned bit field", value))
	}
	w.Write(uint64(value), n)
}

// Close pads the last partial byte with zero bits and freezes the writer.
// Close is idempotent.
func (w *BitWriter) Close() {
	w.closed = true
}

// Bytes returns the accumulated bytes. The last byte is zero padded when the
// number of written bits is not a multiple of 8.
func (w *BitWriter) Bytes() []byte {
	return w.buf
}

// Len returns the number of bits written.
func (w *BitWriter) Len() int {
	return w.nbits
}

// AtByteBoundary reports whether the next field starts on a fresh byte.
func (w *BitWriter) AtByteBoundary() bool {
	return w.nbits&7 == 0
}

// AppendBytes appends whole bytes to a byte-aligned writer.
func (w *BitWriter) AppendBytes(b []byte) {
	if w.closed {
		panic("intcodec: write to closed BitWriter")
	}
	if !w.AtByteBoundary() {
		panic("intcodec: AppendBytes on unaligned BitWriter")
	}
	w.buf = slices.Grow(w.buf, len(b))
	w.buf = append(w.buf, b...)
	w.nbits += 8 * len(b)
}

// BitReader consumes arbitrary-width unsigned bit fields written by a BitWriter.
//
// A BitReader is owned by a single decode call and is not safe for concurrent use.
type BitReader struct {
	buf []byte
	// pos is the total number of bits consumed so far.
	pos int
}

// NewBitReader returns a reader positioned at the first bit of buf.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf}
}

// Read consumes the next n bits and returns them as an unsigned integer.
// If fewer than n bits remain, Read returns ErrInsufficientData and consumes
// nothing, so exhaustion is never mistaken for a zero field. Reading zero bits
// returns 0 without consuming input.
func (r *BitReader) Read(n int) (uint64, error) {
	if n < 0 || n > 64 {
		panic(fmt.Sprintf("intcodec: invalid bit count %d (must be within [0, 64])", n))
	}
	if n == 0 {
		return 0, nil
	}
	if n > r.Remaining() {
		return 0, fmt.Errorf("%w: need %d bits at bit offset %d, have %d",
			ErrInsufficientData, n, r.pos, r.Remaining())
	}

	var out uint64
	remaining := n
	for remaining > 0 {
		cur := r.buf[r.pos>>3]
		left := r.BitsLeftInByte()
		take := min(left, remaining)
		// Bits [left-1, left-take] of the current byte, counted from the LSB.
		out = out<<take | uint64(ExtractBits(cur, left-1, left-take))
		remaining -= take
		r.pos += take
	}
	return out, nil
}

// Position returns the number of bits consumed so far.
func (r *BitReader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bits, including trailing pad bits.
func (r *BitReader) Remaining() int {
	return len(r.buf)*8 - r.pos
}

// BitsLeftInByte returns how many unread bits are left in the current byte
// (8 when positioned on a byte boundary).
func (r *BitReader) BitsLeftInByte() int {
	return 8 - r.pos&7
}

// AtByteBoundary reports whether the next read starts on a fresh byte.
func (r *BitReader) AtByteBoundary() bool {
	return r.pos&7 == 0
}

// AlignToByte skips the pad bits up to the next byte boundary.
func (r *BitReader) AlignToByte() {
	if !r.AtByteBoundary() {
		r.pos += r.BitsLeftInByte()
	}
}

// Offset returns the index of the byte holding the next unread bit.
func (r *BitReader) Offset() int {
	return r.pos >> 3
}

// Skip advances the reader by whole bytes on a byte-aligned stream.
func (r *BitReader) Skip(nbytes int) error {
	if !r.AtByteBoundary() {
		panic("intcodec: Skip on unaligned BitReader")
	}
	if nbytes < 0 || nbytes*8 > r.Remaining() {
		return fmt.Errorf("%w: cannot skip %d bytes, have %d bits",
			ErrInsufficientData, nbytes, r.Remaining())
	}
	r.pos += nbytes * 8
	return nil
}
