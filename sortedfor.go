package intcodec

import "fmt"

// sortedColumns is the decomposed form of a sequence shared by the
// order-preserving codecs. The sequence is delta-encoded in input order; the
// first value moves to the header and the remaining deltas (with a leading 0
// standing in for the first) are cut into slices of SliceSize, the last one
// zero-padded. Each slice is sorted and delta-encoded again: its smallest
// value becomes the slice start, its permutation becomes a sort order and the
// SliceSize-1 non-negative gaps go to deltas.
type sortedColumns struct {
	first      int64
	total      int
	starts     []int64
	sortOrders []int64
	deltas     []int64
}

func (c *sortedColumns) sliceCount() int {
	return len(c.starts)
}

// decomposeInts splits values into the columnar form.
func decomposeInts(values []int64, table *PermutationTable) sortedColumns {
	size := table.SliceSize()
	deltas := DeltaEncode(values)
	cols := sortedColumns{first: deltas[0], total: len(values)}
	deltas[0] = 0

	sliceCount := ceilDiv(len(deltas), size)
	padded := make([]int64, sliceCount*size)
	copy(padded, deltas)

	cols.starts = make([]int64, sliceCount)
	cols.sortOrders = make([]int64, sliceCount)
	cols.deltas = make([]int64, 0, sliceCount*(size-1))
	for i := range sliceCount {
		sorted, ordering := SortAndIdentifyOrdering(padded[i*size : (i+1)*size])
		sortOrder, err := table.SortOrder(ordering)
		if err != nil {
			// SortAndIdentifyOrdering always yields a valid permutation.
			panic(fmt.Sprintf("intcodec: slice %d: %v", i, err))
		}
		gaps := DeltaEncode(sorted)
		cols.starts[i] = gaps[0]
		cols.sortOrders[i] = int64(sortOrder)
		cols.deltas = append(cols.deltas, gaps[1:]...)
	}
	return cols
}

// composeInts rebuilds the original sequence from its columnar form.
func composeInts(cols sortedColumns, table *PermutationTable) ([]int64, error) {
	size := table.SliceSize()
	sliceCount := cols.sliceCount()
	if len(cols.sortOrders) != sliceCount || len(cols.deltas) != sliceCount*(size-1) {
		return nil, fmt.Errorf("%w: column lengths %d/%d/%d do not match %d slices",
			ErrInvalidBuffer, len(cols.starts), len(cols.sortOrders), len(cols.deltas), sliceCount)
	}

	out := make([]int64, 0, sliceCount*size)
	gaps := make([]int64, size)
	for i := range sliceCount {
		if cols.sortOrders[i] < 1 || cols.sortOrders[i] > int64(table.Len()) {
			return nil, fmt.Errorf("%w: slice %d: sort order %d", ErrInvalidBuffer, i, cols.sortOrders[i])
		}
		ordering, err := table.Ordering(int(cols.sortOrders[i]))
		if err != nil {
			return nil, fmt.Errorf("%w: slice %d: sort order %d", ErrInvalidBuffer, i, cols.sortOrders[i])
		}
		gaps[0] = cols.starts[i]
		copy(gaps[1:], cols.deltas[i*(size-1):(i+1)*(size-1)])
		sorted := DeltaDecode(gaps)
		out = append(out, Reorder(sorted, InverseOrdering(ordering))...)
	}
	out = out[:cols.total]
	out[0] = cols.first
	return DeltaDecode(out), nil
}

// writeSortedHeader writes [first: signed VByte][total: VByte][slice_count: VByte].
func writeSortedHeader(bw *BitWriter, cols *sortedColumns) {
	var vb VByte
	vb.WriteSigned(bw, cols.first)
	vb.Write(bw, uint64(cols.total))
	vb.Write(bw, uint64(cols.sliceCount()))
}

// readSortedHeader reads and validates the common header. The pad count
// slice_count*SliceSize - total must lie in [0, SliceSize).
func readSortedHeader(br *BitReader, sliceSize int) (first int64, total, sliceCount int, err error) {
	var vb VByte
	if first, err = vb.ReadSigned(br); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: first value: %w", ErrInvalidBuffer, err)
	}
	t, err := vb.Read(br)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: total count: %w", ErrInvalidBuffer, err)
	}
	s, err := vb.Read(br)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: slice count: %w", ErrInvalidBuffer, err)
	}
	if t == 0 || t > MaxDecodedLen || s != uint64(ceilDiv(int(t), sliceSize)) {
		return 0, 0, 0, fmt.Errorf("%w: %d values cannot fill %d slices of %d",
			ErrInvalidBuffer, t, s, sliceSize)
	}
	return first, int(t), int(s), nil
}

// SortedFrameOfReferenceIntListEncoder is the order-preserving codec with the
// interleaved ("v1") layout. After the common header every slice is written
// on its own:
//
//	[first: signed VByte][total: VByte][slice_count: VByte]
//	slice_count x [slice_start: signed VByte][sort_order: Bits() bits][FixedCountFOR(SliceSize-1)]
type SortedFrameOfReferenceIntListEncoder struct {
	table *PermutationTable
}

var _ IntListCodec = (*SortedFrameOfReferenceIntListEncoder)(nil)

// NewSortedFrameOfReferenceIntListEncoder returns the v1 codec for sliceSize.
func NewSortedFrameOfReferenceIntListEncoder(sliceSize int) (*SortedFrameOfReferenceIntListEncoder, error) {
	table, err := PermutationTableFor(sliceSize)
	if err != nil {
		return nil, err
	}
	return &SortedFrameOfReferenceIntListEncoder{table: table}, nil
}

// Name implements IntListCodec.
func (e *SortedFrameOfReferenceIntListEncoder) Name() string {
	return NameSortedFOR
}

// Encode implements IntListCodec.
func (e *SortedFrameOfReferenceIntListEncoder) Encode(values []int64) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	var (
		vb  VByte
		frm FixedCountFOR
	)
	size := e.table.SliceSize()
	cols := decomposeInts(values, e.table)
	bw := NewBitWriter(len(values) + 8)
	writeSortedHeader(bw, &cols)
	for i := range cols.sliceCount() {
		vb.WriteSigned(bw, cols.starts[i])
		bw.WriteInt(cols.sortOrders[i], e.table.Bits())
		frm.Write(bw, cols.deltas[i*(size-1):(i+1)*(size-1)], size-1)
	}
	bw.Close()
	return bw.Bytes(), nil
}

// Decode implements IntListCodec.
func (e *SortedFrameOfReferenceIntListEncoder) Decode(buf []byte) ([]int64, error) {
	if len(buf) == 0 {
		return []int64{}, nil
	}
	var (
		vb  VByte
		frm FixedCountFOR
	)
	size := e.table.SliceSize()
	br := NewBitReader(buf)
	first, total, sliceCount, err := readSortedHeader(br, size)
	if err != nil {
		return nil, err
	}
	// Each slice needs at least a start byte and its sort order bits.
	if sliceCount > br.Remaining()/(8+e.table.Bits()) {
		return nil, fmt.Errorf("%w: %d slices exceed buffer", ErrInvalidBuffer, sliceCount)
	}

	cols := sortedColumns{
		first:      first,
		total:      total,
		starts:     make([]int64, sliceCount),
		sortOrders: make([]int64, sliceCount),
		deltas:     make([]int64, 0, sliceCount*(size-1)),
	}
	for i := range sliceCount {
		if cols.starts[i], err = vb.ReadSigned(br); err != nil {
			return nil, fmt.Errorf("%w: slice %d start: %w", ErrInvalidBuffer, i, err)
		}
		sortOrder, err := br.Read(e.table.Bits())
		if err != nil {
			return nil, fmt.Errorf("%w: slice %d sort order: %w", ErrInvalidBuffer, i, err)
		}
		cols.sortOrders[i] = int64(sortOrder)
		gaps, err := frm.Read(br, size-1)
		if err != nil {
			return nil, fmt.Errorf("slice %d: %w", i, err)
		}
		cols.deltas = append(cols.deltas, gaps...)
	}
	if err := validateTrailer(br); err != nil {
		return nil, err
	}
	return composeInts(cols, e.table)
}

// SortedFrameOfReferenceIntListEncoder2 is the order-preserving codec with
// the columnar ("v2") layout: all slice starts, all sort orders and all
// in-slice deltas are each packed as one frame of reference.
//
//	[first: signed VByte][total: VByte][slice_count: VByte]
//	[FixedCountFOR(slice_count) starts][FixedCountFOR(slice_count) sort orders]
//	[FixedCountFOR(slice_count*(SliceSize-1)) deltas]
type SortedFrameOfReferenceIntListEncoder2 struct {
	table *PermutationTable
}

var _ IntListCodec = (*SortedFrameOfReferenceIntListEncoder2)(nil)

// NewSortedFrameOfReferenceIntListEncoder2 returns the v2 codec for sliceSize.
func NewSortedFrameOfReferenceIntListEncoder2(sliceSize int) (*SortedFrameOfReferenceIntListEncoder2, error) {
	table, err := PermutationTableFor(sliceSize)
	if err != nil {
		return nil, err
	}
	return &SortedFrameOfReferenceIntListEncoder2{table: table}, nil
}

// Name implements IntListCodec.
func (e *SortedFrameOfReferenceIntListEncoder2) Name() string {
	return NameSortedFOR2
}

// Encode implements IntListCodec.
func (e *SortedFrameOfReferenceIntListEncoder2) Encode(values []int64) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	var frm FixedCountFOR
	cols := decomposeInts(values, e.table)
	bw := NewBitWriter(len(values) + 8)
	writeSortedHeader(bw, &cols)
	frm.Write(bw, cols.starts, len(cols.starts))
	frm.Write(bw, cols.sortOrders, len(cols.sortOrders))
	frm.Write(bw, cols.deltas, len(cols.deltas))
	bw.Close()
	return bw.Bytes(), nil
}

// Decode implements IntListCodec.
func (e *SortedFrameOfReferenceIntListEncoder2) Decode(buf []byte) ([]int64, error) {
	if len(buf) == 0 {
		return []int64{}, nil
	}
	var frm FixedCountFOR
	size := e.table.SliceSize()
	br := NewBitReader(buf)
	first, total, sliceCount, err := readSortedHeader(br, size)
	if err != nil {
		return nil, err
	}

	cols := sortedColumns{first: first, total: total}
	if cols.starts, err = frm.Read(br, sliceCount); err != nil {
		return nil, fmt.Errorf("slice starts: %w", err)
	}
	if cols.sortOrders, err = frm.Read(br, sliceCount); err != nil {
		return nil, fmt.Errorf("sort orders: %w", err)
	}
	if cols.deltas, err = frm.Read(br, sliceCount*(size-1)); err != nil {
		return nil, fmt.Errorf("slice deltas: %w", err)
	}
	if err := validateTrailer(br); err != nil {
		return nil, err
	}
	return composeInts(cols, e.table)
}

// SortedBlockEncoder is the columnar order-preserving codec with a second
// level of packing: each of the three columns goes through a BlockEncoder, so
// long columns are split into independently sized frames.
//
//	[first: signed VByte][total: VByte][slice_count: VByte]
//	[BlockEncoder starts][BlockEncoder sort orders][BlockEncoder deltas]
type SortedBlockEncoder struct {
	table  *PermutationTable
	blocks BlockEncoder
}

var _ IntListCodec = (*SortedBlockEncoder)(nil)

// NewSortedBlockEncoder returns a SortedBlockEncoder for sliceSize and the
// column block size blockSize.
func NewSortedBlockEncoder(sliceSize, blockSize int) (*SortedBlockEncoder, error) {
	table, err := PermutationTableFor(sliceSize)
	if err != nil {
		return nil, err
	}
	blocks, err := NewBlockEncoder(blockSize)
	if err != nil {
		return nil, err
	}
	return &SortedBlockEncoder{table: table, blocks: blocks}, nil
}

// Name implements IntListCodec.
func (e *SortedBlockEncoder) Name() string {
	return NameSortedBlock
}

// Encode implements IntListCodec.
func (e *SortedBlockEncoder) Encode(values []int64) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	cols := decomposeInts(values, e.table)
	bw := NewBitWriter(len(values) + 8)
	writeSortedHeader(bw, &cols)
	e.blocks.Write(bw, cols.starts)
	e.blocks.Write(bw, cols.sortOrders)
	e.blocks.Write(bw, cols.deltas)
	bw.Close()
	return bw.Bytes(), nil
}

// Decode implements IntListCodec.
func (e *SortedBlockEncoder) Decode(buf []byte) ([]int64, error) {
	if len(buf) == 0 {
		return []int64{}, nil
	}
	br := NewBitReader(buf)
	first, total, _, err := readSortedHeader(br, e.table.SliceSize())
	if err != nil {
		return nil, err
	}

	cols := sortedColumns{first: first, total: total}
	if cols.starts, err = e.blocks.Read(br); err != nil {
		return nil, fmt.Errorf("slice starts: %w", err)
	}
	if cols.sortOrders, err = e.blocks.Read(br); err != nil {
		return nil, fmt.Errorf("sort orders: %w", err)
	}
	if cols.deltas, err = e.blocks.Read(br); err != nil {
		return nil, fmt.Errorf("slice deltas: %w", err)
	}
	if err := validateTrailer(br); err != nil {
		return nil, err
	}
	if len(cols.starts) != ceilDiv(total, e.table.SliceSize()) {
		return nil, fmt.Errorf("%w: %d slice starts for %d values", ErrInvalidBuffer, len(cols.starts), total)
	}
	return composeInts(cols, e.table)
}
