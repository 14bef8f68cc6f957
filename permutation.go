package intcodec

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
)

// Slice size bounds for permutation tables. A table enumerates SliceSize!
// permutations, so the upper bound keeps construction cheap (8! = 40320).
const (
	MinSliceSize     = 2
	MaxSliceSize     = 8
	DefaultSliceSize = 5
)

// Move records that the element at index From ends up at index To.
type Move struct {
	From int
	To   int
}

// Ordering is a permutation expressed as moves. Orderings produced by this
// package are normalized: entry i has From == i.
type Ordering []Move

// SortAndIdentifyOrdering stably sorts values and returns the sorted copy
// together with the ordering mapping each original index to its sorted index.
func SortAndIdentifyOrdering(values []int64) ([]int64, Ordering) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(values[a], values[b])
	})

	sorted := make([]int64, len(values))
	ordering := make(Ordering, len(values))
	for to, from := range idx {
		sorted[to] = values[from]
		ordering[from] = Move{From: from, To: to}
	}
	return sorted, ordering
}

// InverseOrdering swaps source and destination of every move. The result is
// normalized by From.
func InverseOrdering(o Ordering) Ordering {
	out := make(Ordering, len(o))
	for _, m := range o {
		out[m.To] = Move{From: m.To, To: m.From}
	}
	return out
}

// Reorder returns a new slice where position m.To holds values[m.From] for
// every move in o. Applying a sort ordering sorts; applying its inverse
// restores the original order.
func Reorder(values []int64, o Ordering) []int64 {
	out := make([]int64, len(values))
	for _, m := range o {
		out[m.To] = values[m.From]
	}
	return out
}

// PermutationTable maps every permutation of {0, ..., SliceSize-1} to a
// compact sort order in [1, SliceSize!] and back. Permutations are ranked in
// lexicographic order of their destination indices, so the identity is sort
// order 1.
//
// A PermutationTable is immutable after construction and safe for concurrent use.
type PermutationTable struct {
	sliceSize int
	// perms holds the destination index of each source position, sliceSize
	// bytes per permutation, ordered by sort order.
	perms []uint8
	// ranks maps a packed permutation (4 bits per position) to its sort order.
	ranks map[uint32]int
	bits  int
}

// NewPermutationTable enumerates all permutations of sliceSize elements.
func NewPermutationTable(sliceSize int) (*PermutationTable, error) {
	if sliceSize < MinSliceSize || sliceSize > MaxSliceSize {
		return nil, fmt.Errorf("%w: %d (must be within [%d, %d])",
			ErrInvalidSliceSize, sliceSize, MinSliceSize, MaxSliceSize)
	}
	n := factorial(sliceSize)
	t := &PermutationTable{
		sliceSize: sliceSize,
		perms:     make([]uint8, 0, n*sliceSize),
		ranks:     make(map[uint32]int, n),
		bits:      BitLength(uint64(n)),
	}

	perm := make([]uint8, sliceSize)
	for i := range perm {
		perm[i] = uint8(i)
	}
	for rank := 1; ; rank++ {
		t.perms = append(t.perms, perm...)
		t.ranks[packPermutation(perm)] = rank
		if !nextPermutation(perm) {
			break
		}
	}
	return t, nil
}

// SliceSize returns the number of elements each permutation covers.
func (t *PermutationTable) SliceSize() int {
	return t.sliceSize
}

// Len returns the number of permutations, SliceSize!.
func (t *PermutationTable) Len() int {
	return len(t.perms) / t.sliceSize
}

// Bits returns the fixed number of bits needed to store any sort order.
func (t *PermutationTable) Bits() int {
	return t.bits
}

// SortOrder returns the sort order identifying o.
func (t *PermutationTable) SortOrder(o Ordering) (int, error) {
	if len(o) != t.sliceSize {
		return 0, fmt.Errorf("%w: ordering has %d moves, table covers %d",
			ErrInvalidSortOrder, len(o), t.sliceSize)
	}
	perm := make([]uint8, t.sliceSize)
	var seen uint32
	for _, m := range o {
		if m.From < 0 || m.From >= t.sliceSize || m.To < 0 || m.To >= t.sliceSize || seen&(1<<m.From) != 0 {
			return 0, fmt.Errorf("%w: invalid move %d->%d", ErrInvalidSortOrder, m.From, m.To)
		}
		seen |= 1 << m.From
		perm[m.From] = uint8(m.To)
	}
	rank, ok := t.ranks[packPermutation(perm)]
	if !ok {
		return 0, fmt.Errorf("%w: ordering is not a permutation", ErrInvalidSortOrder)
	}
	return rank, nil
}

// SortOrderInverse returns the sort order identifying the inverse of o.
func (t *PermutationTable) SortOrderInverse(o Ordering) (int, error) {
	if len(o) != t.sliceSize {
		return 0, fmt.Errorf("%w: ordering has %d moves, table covers %d",
			ErrInvalidSortOrder, len(o), t.sliceSize)
	}
	for _, m := range o {
		if m.To < 0 || m.To >= t.sliceSize {
			return 0, fmt.Errorf("%w: invalid move %d->%d", ErrInvalidSortOrder, m.From, m.To)
		}
	}
	return t.SortOrder(InverseOrdering(o))
}

// Ordering returns the normalized ordering identified by sortOrder.
func (t *PermutationTable) Ordering(sortOrder int) (Ordering, error) {
	if sortOrder < 1 || sortOrder > t.Len() {
		return nil, fmt.Errorf("%w: %d (must be within [1, %d])", ErrInvalidSortOrder, sortOrder, t.Len())
	}
	start := (sortOrder - 1) * t.sliceSize
	o := make(Ordering, t.sliceSize)
	for from, to := range t.perms[start : start+t.sliceSize] {
		o[from] = Move{From: from, To: int(to)}
	}
	return o, nil
}

// sharedTables holds one lazily built table per supported slice size.
var sharedTables [MaxSliceSize + 1]struct {
	once  sync.Once
	table *PermutationTable
	err   error
}

// PermutationTableFor returns the process-wide table for sliceSize, building
// it on first use. Concurrent callers share a single construction.
func PermutationTableFor(sliceSize int) (*PermutationTable, error) {
	if sliceSize < MinSliceSize || sliceSize > MaxSliceSize {
		return nil, fmt.Errorf("%w: %d (must be within [%d, %d])",
			ErrInvalidSliceSize, sliceSize, MinSliceSize, MaxSliceSize)
	}
	entry := &sharedTables[sliceSize]
	entry.once.Do(func() {
		entry.table, entry.err = NewPermutationTable(sliceSize)
	})
	return entry.table, entry.err
}

func packPermutation(perm []uint8) uint32 {
	var key uint32
	for i, p := range perm {
		key |= uint32(p) << (4 * i)
	}
	return key
}

// nextPermutation advances perm to its lexicographic successor and reports
// whether one existed.
func nextPermutation(perm []uint8) bool {
	i := len(perm) - 2
	for i >= 0 && perm[i] >= perm[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(perm) - 1
	for perm[j] <= perm[i] {
		j--
	}
	perm[i], perm[j] = perm[j], perm[i]
	slices.Reverse(perm[i+1:])
	return true
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
