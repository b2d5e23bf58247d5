package cpu

import (
	"iter"
	"maps"
	"slices"

	"github.com/fdouw/intcode/internal"
)

const (
	TAPE_GROWTH      = 1024    // Dense tape growth increment, in cells.
	TAPE_DENSE_LIMIT = 1 << 20 // Addresses at or past this use the sparse overflow map.
)

// Tape is the sparse, resettable memory of a Machine.
// Unwritten cells read as zero; there is no upper bound on addresses.
type Tape struct {
	baseline []int64
	dense    []int64
	sparse   map[int64]int64
}

// NewTape creates a tape whose reset baseline is a copy of image.
func NewTape(image []int64) (tape *Tape) {
	tape = &Tape{
		baseline: slices.Clone(image),
	}
	tape.Reset()

	return
}

// limit is the first address held in the sparse overflow map.
func (t *Tape) limit() int64 {
	return max(TAPE_DENSE_LIMIT, int64(len(t.baseline)))
}

// Reset discards all writes and reloads the baseline image.
func (t *Tape) Reset() {
	t.dense = append(t.dense[:0], t.baseline...)
	clear(t.sparse)
}

// Baseline returns a copy of the reset image.
func (t *Tape) Baseline() []int64 {
	return slices.Clone(t.baseline)
}

// Len returns the extent of the dense region of the tape.
func (t *Tape) Len() int {
	return len(t.dense)
}

// Read returns the value at addr, or zero if it was never written.
func (t *Tape) Read(addr int64) (value int64, err error) {
	switch {
	case addr < 0:
		err = ErrNegativeAddress
	case addr < int64(len(t.dense)):
		value = t.dense[addr]
	case addr >= t.limit():
		value = t.sparse[addr]
	}

	return
}

// Write stores value at addr, growing the tape as needed.
func (t *Tape) Write(addr int64, value int64) (err error) {
	if addr < 0 {
		err = ErrNegativeAddress
		return
	}

	if addr >= t.limit() {
		if t.sparse == nil {
			t.sparse = make(map[int64]int64)
		}
		t.sparse[addr] = value
		return
	}

	if addr >= int64(len(t.dense)) {
		// Grow in fixed increments, zero filled.
		size := min(((addr/TAPE_GROWTH)+1)*TAPE_GROWTH, t.limit())
		t.dense = append(t.dense, make([]int64, size-int64(len(t.dense)))...)
	}

	t.dense[addr] = value

	return
}

// Cells returns an iterator over all non-zero cells, in address order.
func (t *Tape) Cells() iter.Seq2[int64, int64] {
	var dense iter.Seq2[int64, int64] = func(yield func(addr int64, value int64) bool) {
		for addr, value := range t.dense {
			if !yield(int64(addr), value) {
				return
			}
		}
	}

	var sparse iter.Seq2[int64, int64] = func(yield func(addr int64, value int64) bool) {
		for _, addr := range slices.Sorted(maps.Keys(t.sparse)) {
			if !yield(addr, t.sparse[addr]) {
				return
			}
		}
	}

	return internal.IterSeq2Filter(internal.IterSeq2Concat(dense, sparse),
		func(addr int64, value int64) bool { return value != 0 })
}
