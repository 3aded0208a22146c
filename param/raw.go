package param

import (
	"iter"

	"github.com/arloliu/paramfile/errs"
)

// RawView exposes row payloads as byte slices aliasing the table buffer.
//
// Unlike View it works for tables of either byte order and needs no record
// type. Slices are RowSize bytes long and valid only inside the producing scope.
type RawView struct {
	t *Table
}

// RowSize returns the length of every slice the view returns.
func (v RawView) RowSize() int {
	return v.t.rowSize
}

// RowBytes returns the payload of the row at descriptor index.
func (v RawView) RowBytes(index int) ([]byte, bool) {
	start, end, ok := v.t.rowSpan(index, v.t.rowSize)
	if !ok {
		return nil, false
	}

	return v.t.table[start:end:end], true
}

// RowBytesByID returns the payload of the row with the given ID.
func (v RawView) RowBytesByID(id uint32) ([]byte, bool) {
	index, ok := v.t.FindIndex(id)
	if !ok {
		return nil, false
	}

	return v.RowBytes(index)
}

// Rows iterates over (id, payload) pairs in ascending ID order.
//
// Rows whose payload would extend past the buffer are skipped without error,
// so fewer than RowCount pairs may be yielded. RowBytes reports such rows with false.
func (v RawView) Rows() iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		for pos := range v.t.lookup.Len() {
			entry, ok := v.t.lookup.At(pos)
			if !ok {
				return
			}

			row, ok := v.RowBytes(int(entry.Index))
			if !ok {
				continue
			}

			if !yield(entry.ID, row) {
				return
			}
		}
	}
}

// ReadRaw runs fn with a RawView under the table's shared lock.
// The returned slices must not be written to.
//
// Returns errs.ErrUnknownRowSize without calling fn when the table's row size is unknown.
func ReadRaw(t *Table, fn func(RawView) error) error {
	if t.rowSize <= 0 {
		return errs.ErrUnknownRowSize
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return fn(RawView{t: t})
}

// WriteRaw runs fn with a RawView under the table's exclusive lock.
// Slices may be modified in place.
func WriteRaw(t *Table, fn func(RawView) error) error {
	if t.rowSize <= 0 {
		return errs.ErrUnknownRowSize
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return fn(RawView{t: t})
}
