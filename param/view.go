package param

import (
	"fmt"
	"iter"
	"reflect"
	"unsafe"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
)

// View is a read-only typed view over the rows of a Table.
//
// A View is only valid inside the Read or Write scope that produced it, and so
// are the pointers it returns. T must be a fixed-size value type without
// pointers whose layout matches the table's record type; StructName is the
// only check available for the latter (see ReadAs).
type View[T any] struct {
	t     *Table
	size  int
	align uintptr
}

// MutView is a mutable typed view, obtained inside a Write scope.
// It also offers every read operation of View.
type MutView[T any] struct {
	View[T]
}

// Len returns the number of rows.
func (v View[T]) Len() int {
	return v.t.RowCount()
}

// GetByIndex returns the row stored at descriptor index.
// An out-of-range index, a row that would extend past the buffer, or a row
// whose address is not aligned for T is reported with false.
func (v View[T]) GetByIndex(index int) (*T, bool) {
	return v.at(index)
}

// GetByID returns the row with the given ID, or false if there is none.
func (v View[T]) GetByID(id uint32) (*T, bool) {
	index, ok := v.t.FindIndex(id)
	if !ok {
		return nil, false
	}

	return v.at(index)
}

// Rows iterates over (id, row) pairs in ascending ID order.
//
// Each step re-reads the lookup entry at the current position, so the sequence
// reflects the buffer as it is when iterated and may be restarted.
//
// Rows that GetByIndex would report with false are skipped without error, so a
// corrupt table can yield fewer than Len rows. Callers that must account for
// every row should walk the indices with GetByIndex instead.
func (v View[T]) Rows() iter.Seq2[uint32, *T] {
	return func(yield func(uint32, *T) bool) {
		for pos := range v.t.lookup.Len() {
			entry, ok := v.t.lookup.At(pos)
			if !ok {
				return
			}

			row, ok := v.at(int(entry.Index))
			if !ok {
				continue
			}

			if !yield(entry.ID, row) {
				return
			}
		}
	}
}

// GetMutByIndex returns a mutable pointer to the row stored at descriptor index.
func (v MutView[T]) GetMutByIndex(index int) (*T, bool) {
	return v.at(index)
}

// GetMutByID returns a mutable pointer to the row with the given ID.
func (v MutView[T]) GetMutByID(id uint32) (*T, bool) {
	return v.GetByID(id)
}

// RowsMut iterates over (id, row) pairs in ascending ID order with mutable rows.
// Writes through a yielded pointer are visible to later reads of the same row.
// Unreachable rows are skipped as in Rows.
func (v MutView[T]) RowsMut() iter.Seq2[uint32, *T] {
	return v.Rows()
}

func (v View[T]) at(index int) (*T, bool) {
	start, _, ok := v.t.rowSpan(index, v.size)
	if !ok {
		return nil, false
	}

	p := unsafe.Pointer(&v.t.table[start])
	if uintptr(p)%v.align != 0 {
		return nil, false
	}

	return (*T)(p), true
}

// newView validates T against the table and returns the view used by both scope kinds.
func newView[T any](t *Table) (View[T], error) {
	var zero T

	size := int(unsafe.Sizeof(zero))
	align := unsafe.Alignof(zero)
	typ := reflect.TypeFor[T]()

	if size == 0 || hasPointers(typ) {
		return View[T]{}, fmt.Errorf("%w: %s", errs.ErrInvalidRecordType, typ)
	}

	if t.rowSize > 0 && size > t.rowSize {
		return View[T]{}, fmt.Errorf("%w: %s is %d bytes, row size is %d", errs.ErrRecordSizeMismatch, typ, size, t.rowSize)
	}

	if !endian.CompareNativeEndian(t.class.Engine) {
		return View[T]{}, errs.ErrByteOrderMismatch
	}

	if len(t.table) > 0 && uintptr(unsafe.Pointer(&t.table[0]))%align != 0 {
		return View[T]{}, fmt.Errorf("%w: %s needs %d-byte alignment", errs.ErrMisalignedRecord, typ, align)
	}

	return View[T]{t: t, size: size, align: align}, nil
}

// hasPointers reports whether values of typ contain anything the garbage
// collector would need to trace.
func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() { //nolint: exhaustive
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := range typ.NumField() {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}

		return false
	default:
		return true
	}
}

// Read runs fn with a typed read-only view while holding the table's shared lock.
//
// Any number of Read scopes may run concurrently; they exclude Write scopes.
// Calling Write on the same table from inside fn deadlocks.
//
// Returns errs.ErrInvalidRecordType, errs.ErrRecordSizeMismatch,
// errs.ErrByteOrderMismatch or errs.ErrMisalignedRecord when T cannot be laid
// over the table, otherwise whatever fn returns.
func Read[T any](t *Table, fn func(View[T]) error) error {
	v, err := newView[T](t)
	if err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return fn(v)
}

// Write runs fn with a typed mutable view while holding the table's exclusive lock.
//
// Calling Read or Write on the same table from inside fn deadlocks.
func Write[T any](t *Table, fn func(MutView[T]) error) error {
	v, err := newView[T](t)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return fn(MutView[T]{View: v})
}

// TryWrite is like Write but returns errs.ErrTableBusy instead of waiting when
// any other scope holds the table.
func TryWrite[T any](t *Table, fn func(MutView[T]) error) error {
	v, err := newView[T](t)
	if err != nil {
		return err
	}

	if !t.mu.TryLock() {
		return errs.ErrTableBusy
	}
	defer t.mu.Unlock()

	return fn(MutView[T]{View: v})
}

// ReadAs is Read gated on the table's struct name.
// It returns errs.ErrStructNameMismatch when StructName() differs from structName.
func ReadAs[T any](t *Table, structName string, fn func(View[T]) error) error {
	if err := checkStructName(t, structName); err != nil {
		return err
	}

	return Read(t, fn)
}

// WriteAs is Write gated on the table's struct name.
func WriteAs[T any](t *Table, structName string, fn func(MutView[T]) error) error {
	if err := checkStructName(t, structName); err != nil {
		return err
	}

	return Write(t, fn)
}

func checkStructName(t *Table, want string) error {
	if got := t.StructName(); got != want {
		return fmt.Errorf("%w: table declares %q, want %q", errs.ErrStructNameMismatch, got, want)
	}

	return nil
}
