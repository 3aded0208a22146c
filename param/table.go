package param

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/internal/options"
	"github.com/arloliu/paramfile/section"
)

// Table is a decoded view over one loaded param file.
//
// The header is classified once in New; every later call is a computation over
// that classification and the descriptor and lookup arrays. The Table never
// allocates, resizes or frees the buffer it was given.
//
// Header accessors (RowCount, ParamdefVersion, StructName, FindIndex, ...) are
// safe for concurrent use. Row bytes are only reachable inside Read/Write scopes,
// which enforce a single writer or any number of readers.
type Table struct {
	buf         []byte // metadata prefix + table
	table       []byte // buf[section.MetadataSize:], the table base
	meta        section.Metadata
	header      section.Header
	class       section.Classification
	descriptors section.DescriptorTable
	lookup      section.LookupTable
	structName  string
	rowSize     int

	mu sync.RWMutex
}

// New classifies buf and returns a Table over it.
//
// buf must start with the 12-byte metadata prefix, immediately followed by the
// table. The caller keeps ownership of buf and must keep it alive and unmoved
// while the Table is in use.
//
// Parameters:
//   - buf: Loaded param file including its metadata prefix
//   - opts: Optional table configuration (see WithRowSize)
//
// Returns:
//   - *Table: The classified table
//   - error: ErrInvalidHeaderSize, ErrInvalidEndianMarker, ErrUnknownRevision,
//     ErrRowCountMismatch, ErrDescriptorOutOfRange or ErrLookupOutOfRange
func New(buf []byte, opts ...TableOption) (*Table, error) {
	if len(buf) < section.MetadataSize+section.HeaderSize {
		return nil, fmt.Errorf("%w: buffer has %d bytes", errs.ErrInvalidHeaderSize, len(buf))
	}

	cfg := &TableConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	meta, err := section.ParseMetadata(buf)
	if err != nil {
		return nil, err
	}

	t := &Table{
		buf:   buf,
		table: buf[section.MetadataSize:],
		meta:  meta,
	}

	t.header, err = section.ParseHeader(t.table)
	if err != nil {
		return nil, fmt.Errorf("failed to classify param table: %w", err)
	}

	t.class, err = t.header.Classify()
	if err != nil {
		return nil, fmt.Errorf("failed to classify param table: %w", err)
	}

	if uint32(t.class.RowCount) != meta.RowCount {
		return nil, fmt.Errorf("%w: header %d, metadata %d", errs.ErrRowCountMismatch, t.class.RowCount, meta.RowCount)
	}

	t.descriptors, err = section.NewDescriptorTable(t.table, t.class)
	if err != nil {
		return nil, err
	}

	t.lookup, err = section.NewLookupTable(t.table, meta, t.class.Engine)
	if err != nil {
		return nil, err
	}

	t.structName = section.StructName(t.table, t.class)

	t.rowSize = cfg.rowSize
	if t.rowSize == 0 {
		t.rowSize = t.inferRowSize()
	}

	return t, nil
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return int(t.class.RowCount)
}

// ParamdefVersion returns the schema version recorded in the header.
func (t *Table) ParamdefVersion() uint16 {
	return t.class.ParamdefVersion
}

// StructName returns the declared record-type name, or "" if unset or malformed.
// The string aliases the table buffer.
func (t *Table) StructName() string {
	return t.structName
}

// Revision returns the detected layout family.
func (t *Table) Revision() format.Revision {
	return t.class.Revision
}

// Classification returns the memoized header classification.
func (t *Table) Classification() section.Classification {
	return t.class
}

// Header returns the parsed header.
func (t *Table) Header() section.Header {
	return t.header
}

// Engine returns the byte order of the table.
func (t *Table) Engine() endian.EndianEngine {
	return t.class.Engine
}

// RowSize returns the row stride, either configured with WithRowSize or inferred
// from the descriptors. Zero means it could not be determined.
func (t *Table) RowSize() int {
	return t.rowSize
}

// FindIndex returns the descriptor index of the row with the given ID.
// A missing ID is reported with false.
func (t *Table) FindIndex(id uint32) (int, bool) {
	index, ok := t.lookup.Search(id)
	if !ok {
		return 0, false
	}

	return int(index), true
}

// Has reports whether a row with the given ID exists.
func (t *Table) Has(id uint32) bool {
	_, ok := t.lookup.Search(id)
	return ok
}

// Descriptor returns the decoded descriptor at index, or false if index is out of range.
func (t *Table) Descriptor(index int) (section.RowDescriptor, bool) {
	return t.descriptors.At(index)
}

// IDs returns the row IDs in ascending order.
func (t *Table) IDs() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for pos := range t.lookup.Len() {
			entry, _ := t.lookup.At(pos)
			if !yield(entry.ID) {
				return
			}
		}
	}
}

// RowName decodes the name of the row at index.
//
// Rows without a name yield "". An index out of range yields ("", false, nil).
func (t *Table) RowName(index int) (string, bool, error) {
	d, ok := t.descriptors.At(index)
	if !ok {
		return "", false, nil
	}

	name, err := section.RowName(t.table, d.NameOffset, t.class)
	if err != nil {
		return "", true, err
	}

	return name, true, nil
}

// rowSpan returns the in-bounds [start, end) of size bytes at the row at index.
func (t *Table) rowSpan(index int, size int) (int, int, bool) {
	off, ok := t.descriptors.DataOffset(index)
	if !ok || size <= 0 {
		return 0, 0, false
	}
	if off > uint64(len(t.table)) || uint64(size) > uint64(len(t.table))-off {
		return 0, 0, false
	}

	return int(off), int(off) + size, true
}

// inferRowSize derives the row stride from the descriptors.
//
// The preferred source is the strings offset, which marks the end of row data.
// Without it the smallest gap between distinct data offsets is used, and a
// single row extends to the end of the names region.
func (t *Table) inferRowSize() int {
	n := t.descriptors.Len()
	if n == 0 {
		return 0
	}

	offsets := make([]uint64, 0, n)
	for i := range n {
		off, _ := t.descriptors.DataOffset(i)
		offsets = append(offsets, off)
	}
	slices.Sort(offsets)
	offsets = slices.Compact(offsets)

	first := offsets[0]
	strings := uint64(t.header.StringsOffset)
	if strings > first && strings <= uint64(len(t.table)) {
		span := strings - first
		if size := span / uint64(len(offsets)); size > 0 && size*uint64(len(offsets)) <= span {
			return int(size)
		}
	}

	if len(offsets) > 1 {
		gap := offsets[1] - offsets[0]
		for i := 2; i < len(offsets); i++ {
			gap = min(gap, offsets[i]-offsets[i-1])
		}

		return int(gap)
	}

	end := uint64(t.meta.AfterNameOffset)
	if end <= first || end > uint64(len(t.table)) {
		end = uint64(len(t.table))
	}
	if end <= first {
		return 0
	}

	return int(end - first)
}
