package snapshot

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/internal/hash"
	"github.com/arloliu/paramfile/internal/options"
	"github.com/arloliu/paramfile/param"
)

// Snapshot is an owned copy of rows taken from a Table.
//
// Rows are kept in ascending ID order, back to back, RowSize bytes each.
type Snapshot struct {
	structName  string
	rowSize     int
	ids         []uint32
	rows        []byte
	compression format.CompressionType
}

// Capture copies rows out of tbl under its read lock.
//
// Without WithIDs every row is captured. Requesting an ID the table does not
// hold returns errs.ErrIncompatibleRows.
func Capture(tbl *param.Table, opts ...Option) (*Snapshot, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	rowSize := tbl.RowSize()
	if rowSize <= 0 {
		return nil, fmt.Errorf("%w: %w", errs.ErrIncompatibleRows, errs.ErrUnknownRowSize)
	}

	for id := range cfg.ids {
		if !tbl.Has(id) {
			return nil, fmt.Errorf("%w: row %d not in table", errs.ErrIncompatibleRows, id)
		}
	}

	count := tbl.RowCount()
	if cfg.ids != nil {
		count = len(cfg.ids)
	}

	s := &Snapshot{
		structName:  tbl.StructName(),
		rowSize:     rowSize,
		ids:         make([]uint32, 0, count),
		rows:        make([]byte, 0, count*rowSize),
		compression: cfg.compression,
	}

	err := param.ReadRaw(tbl, func(v param.RawView) error {
		for id, row := range v.Rows() {
			if cfg.ids != nil {
				if _, ok := cfg.ids[id]; !ok {
					continue
				}
			}
			s.ids = append(s.ids, id)
			s.rows = append(s.rows, row...)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// StructName returns the struct name of the source table.
func (s *Snapshot) StructName() string {
	return s.structName
}

// RowSize returns the size of every captured row.
func (s *Snapshot) RowSize() int {
	return s.rowSize
}

// Len returns the number of captured rows.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// IDs returns the captured row IDs in ascending order. The slice is owned by the snapshot.
func (s *Snapshot) IDs() []uint32 {
	return s.ids
}

// Compression returns the codec Encode will use.
func (s *Snapshot) Compression() format.CompressionType {
	return s.compression
}

// Row returns the captured payload of id.
func (s *Snapshot) Row(id uint32) ([]byte, bool) {
	i, ok := slices.BinarySearch(s.ids, id)
	if !ok {
		return nil, false
	}

	return s.rowAt(i), true
}

// Rows iterates over (id, payload) pairs in ascending ID order.
func (s *Snapshot) Rows() iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		for i, id := range s.ids {
			if !yield(id, s.rowAt(i)) {
				return
			}
		}
	}
}

// Checksum returns the xxHash64 digest of the captured rows.
// A full capture has the same checksum as its source table (see param.Table.Checksum).
func (s *Snapshot) Checksum() uint64 {
	d := hash.NewDigest()
	for id, row := range s.Rows() {
		d.WriteRow(id, row)
	}

	return d.Sum64()
}

// Apply writes the captured rows back into tbl by ID under its write lock.
//
// The table must declare the same struct name (errs.ErrStructNameMismatch) and
// row size (errs.ErrIncompatibleRows). IDs the table does not hold are skipped
// and returned in ascending order.
func (s *Snapshot) Apply(tbl *param.Table) ([]uint32, error) {
	if tbl.StructName() != s.structName {
		return nil, fmt.Errorf("%w: table declares %q, snapshot %q", errs.ErrStructNameMismatch, tbl.StructName(), s.structName)
	}
	if tbl.RowSize() != s.rowSize {
		return nil, fmt.Errorf("%w: table rows are %d bytes, snapshot rows %d", errs.ErrIncompatibleRows, tbl.RowSize(), s.rowSize)
	}

	var missing []uint32
	err := param.WriteRaw(tbl, func(v param.RawView) error {
		for id, row := range s.Rows() {
			dst, ok := v.RowBytesByID(id)
			if !ok {
				missing = append(missing, id)
				continue
			}
			copy(dst, row)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return missing, nil
}

func (s *Snapshot) rowAt(i int) []byte {
	start := i * s.rowSize
	end := start + s.rowSize

	return s.rows[start:end:end]
}
