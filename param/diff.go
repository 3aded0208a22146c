package param

import (
	"fmt"

	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/internal/hash"
)

// ChangeKind classifies a row difference between two tables.
type ChangeKind uint8

const (
	// RowAdded means the ID exists only in the second table.
	RowAdded ChangeKind = iota + 1
	// RowRemoved means the ID exists only in the first table.
	RowRemoved
	// RowModified means both tables hold the ID with different payloads.
	RowModified
)

func (k ChangeKind) String() string {
	switch k {
	case RowAdded:
		return "added"
	case RowRemoved:
		return "removed"
	case RowModified:
		return "modified"
	default:
		return fmt.Sprintf("ChangeKind(%d)", uint8(k))
	}
}

// RowChange is one entry of a Diff result.
type RowChange struct {
	ID   uint32
	Kind ChangeKind
}

// Checksum returns an xxHash64 digest of every row in ascending ID order.
// Two tables with equal checksums hold the same IDs with the same payloads.
//
// Returns errs.ErrUnknownRowSize when the row size is unknown.
func (t *Table) Checksum() (uint64, error) {
	d := hash.NewDigest()
	err := ReadRaw(t, func(v RawView) error {
		for id, row := range v.Rows() {
			d.WriteRow(id, row)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}

// Diff compares the rows of a and b by ID and returns the changes needed to
// turn a into b, ordered by ID.
//
// Both tables must declare the same struct name and a known, equal row size,
// otherwise errs.ErrStructNameMismatch, errs.ErrUnknownRowSize or
// errs.ErrRowSizeMismatch is returned. Both are read under their shared locks.
func Diff(a, b *Table) ([]RowChange, error) {
	if a.RowSize() <= 0 || b.RowSize() <= 0 {
		return nil, errs.ErrUnknownRowSize
	}
	if a == b {
		return nil, nil
	}

	if a.StructName() != b.StructName() {
		return nil, fmt.Errorf("%w: %q and %q", errs.ErrStructNameMismatch, a.StructName(), b.StructName())
	}
	if a.RowSize() != b.RowSize() {
		return nil, fmt.Errorf("%w: %d and %d", errs.ErrRowSizeMismatch, a.RowSize(), b.RowSize())
	}

	left, err := rowDigests(a)
	if err != nil {
		return nil, err
	}
	right, err := rowDigests(b)
	if err != nil {
		return nil, err
	}

	changes := make([]RowChange, 0)
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case j >= len(right) || (i < len(left) && left[i].id < right[j].id):
			changes = append(changes, RowChange{ID: left[i].id, Kind: RowRemoved})
			i++
		case i >= len(left) || right[j].id < left[i].id:
			changes = append(changes, RowChange{ID: right[j].id, Kind: RowAdded})
			j++
		default:
			if left[i].sum != right[j].sum {
				changes = append(changes, RowChange{ID: left[i].id, Kind: RowModified})
			}
			i++
			j++
		}
	}

	return changes, nil
}

type rowDigest struct {
	id  uint32
	sum uint64
}

// rowDigests hashes every row of t in ascending ID order.
func rowDigests(t *Table) ([]rowDigest, error) {
	digests := make([]rowDigest, 0, t.RowCount())
	err := ReadRaw(t, func(v RawView) error {
		for id, row := range v.Rows() {
			digests = append(digests, rowDigest{id: id, sum: hash.Row(row)})
		}

		return nil
	})

	return digests, err
}
