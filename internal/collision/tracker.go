// Package collision detects duplicate row IDs while a table is being encoded.
package collision

import (
	"fmt"

	"github.com/arloliu/paramfile/errs"
)

// Tracker records row IDs in the order they are added.
type Tracker struct {
	seen map[uint32]int // id → storage index
	ids  []uint32
}

// NewTracker creates a tracker sized for capacity rows.
func NewTracker(capacity int) *Tracker {
	return &Tracker{
		seen: make(map[uint32]int, capacity),
		ids:  make([]uint32, 0, capacity),
	}
}

// TrackID records id and returns its storage index.
//
// Returns errs.ErrDuplicateRowID if id was already tracked.
func (t *Tracker) TrackID(id uint32) (int, error) {
	if prev, exists := t.seen[id]; exists {
		return 0, fmt.Errorf("%w: id %d already stored at row %d", errs.ErrDuplicateRowID, id, prev)
	}

	index := len(t.ids)
	t.seen[id] = index
	t.ids = append(t.ids, id)

	return index, nil
}

// Count returns the number of tracked IDs.
func (t *Tracker) Count() int {
	return len(t.ids)
}
