package section

import (
	"fmt"
	"sort"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
)

// LookupEntry maps a row ID to its position in the descriptor array.
//
//	Bytes | Field | Type
//	------|-------|-------
//	0-3   | ID    | uint32
//	4-7   | Index | uint32
type LookupEntry struct {
	ID    uint32
	Index uint32
}

// ParseLookupEntry parses a LookupEntry from the start of data.
func ParseLookupEntry(data []byte, engine endian.EndianEngine) (LookupEntry, error) {
	if len(data) < LookupEntrySize {
		return LookupEntry{}, errs.ErrLookupOutOfRange
	}

	return LookupEntry{
		ID:    engine.Uint32(data[0:4]),
		Index: engine.Uint32(data[4:8]),
	}, nil
}

// WriteToSlice writes the entry at offset and returns the next write position.
func (e LookupEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], e.ID)
	engine.PutUint32(data[offset+4:offset+8], e.Index)

	return offset + LookupEntrySize
}

// LookupTable is a read-only view over the producer-built (id, index) array.
//
// The array is assumed sorted ascending by ID without duplicates. That is not
// verified: with duplicates, Search returns one of the matching entries.
type LookupTable struct {
	data   []byte
	count  int
	engine endian.EndianEngine
}

// NewLookupTable returns the lookup view located through the metadata prefix.
//
// Returns errs.ErrLookupOutOfRange if the array runs past the end of table.
func NewLookupTable(table []byte, meta Metadata, engine endian.EndianEngine) (LookupTable, error) {
	start := meta.LookupOffset()
	end := start + int(meta.RowCount)*LookupEntrySize
	if end > len(table) {
		return LookupTable{}, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrLookupOutOfRange, end, len(table))
	}

	return LookupTable{
		data:   table[start:end],
		count:  int(meta.RowCount),
		engine: engine,
	}, nil
}

// Len returns the number of lookup entries.
func (l LookupTable) Len() int {
	return l.count
}

// At returns the entry at lookup position pos, or false if pos is out of range.
func (l LookupTable) At(pos int) (LookupEntry, bool) {
	if pos < 0 || pos >= l.count {
		return LookupEntry{}, false
	}
	entry, err := ParseLookupEntry(l.data[pos*LookupEntrySize:], l.engine)

	return entry, err == nil
}

func (l LookupTable) idAt(pos int) uint32 {
	off := pos * LookupEntrySize

	return l.engine.Uint32(l.data[off : off+4])
}

// Search returns the row index stored for id.
// A missing id is reported with false; there is no insertion-point result.
func (l LookupTable) Search(id uint32) (uint32, bool) {
	pos := sort.Search(l.count, func(i int) bool {
		return l.idAt(i) >= id
	})
	if pos >= l.count {
		return 0, false
	}

	entry, _ := l.At(pos)
	if entry.ID != id {
		return 0, false
	}

	return entry.Index, true
}
