package section

import (
	"fmt"
	"math"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
)

// RowDescriptor locates one row relative to the table base.
//
// In memory both offsets are uint64 regardless of the on-disk width.
type RowDescriptor struct {
	// ID is the row's numeric identifier.
	ID uint32
	// DataOffset is the offset of the row payload.
	DataOffset uint64
	// NameOffset is the offset of the row name, zero when the row has none.
	NameOffset uint64
}

// DescriptorLayout reads and writes descriptors of one on-disk width.
//
// A layout is chosen once per table from its classification; callers never
// branch on the width themselves.
type DescriptorLayout interface {
	// Size returns the encoded size of one descriptor.
	Size() int
	// MaxOffset returns the largest offset the layout can encode.
	MaxOffset() uint64
	// Read decodes the descriptor at the start of data.
	Read(data []byte, engine endian.EndianEngine) RowDescriptor
	// WriteToSlice encodes d at offset and returns the next write position.
	WriteToSlice(data []byte, offset int, d RowDescriptor, engine endian.EndianEngine) int
}

var (
	narrow DescriptorLayout = narrowLayout{}
	wide   DescriptorLayout = wideLayout{}
)

// LayoutFor returns the 64-bit layout when wideOffsets is set and the 32-bit layout otherwise.
func LayoutFor(wideOffsets bool) DescriptorLayout {
	if wideOffsets {
		return wide
	}

	return narrow
}

// narrowLayout is id u32 | data_offset u32 | name_offset u32.
type narrowLayout struct{}

func (narrowLayout) Size() int { return NarrowDescriptorSize }

func (narrowLayout) MaxOffset() uint64 { return math.MaxUint32 }

func (narrowLayout) Read(data []byte, engine endian.EndianEngine) RowDescriptor {
	return RowDescriptor{
		ID:         engine.Uint32(data[0:4]),
		DataOffset: uint64(engine.Uint32(data[4:8])),
		NameOffset: uint64(engine.Uint32(data[8:12])),
	}
}

func (narrowLayout) WriteToSlice(data []byte, offset int, d RowDescriptor, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], d.ID)
	engine.PutUint32(data[offset+4:offset+8], uint32(d.DataOffset))   //nolint: gosec
	engine.PutUint32(data[offset+8:offset+12], uint32(d.NameOffset)) //nolint: gosec

	return offset + NarrowDescriptorSize
}

// wideLayout is id u32 | pad u32 | data_offset u64 | name_offset u64.
type wideLayout struct{}

func (wideLayout) Size() int { return WideDescriptorSize }

func (wideLayout) MaxOffset() uint64 { return math.MaxUint64 }

func (wideLayout) Read(data []byte, engine endian.EndianEngine) RowDescriptor {
	return RowDescriptor{
		ID:         engine.Uint32(data[0:4]),
		DataOffset: engine.Uint64(data[8:16]),
		NameOffset: engine.Uint64(data[16:24]),
	}
}

func (wideLayout) WriteToSlice(data []byte, offset int, d RowDescriptor, engine endian.EndianEngine) int {
	engine.PutUint32(data[offset:offset+4], d.ID)
	engine.PutUint32(data[offset+4:offset+8], 0)
	engine.PutUint64(data[offset+8:offset+16], d.DataOffset)
	engine.PutUint64(data[offset+16:offset+24], d.NameOffset)

	return offset + WideDescriptorSize
}

// DescriptorTable is a bounds-checked view over the descriptor array of a table.
type DescriptorTable struct {
	data   []byte
	count  int
	layout DescriptorLayout
	engine endian.EndianEngine
}

// NewDescriptorTable returns the descriptor view for a classified table.
//
// Returns errs.ErrDescriptorOutOfRange if the array runs past the end of table.
func NewDescriptorTable(table []byte, c Classification) (DescriptorTable, error) {
	layout := c.DescriptorLayout()
	start := c.DescriptorStart()
	end := start + int(c.RowCount)*layout.Size()
	if end > len(table) {
		return DescriptorTable{}, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrDescriptorOutOfRange, end, len(table))
	}

	return DescriptorTable{
		data:   table[start:end],
		count:  int(c.RowCount),
		layout: layout,
		engine: c.Engine,
	}, nil
}

// Len returns the number of descriptors.
func (t DescriptorTable) Len() int {
	return t.count
}

// At returns the descriptor at index, or false if index is outside 0..Len().
func (t DescriptorTable) At(index int) (RowDescriptor, bool) {
	if index < 0 || index >= t.count {
		return RowDescriptor{}, false
	}
	size := t.layout.Size()

	return t.layout.Read(t.data[index*size:(index+1)*size], t.engine), true
}

// DataOffset returns the payload offset of the row at index, or false if index is out of range.
func (t DescriptorTable) DataOffset(index int) (uint64, bool) {
	d, ok := t.At(index)
	if !ok {
		return 0, false
	}

	return d.DataOffset, true
}
