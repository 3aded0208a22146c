package section

import (
	"fmt"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
)

// Header is the fixed-size section at the table base.
//
// The struct-name field is kept raw: the inline revision stores a NUL-terminated
// name in it, the out-of-line revision stores a reserved word followed by the
// name offset (see StructNameOffset).
type Header struct {
	// StringsOffset is where the row-name region starts, which is also where row data ends.
	// Zero when the producer did not record it.
	StringsOffset uint32 // byte offset 0x00-0x03
	// ShortDataOffset is the legacy 16-bit start of row data, zero if it does not fit.
	ShortDataOffset uint16 // byte offset 0x04-0x05
	// ParamdefVersion is the version of the schema the rows were written with.
	ParamdefVersion uint16 // byte offset 0x08-0x09
	// RowCount is the number of row descriptors.
	RowCount uint16 // byte offset 0x0A-0x0B
	// NameField holds the inline name or the out-of-line name offset.
	NameField [StructNameSize]byte // byte offset 0x0C-0x2B
	// EndianMarker is 0x00 for little-endian files and 0xFF for big-endian files.
	EndianMarker byte // byte offset 0x2C
	// Flag is the revision tag.
	Flag RevisionFlag // byte offset 0x2D
	// ExtraFlags carries the row-name encoding.
	ExtraFlags uint8 // byte offset 0x2E
	// FormatVersion is the paramdef format version, informational only.
	FormatVersion uint8 // byte offset 0x2F
	// DataOffset is the start of row data, present only with an extended header.
	DataOffset uint64 // byte offset 0x30-0x37 (or 0x30-0x33 for 32-bit data offsets)
}

// Classification is the memoized result of inspecting a table header.
// It holds exactly what the descriptor, lookup and name components need.
type Classification struct {
	Revision          format.Revision
	NameMode          format.NameMode
	RowCount          uint16
	ParamdefVersion   uint16
	Uses64BitOffsets  bool
	HasExtendedHeader bool
	UTF16RowNames     bool
	Engine            endian.EndianEngine
}

// DescriptorStart returns the table-relative offset of the first row descriptor.
func (c Classification) DescriptorStart() int {
	if c.HasExtendedHeader {
		return HeaderSize + ExtendedHeaderSize
	}

	return HeaderSize
}

// DescriptorLayout returns the width strategy selected for this table.
func (c Classification) DescriptorLayout() DescriptorLayout {
	return LayoutFor(c.Uses64BitOffsets)
}

// Parse parses the header from the start of a table.
//
// Parameters:
//   - data: Table bytes starting at the table base (at least HeaderSize bytes,
//     HeaderSize+ExtendedHeaderSize when the tag requests an extended header)
//
// Returns:
//   - error: ErrInvalidHeaderSize, ErrInvalidEndianMarker or ErrUnknownRevision
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The marker and tag are single bytes, so they can be read before the engine is known.
	h.EndianMarker = data[EndianMarkerPos]
	h.Flag = RevisionFlag(data[RevisionTagPos])
	h.ExtraFlags = data[ExtraFlagsPos]
	h.FormatVersion = data[FormatVersionPos]

	engine, ok := endian.FromMarker(h.EndianMarker)
	if !ok {
		return fmt.Errorf("%w: 0x%02X", errs.ErrInvalidEndianMarker, h.EndianMarker)
	}

	layout, err := h.Flag.Classify()
	if err != nil {
		return err
	}

	h.StringsOffset = engine.Uint32(data[StringsOffsetPos : StringsOffsetPos+4])
	h.ShortDataOffset = engine.Uint16(data[ShortDataOffsetPos : ShortDataOffsetPos+2])
	h.ParamdefVersion = engine.Uint16(data[ParamdefVersionPos : ParamdefVersionPos+2])
	h.RowCount = engine.Uint16(data[RowCountPos : RowCountPos+2])
	copy(h.NameField[:], data[StructNamePos:StructNamePos+StructNameSize])

	h.DataOffset = 0
	if layout.HasExtendedHeader {
		if len(data) < HeaderSize+ExtendedHeaderSize {
			return errs.ErrInvalidHeaderSize
		}
		ext := data[ExtendedHeaderPos : ExtendedHeaderPos+ExtendedHeaderSize]
		if h.Flag.HasLongDataOffset() {
			h.DataOffset = engine.Uint64(ext[0:8])
		} else {
			h.DataOffset = uint64(engine.Uint32(ext[0:4]))
		}
	}

	return nil
}

// Engine returns the byte order selected by the endian marker.
// It falls back to little-endian for an invalid marker; Parse rejects those.
func (h Header) Engine() endian.EndianEngine {
	if engine, ok := endian.FromMarker(h.EndianMarker); ok {
		return engine
	}

	return endian.GetLittleEndianEngine()
}

// Size returns the header size including the extended block, if the tag requests one.
func (h Header) Size() int {
	layout, err := h.Flag.Classify()
	if err == nil && layout.HasExtendedHeader {
		return HeaderSize + ExtendedHeaderSize
	}

	return HeaderSize
}

// StructNameOffset returns the out-of-line name offset stored in the name field.
func (h Header) StructNameOffset() uint32 {
	pos := StructNameOffsetPos - StructNamePos

	return h.Engine().Uint32(h.NameField[pos : pos+4])
}

// SetStructNameOffset stores the out-of-line name offset in the name field.
func (h *Header) SetStructNameOffset(offset uint32) {
	pos := StructNameOffsetPos - StructNamePos
	h.Engine().PutUint32(h.NameField[pos:pos+4], offset)
}

// Classify builds the classification for a parsed header.
func (h Header) Classify() (Classification, error) {
	layout, err := h.Flag.Classify()
	if err != nil {
		return Classification{}, err
	}

	return Classification{
		Revision:          layout.Revision,
		NameMode:          layout.Revision.NameMode(),
		RowCount:          h.RowCount,
		ParamdefVersion:   h.ParamdefVersion,
		Uses64BitOffsets:  layout.Uses64BitOffsets,
		HasExtendedHeader: layout.HasExtendedHeader,
		UTF16RowNames:     h.ExtraFlags&ExtraUTF16RowNames != 0,
		Engine:            h.Engine(),
	}, nil
}

// WriteToSlice serializes the header at the start of data and returns the number of bytes written.
// data must hold Size() bytes.
func (h Header) WriteToSlice(data []byte) int {
	engine := h.Engine()

	engine.PutUint32(data[StringsOffsetPos:StringsOffsetPos+4], h.StringsOffset)
	engine.PutUint16(data[ShortDataOffsetPos:ShortDataOffsetPos+2], h.ShortDataOffset)
	engine.PutUint16(data[ShortDataOffsetPos+2:ShortDataOffsetPos+4], 0)
	engine.PutUint16(data[ParamdefVersionPos:ParamdefVersionPos+2], h.ParamdefVersion)
	engine.PutUint16(data[RowCountPos:RowCountPos+2], h.RowCount)
	copy(data[StructNamePos:StructNamePos+StructNameSize], h.NameField[:])
	data[EndianMarkerPos] = h.EndianMarker
	data[RevisionTagPos] = byte(h.Flag)
	data[ExtraFlagsPos] = h.ExtraFlags
	data[FormatVersionPos] = h.FormatVersion

	size := h.Size()
	if size == HeaderSize {
		return size
	}

	ext := data[ExtendedHeaderPos : ExtendedHeaderPos+ExtendedHeaderSize]
	clear(ext)
	if h.Flag.HasLongDataOffset() {
		engine.PutUint64(ext[0:8], h.DataOffset)
	} else {
		engine.PutUint32(ext[0:4], uint32(h.DataOffset)) //nolint: gosec
	}

	return size
}

// Bytes serializes the header into a new slice.
func (h Header) Bytes() []byte {
	b := make([]byte, h.Size())
	h.WriteToSlice(b)

	return b
}

// ParseHeader parses a Header from the start of a table.
func ParseHeader(data []byte) (Header, error) {
	h := Header{}
	if err := h.Parse(data); err != nil {
		return Header{}, err
	}

	return h, nil
}
