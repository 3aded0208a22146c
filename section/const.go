package section

import "math"

// Fixed sizes of the param file structures, in bytes.
const (
	MetadataSize         = 12   // loader-supplied prefix in front of the table base
	HeaderSize           = 0x30 // fixed header size shared by all revisions
	ExtendedHeaderSize   = 16   // optional block between the header and the descriptors
	StructNameSize       = 32   // inline struct name buffer
	NarrowDescriptorSize = 12   // id u32 | data u32 | name u32
	WideDescriptorSize   = 24   // id u32 | pad u32 | data u64 | name u64
	LookupEntrySize      = 8    // id u32 | row index u32
	LookupAlignment      = 16   // lookup table alignment, measured from the table base
	MaxRowCount          = math.MaxUint16
)

// Header field positions, relative to the table base.
const (
	StringsOffsetPos    = 0x00
	ShortDataOffsetPos  = 0x04
	ParamdefVersionPos  = 0x08
	RowCountPos         = 0x0A
	StructNamePos       = 0x0C
	StructNameOffsetPos = 0x10 // out-of-line revisions only
	EndianMarkerPos     = 0x2C
	RevisionTagPos      = 0x2D
	ExtraFlagsPos       = 0x2E
	FormatVersionPos    = 0x2F
	ExtendedHeaderPos   = HeaderSize
)

// Revision tag bits (header byte 0x2D).
const (
	FlagConfirm          = 0x01 // confirms the data-offset width bits
	FlagIntDataOffset    = 0x02 // extended header carries a 32-bit data offset
	FlagLongDataOffset   = 0x04 // 64-bit descriptor offsets
	FlagOffsetStructName = 0x80 // struct name stored out of line
	KnownRevisionBits    = FlagConfirm | FlagIntDataOffset | FlagLongDataOffset | FlagOffsetStructName
)

// Extra flag bits (header byte 0x2E).
const (
	ExtraUTF16RowNames = 0x01 // row names are UTF-16 instead of Shift-JIS
)
