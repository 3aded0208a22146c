// Package section defines the low-level binary structures of a param file.
//
// A param file is a table of fixed-size rows, each identified by a numeric ID.
// The loader hands over one buffer: a 12-byte metadata prefix followed by the
// table. All offsets below are relative to the table base (the byte after the
// prefix).
//
//	┌──────────────────────────────────────────────────────┐
//	│ Metadata prefix (12 bytes, little-endian)            │
//	│  - RowCount, AfterNameOffset, Reserved               │
//	├──────────────────────────────────────────────────────┤ ← table base
//	│ Header (48 bytes)                                    │
//	│  - strings offset, paramdef version, row count       │
//	│  - struct name (inline) or struct name offset        │
//	│  - endian marker, revision tag, extra flags          │
//	├──────────────────────────────────────────────────────┤
//	│ Extended header (16 bytes, optional)                 │
//	├──────────────────────────────────────────────────────┤
//	│ Row descriptors (RowCount × 12 or 24 bytes)          │
//	├──────────────────────────────────────────────────────┤
//	│ Row payloads (opaque, fixed size)                    │
//	├──────────────────────────────────────────────────────┤
//	│ Row names, out-of-line struct name                   │
//	├──────────────────────────────────────────────────────┤ ← AfterNameOffset
//	│ Padding to a 16-byte boundary                        │
//	├──────────────────────────────────────────────────────┤
//	│ Lookup table (RowCount × 8 bytes, sorted by ID)      │
//	└──────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes     | Field            | Type     | Description
//	----------|------------------|----------|--------------------------------
//	0x00-0x03 | StringsOffset    | uint32   | Start of row names / end of row data
//	0x04-0x05 | ShortDataOffset  | uint16   | Legacy start of row data
//	0x06-0x07 | Reserved         | uint16   |
//	0x08-0x09 | ParamdefVersion  | uint16   | Schema version of the rows
//	0x0A-0x0B | RowCount         | uint16   | Number of descriptors
//	0x0C-0x2B | Name field       | [32]byte | Inline name, or reserved u32 + name offset u32
//	0x2C      | EndianMarker     | uint8    | 0x00 little, 0xFF big
//	0x2D      | RevisionFlag     | uint8    | Revision tag
//	0x2E      | ExtraFlags       | uint8    | 0x01: UTF-16 row names
//	0x2F      | FormatVersion    | uint8    | Informational
//
// # Revision Tag
//
//	Bit 0 (0x01): confirmation bit
//	Bit 1 (0x02): 32-bit data offset in the extended header
//	Bit 2 (0x04): 64-bit descriptor offsets (requires 0x01 and 0x80)
//	Bit 7 (0x80): out-of-line struct name
//
// The inline revision always uses 12-byte descriptors. The out-of-line revision
// uses 24-byte descriptors when bits 0x04 and 0x01 are both set. The extended
// header exists when 0x01 is set together with 0x02 or 0x04. Any other tag is an
// unknown revision.
//
// # Descriptors and Lookup
//
// DescriptorLayout is the width strategy selected once at classification.
// LookupTable performs the binary search over the sorted (id, index) pairs; it
// never validates sortedness.
package section
