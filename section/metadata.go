package section

import (
	"encoding/binary"

	"github.com/arloliu/paramfile/errs"
)

// Metadata is the 12-byte record the loader stores immediately before the table base.
// It shares the table's allocation and is always little-endian.
//
//	Bytes | Field           | Type
//	------|-----------------|-------
//	0-3   | RowCount        | uint32
//	4-7   | AfterNameOffset | uint32
//	8-11  | Reserved        | uint32
type Metadata struct {
	// RowCount is the number of rows in both the descriptor array and the lookup table.
	RowCount uint32
	// AfterNameOffset is the unaligned offset, relative to the table base, where the
	// variable-length header data (descriptors, names) ends.
	AfterNameOffset uint32
	// Reserved is written as zero.
	Reserved uint32
}

// ParseMetadata parses the prefix from the first MetadataSize bytes of data.
func ParseMetadata(data []byte) (Metadata, error) {
	if len(data) < MetadataSize {
		return Metadata{}, errs.ErrInvalidHeaderSize
	}

	return Metadata{
		RowCount:        binary.LittleEndian.Uint32(data[0:4]),
		AfterNameOffset: binary.LittleEndian.Uint32(data[4:8]),
		Reserved:        binary.LittleEndian.Uint32(data[8:12]),
	}, nil
}

// WriteToSlice writes the prefix at offset and returns the next write position.
func (m Metadata) WriteToSlice(data []byte, offset int) int {
	binary.LittleEndian.PutUint32(data[offset:offset+4], m.RowCount)
	binary.LittleEndian.PutUint32(data[offset+4:offset+8], m.AfterNameOffset)
	binary.LittleEndian.PutUint32(data[offset+8:offset+12], m.Reserved)

	return offset + MetadataSize
}

// LookupOffset returns the table-relative offset of the lookup table:
// AfterNameOffset rounded up to the next multiple of LookupAlignment.
func (m Metadata) LookupOffset() int {
	return AlignUp(int(m.AfterNameOffset), LookupAlignment)
}

// AlignUp rounds n up to a multiple of align, which must be a power of two.
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
