package param

import (
	"unsafe"

	"github.com/arloliu/paramfile/section"
)

// tableAlignment is the alignment NewBuffer gives the table base. It covers every
// fixed-size field type a record can hold.
const tableAlignment = section.LookupAlignment

// NewBuffer returns a zeroed n-byte slice whose table base, section.MetadataSize
// bytes in, is 16-byte aligned.
//
// Typed views need the row bytes aligned for the record type, and row offsets are
// relative to the table base. Loaders that copy a param file into memory should
// copy it into a buffer from NewBuffer rather than a plain make or os.ReadFile result.
func NewBuffer(n int) []byte {
	raw := make([]byte, n+tableAlignment)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw))) + section.MetadataSize
	pad := int((tableAlignment - base%tableAlignment) % tableAlignment) //nolint: gosec

	return raw[pad : pad+n : pad+n]
}
