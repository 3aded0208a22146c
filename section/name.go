package section

import (
	"bytes"
	"fmt"
	"unicode/utf8"
	"unsafe"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
)

// StructName resolves the declared record-type name of a classified table.
//
// The result aliases table and allocates nothing. Malformed names (missing
// terminator, invalid UTF-8, offset past the end) resolve to "".
func StructName(table []byte, c Classification) string {
	switch c.NameMode {
	case format.NameInline:
		if len(table) < StructNamePos+StructNameSize {
			return ""
		}

		return InlineStructName(table[StructNamePos : StructNamePos+StructNameSize])
	case format.NameOutOfLine:
		if len(table) < StructNameOffsetPos+4 {
			return ""
		}
		offset := c.Engine.Uint32(table[StructNameOffsetPos : StructNameOffsetPos+4])

		return OutOfLineStructName(table, offset)
	default:
		return ""
	}
}

// InlineStructName reads a NUL-terminated name from a fixed-size buffer.
func InlineStructName(field []byte) string {
	return cString(field)
}

// OutOfLineStructName reads a NUL-terminated name at table[offset:].
// A zero offset means the name is unset.
func OutOfLineStructName(table []byte, offset uint32) string {
	if offset == 0 || uint64(offset) >= uint64(len(table)) {
		return ""
	}

	return cString(table[offset:])
}

// cString returns the bytes before the first NUL as a string sharing b's memory.
func cString(b []byte) string {
	n := bytes.IndexByte(b, 0)
	if n <= 0 {
		return ""
	}
	if !utf8.Valid(b[:n]) {
		return ""
	}

	return unsafe.String(&b[0], n)
}

// rowNameEncoding returns the text encoding used for row names.
func rowNameEncoding(utf16 bool, engine endian.EndianEngine) encoding.Encoding {
	if !utf16 {
		return japanese.ShiftJIS
	}
	if engine == endian.GetBigEndianEngine() {
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	}

	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}

// RowName decodes the row name stored at table[offset:].
//
// Names are NUL-terminated Shift-JIS, or UTF-16 with a two-byte terminator when
// c.UTF16RowNames is set. A zero offset yields "". Unlike StructName, the result
// is a decoded copy.
func RowName(table []byte, offset uint64, c Classification) (string, error) {
	if offset == 0 {
		return "", nil
	}
	if offset >= uint64(len(table)) {
		return "", fmt.Errorf("%w: row name offset %d, table size %d", errs.ErrOffsetOutOfRange, offset, len(table))
	}

	raw := table[offset:]
	var n int
	if c.UTF16RowNames {
		n = utf16Terminator(raw)
	} else {
		n = bytes.IndexByte(raw, 0)
	}
	if n < 0 {
		return "", fmt.Errorf("%w: unterminated row name at %d", errs.ErrOffsetOutOfRange, offset)
	}

	decoded, err := rowNameEncoding(c.UTF16RowNames, c.Engine).NewDecoder().Bytes(raw[:n])
	if err != nil {
		return "", fmt.Errorf("failed to decode row name at %d: %w", offset, err)
	}

	return string(decoded), nil
}

// EncodeRowName encodes name with its terminator, the inverse of RowName.
func EncodeRowName(name string, utf16 bool, engine endian.EndianEngine) ([]byte, error) {
	encoded, err := rowNameEncoding(utf16, engine).NewEncoder().Bytes([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to encode row name %q: %w", name, err)
	}

	if utf16 {
		return append(encoded, 0, 0), nil
	}

	return append(encoded, 0), nil
}

// utf16Terminator returns the byte length before the first zero code unit, or -1.
func utf16Terminator(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return i
		}
	}

	return -1
}
