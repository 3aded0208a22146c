package format

type (
	// Revision identifies one of the supported on-disk layout families.
	Revision uint8
	// NameMode tells where the struct name of a table is stored.
	NameMode uint8
	// CompressionType selects the payload codec of a row snapshot.
	CompressionType uint8
)

const (
	RevisionUnknown Revision = 0x0 // RevisionUnknown is the zero value, never produced by a successful classification.
	RevisionInline  Revision = 0x1 // RevisionInline stores the struct name in the header and uses 32-bit descriptors.
	RevisionOffset  Revision = 0x2 // RevisionOffset stores the struct name out of line and may use 64-bit descriptors.

	NameInline    NameMode = 0x1 // NameInline reads the name from the fixed 32-byte header field.
	NameOutOfLine NameMode = 0x2 // NameOutOfLine reads the name through a header offset.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (r Revision) String() string {
	switch r {
	case RevisionInline:
		return "Inline"
	case RevisionOffset:
		return "Offset"
	default:
		return "Unknown"
	}
}

// NameMode returns the struct-name mode implied by the revision.
func (r Revision) NameMode() NameMode {
	if r == RevisionOffset {
		return NameOutOfLine
	}

	return NameInline
}

func (m NameMode) String() string {
	switch m {
	case NameInline:
		return "Inline"
	case NameOutOfLine:
		return "OutOfLine"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-sensitive codec name to its CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none", "None":
		return CompressionNone, true
	case "zstd", "Zstd":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
