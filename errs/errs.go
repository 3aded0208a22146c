// Package errs defines the sentinel errors returned by the paramfile packages.
//
// Errors are compared with errors.Is; call sites wrap them with fmt.Errorf("%w: ...")
// to add the offending values.
package errs

import "errors"

// Header and classification errors.
var (
	// ErrInvalidHeaderSize is returned when a buffer is too short to hold the metadata prefix and header.
	ErrInvalidHeaderSize = errors.New("invalid header size")
	// ErrUnknownRevision is returned when the revision tag does not name a supported layout.
	// It is fatal for the table: no partial interpretation is attempted.
	ErrUnknownRevision = errors.New("unrecognized param file revision")
	// ErrInvalidEndianMarker is returned when the endian marker byte is neither 0x00 nor 0xFF.
	ErrInvalidEndianMarker = errors.New("invalid endian marker")
	// ErrRowCountMismatch is returned when the header and metadata prefix disagree on the row count.
	ErrRowCountMismatch = errors.New("row count mismatch between header and metadata")
	// ErrDescriptorOutOfRange is returned when the descriptor array does not fit in the buffer.
	ErrDescriptorOutOfRange = errors.New("row descriptor array out of range")
	// ErrLookupOutOfRange is returned when the lookup table does not fit in the buffer.
	ErrLookupOutOfRange = errors.New("lookup table out of range")
	// ErrOffsetOutOfRange is returned when an offset points outside the buffer.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

// Typed access errors.
var (
	// ErrRecordSizeMismatch is returned when a record type is larger than the table's row size.
	ErrRecordSizeMismatch = errors.New("record type larger than row size")
	// ErrUnknownRowSize is returned by raw row access, checksums and diffs when the
	// row size could not be inferred and was not set with WithRowSize.
	ErrUnknownRowSize = errors.New("row size unknown")
	// ErrStructNameMismatch is returned by schema-gated access when the table's struct name differs.
	ErrStructNameMismatch = errors.New("struct name mismatch")
	// ErrByteOrderMismatch is returned when typed access is requested on a table whose byte order
	// differs from the host byte order.
	ErrByteOrderMismatch = errors.New("table byte order differs from host byte order")
	// ErrInvalidRecordType is returned when a record type is zero-sized or contains pointers.
	ErrInvalidRecordType = errors.New("invalid record type")
	// ErrMisalignedRecord is returned when the table base is not aligned for a record type.
	ErrMisalignedRecord = errors.New("table not aligned for record type")
	// ErrTableBusy is returned by TryWrite when another scope holds the table.
	ErrTableBusy = errors.New("table is busy")
)

// Encoder errors.
var (
	ErrDuplicateRowID    = errors.New("duplicate row id")
	ErrRowSizeMismatch   = errors.New("row payload size mismatch")
	ErrNoRows            = errors.New("no rows added")
	ErrTooManyRows       = errors.New("too many rows")
	ErrInvalidStructName = errors.New("invalid struct name")
	ErrInvalidRevision   = errors.New("invalid revision option")
)

// Snapshot errors.
var (
	ErrInvalidSnapshot  = errors.New("invalid snapshot")
	ErrSnapshotChecksum = errors.New("snapshot checksum mismatch")
	ErrIncompatibleRows = errors.New("snapshot rows incompatible with table")
)
