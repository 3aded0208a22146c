package param

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"unsafe"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/internal/collision"
	"github.com/arloliu/paramfile/internal/options"
	"github.com/arloliu/paramfile/internal/pool"
	"github.com/arloliu/paramfile/section"
)

var errEncoderFinished = errors.New("encoder already finished")

// encodedRow is the bookkeeping for one added row, in storage order.
type encodedRow struct {
	id      uint32
	nameOff int // offset within the names buffer, -1 when the row has no name
}

// Encoder builds a complete param file: metadata prefix, header, descriptors,
// row data, row names, struct name and lookup table.
//
// Rows keep the order they were added in; the lookup table is sorted by ID.
//
// Note: The Encoder is NOT thread-safe and NOT reusable. After Finish, create a new Encoder.
type Encoder struct {
	*EncoderConfig

	tracker  *collision.Tracker
	rows     []encodedRow
	payloads []byte
	names    *pool.ByteBuffer
	rowSize  int
	finished bool
}

// NewEncoder creates an Encoder.
//
// Parameters:
//   - opts: Layout options (WithRevision, With64BitOffsets, WithBigEndian, ...)
//
// Returns:
//   - *Encoder: The encoder
//   - error: errs.ErrInvalidRevision or errs.ErrInvalidStructName for invalid options
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Encoder{
		EncoderConfig: cfg,
		tracker:       collision.NewTracker(initialRowCapacity),
		rows:          make([]encodedRow, 0, initialRowCapacity),
		names:         pool.GetNameBuffer(),
	}, nil
}

// RowCount returns the number of rows added so far.
func (e *Encoder) RowCount() int {
	return e.tracker.Count()
}

// AddRow appends a row.
//
// Every payload must have the same non-zero length, fixed by the first row.
// An empty name stores no name (name offset 0). The payload is copied verbatim,
// so multi-byte fields must already be in the encoder's byte order.
//
// Returns errs.ErrDuplicateRowID, errs.ErrRowSizeMismatch or errs.ErrTooManyRows.
func (e *Encoder) AddRow(id uint32, name string, payload []byte) error {
	if e.finished {
		return errEncoderFinished
	}

	if len(e.rows) >= section.MaxRowCount {
		return fmt.Errorf("%w: limit is %d", errs.ErrTooManyRows, section.MaxRowCount)
	}

	if len(payload) == 0 || (e.rowSize != 0 && len(payload) != e.rowSize) {
		return fmt.Errorf("%w: row %d has %d bytes, want %d", errs.ErrRowSizeMismatch, id, len(payload), e.rowSize)
	}

	var encodedName []byte
	if name != "" {
		var err error
		if encodedName, err = section.EncodeRowName(name, e.utf16Names, e.engine); err != nil {
			return err
		}
	}

	if _, err := e.tracker.TrackID(id); err != nil {
		return err
	}

	nameOff := -1
	if encodedName != nil {
		nameOff = e.names.Len()
		e.names.MustWrite(encodedName)
	}

	if e.rowSize == 0 {
		e.rowSize = len(payload)
	}

	e.rows = append(e.rows, encodedRow{id: id, nameOff: nameOff})
	e.payloads = append(e.payloads, payload...)

	return nil
}

// AddRecord appends a row whose payload is the in-memory bytes of rec.
//
// T has the same restrictions as for typed views. The encoder must write in
// host byte order, otherwise errs.ErrByteOrderMismatch is returned.
func AddRecord[T any](e *Encoder, id uint32, name string, rec *T) error {
	if !endian.CompareNativeEndian(e.engine) {
		return errs.ErrByteOrderMismatch
	}

	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 || hasPointers(reflect.TypeFor[T]()) {
		return fmt.Errorf("%w: %s", errs.ErrInvalidRecordType, reflect.TypeFor[T]())
	}

	return e.AddRow(id, name, unsafe.Slice((*byte)(unsafe.Pointer(rec)), size))
}

// Finish lays out the table and returns the encoded bytes, metadata prefix included.
//
// The returned slice can be passed to New directly. Its table base is 16-byte
// aligned so that typed views can be opened over it.
//
// Returns errs.ErrNoRows if no row was added, or errs.ErrOffsetOutOfRange if an
// offset does not fit the selected descriptor width.
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, errEncoderFinished
	}
	e.finished = true
	defer func() {
		pool.PutNameBuffer(e.names)
		e.names = nil
	}()

	n := len(e.rows)
	if n == 0 {
		return nil, errs.ErrNoRows
	}

	flag, err := section.RevisionFlagFor(e.revision, e.wideOffsets)
	if err != nil {
		return nil, err
	}

	header := section.Header{
		ParamdefVersion: e.paramdefVersion,
		RowCount:        uint16(n), //nolint: gosec
		EndianMarker:    endian.Marker(e.engine),
		Flag:            flag,
		FormatVersion:   e.formatVersion,
	}
	if e.utf16Names {
		header.ExtraFlags |= section.ExtraUTF16RowNames
	}

	layout := section.LayoutFor(e.wideOffsets)
	descStart := header.Size()
	dataStart := section.AlignUp(descStart+n*layout.Size(), section.LookupAlignment)
	stringsOffset := dataStart + len(e.payloads)
	namesEnd := stringsOffset + e.names.Len()

	afterName := namesEnd
	structNameOffset := 0
	if e.revision.NameMode() == format.NameOutOfLine && e.structName != "" {
		structNameOffset = namesEnd
		afterName = namesEnd + len(e.structName) + 1
	}

	lookupStart := section.AlignUp(afterName, section.LookupAlignment)
	total := lookupStart + n*section.LookupEntrySize

	if uint64(total) > math.MaxUint32 || uint64(total) > layout.MaxOffset() {
		return nil, fmt.Errorf("%w: table size %d", errs.ErrOffsetOutOfRange, total)
	}

	header.StringsOffset = uint32(stringsOffset) //nolint: gosec
	header.DataOffset = uint64(dataStart)
	if dataStart <= math.MaxUint16 {
		header.ShortDataOffset = uint16(dataStart)
	}

	switch e.revision.NameMode() {
	case format.NameInline:
		copy(header.NameField[:], e.structName)
	case format.NameOutOfLine:
		header.SetStructNameOffset(uint32(structNameOffset)) //nolint: gosec
	}

	buf := NewBuffer(section.MetadataSize + total)

	meta := section.Metadata{RowCount: uint32(n), AfterNameOffset: uint32(afterName)} //nolint: gosec
	meta.WriteToSlice(buf, 0)

	table := buf[section.MetadataSize:]
	header.WriteToSlice(table)

	lookup := make([]section.LookupEntry, n)
	pos := descStart
	for i, row := range e.rows {
		d := section.RowDescriptor{
			ID:         row.id,
			DataOffset: uint64(dataStart + i*e.rowSize),
		}
		if row.nameOff >= 0 {
			d.NameOffset = uint64(stringsOffset + row.nameOff)
		}
		pos = layout.WriteToSlice(table, pos, d, e.engine)
		lookup[i] = section.LookupEntry{ID: row.id, Index: uint32(i)} //nolint: gosec
	}

	copy(table[dataStart:], e.payloads)
	copy(table[stringsOffset:], e.names.Bytes())
	if structNameOffset != 0 {
		copy(table[structNameOffset:], e.structName)
	}

	slices.SortFunc(lookup, func(a, b section.LookupEntry) int {
		return cmp.Compare(a.ID, b.ID)
	})

	pos = lookupStart
	for _, entry := range lookup {
		pos = entry.WriteToSlice(table, pos, e.engine)
	}

	return buf, nil
}
