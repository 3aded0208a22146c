package param

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/section"
)

func TestNewEncoder_Options(t *testing.T) {
	tests := []struct {
		name    string
		opts    []EncoderOption
		wantErr error
	}{
		{name: "defaults", opts: nil},
		{name: "nil option", opts: []EncoderOption{nil}},
		{name: "unknown revision", opts: []EncoderOption{WithRevision(format.RevisionUnknown)}, wantErr: errs.ErrInvalidRevision},
		{
			name:    "inline with 64-bit offsets",
			opts:    []EncoderOption{WithRevision(format.RevisionInline), With64BitOffsets(true)},
			wantErr: errs.ErrInvalidRevision,
		},
		{
			name:    "inline name too long",
			opts:    []EncoderOption{WithRevision(format.RevisionInline), WithStructName(strings.Repeat("A", section.StructNameSize))},
			wantErr: errs.ErrInvalidStructName,
		},
		{
			name: "longest inline name",
			opts: []EncoderOption{WithRevision(format.RevisionInline), WithStructName(strings.Repeat("A", section.StructNameSize-1))},
		},
		{
			name: "long out-of-line name",
			opts: []EncoderOption{WithStructName(strings.Repeat("A", 200))},
		},
		{name: "name with NUL", opts: []EncoderOption{WithStructName("BAD\x00NAME")}, wantErr: errs.ErrInvalidStructName},
		{name: "name not UTF-8", opts: []EncoderOption{WithStructName("\xff\xfe")}, wantErr: errs.ErrInvalidStructName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncoder(tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, enc)

				return
			}
			require.NoError(t, err)
			require.NotNil(t, enc)
		})
	}
}

func TestEncoder_AddRowErrors(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	err = enc.AddRow(1, "", nil)
	require.ErrorIs(t, err, errs.ErrRowSizeMismatch)

	require.NoError(t, enc.AddRow(1, "first", make([]byte, 8)))

	err = enc.AddRow(2, "", make([]byte, 9))
	require.ErrorIs(t, err, errs.ErrRowSizeMismatch)

	err = enc.AddRow(1, "again", make([]byte, 8))
	require.ErrorIs(t, err, errs.ErrDuplicateRowID)

	require.Equal(t, 1, enc.RowCount())

	buf, err := enc.Finish()
	require.NoError(t, err)

	tbl, err := New(buf)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.RowCount())

	name, ok, err := tbl.RowName(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "first", name)

	_, err = enc.Finish()
	require.Error(t, err)
	require.Error(t, enc.AddRow(3, "", make([]byte, 8)))
}

func TestEncoder_NoRows(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	_, err = enc.Finish()
	require.ErrorIs(t, err, errs.ErrNoRows)
}

func TestEncoder_TooManyRows(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	payload := []byte{0}
	for i := range section.MaxRowCount {
		require.NoError(t, enc.AddRow(uint32(i), "", payload))
	}

	err = enc.AddRow(section.MaxRowCount, "", payload)
	require.ErrorIs(t, err, errs.ErrTooManyRows)

	buf, err := enc.Finish()
	require.NoError(t, err)

	tbl, err := New(buf)
	require.NoError(t, err)
	require.Equal(t, section.MaxRowCount, tbl.RowCount())
	require.Equal(t, 1, tbl.RowSize())
}

func TestEncoder_Layout(t *testing.T) {
	for _, wide := range []bool{false, true} {
		buf := encodeEntries(t, sampleEntries, With64BitOffsets(wide), WithStructName("LAYOUT_ST"), WithFormatVersion(5))

		require.Zero(t, uintptr(unsafe.Pointer(&buf[section.MetadataSize]))%8, "table base alignment")

		meta, err := section.ParseMetadata(buf)
		require.NoError(t, err)
		require.Equal(t, uint32(len(sampleEntries)), meta.RowCount)

		table := buf[section.MetadataSize:]
		h, err := section.ParseHeader(table)
		require.NoError(t, err)
		require.Equal(t, uint8(5), h.FormatVersion)
		require.Zero(t, h.DataOffset%section.LookupAlignment)

		nameOff := h.StructNameOffset()
		require.NotZero(t, nameOff)
		require.Equal(t, "LAYOUT_ST\x00", string(table[nameOff:nameOff+10]))
		require.Equal(t, uint32(nameOff+10), meta.AfterNameOffset)

		require.Equal(t, len(table), meta.LookupOffset()+len(sampleEntries)*section.LookupEntrySize)

		lookup, err := section.NewLookupTable(table, meta, h.Engine())
		require.NoError(t, err)
		var prev uint32
		for pos := range lookup.Len() {
			entry, ok := lookup.At(pos)
			require.True(t, ok)
			require.Greater(t, entry.ID, prev)
			require.Equal(t, sampleEntries[entry.Index].id, entry.ID)
			prev = entry.ID
		}
	}
}

func TestAddRecord(t *testing.T) {
	if !hostLittleEndian() {
		t.Skip("records are encoded in host byte order")
	}

	enc, err := NewEncoder(WithStructName("SAMPLE_PARAM_ST"))
	require.NoError(t, err)

	for _, e := range sampleEntries {
		row := e.row
		require.NoError(t, AddRecord(enc, e.id, e.name, &row))
	}

	buf, err := enc.Finish()
	require.NoError(t, err)

	tbl, err := New(buf)
	require.NoError(t, err)

	err = ReadAs(tbl, "SAMPLE_PARAM_ST", func(v View[sampleRow]) error {
		for _, e := range sampleEntries {
			row, ok := v.GetByID(e.id)
			require.True(t, ok)
			require.Equal(t, e.row, *row)
		}

		return nil
	})
	require.NoError(t, err)

	t.Run("foreign byte order", func(t *testing.T) {
		enc, err := NewEncoder(WithBigEndian())
		require.NoError(t, err)

		row := sampleEntries[0].row
		require.ErrorIs(t, AddRecord(enc, 1, "", &row), errs.ErrByteOrderMismatch)
	})

	t.Run("pointer record", func(t *testing.T) {
		enc, err := NewEncoder()
		require.NoError(t, err)

		rec := struct{ Name string }{Name: "x"}
		require.ErrorIs(t, AddRecord(enc, 1, "", &rec), errs.ErrInvalidRecordType)
	})
}

func BenchmarkEncoder_Finish(b *testing.B) {
	payload := make([]byte, 64)
	for i := 0; i < b.N; i++ {
		enc, _ := NewEncoder()
		for id := range 512 {
			_ = enc.AddRow(uint32(id), "row", payload)
		}
		_, _ = enc.Finish()
	}
}
