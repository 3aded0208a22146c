package param

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/section"
)

func TestDiff(t *testing.T) {
	base := openEntries(t, sampleEntries, WithStructName("SAMPLE_PARAM_ST"))

	changed := make([]sampleEntry, 0, len(sampleEntries))
	for _, e := range sampleEntries {
		switch e.id {
		case 50:
			continue
		case 200:
			e.row.Limit = 1234
		}
		changed = append(changed, e)
	}
	changed = append(changed, sampleEntry{id: 400, name: "Spear", row: sampleRow{Value: 4}})
	other := openEntries(t, changed, WithStructName("SAMPLE_PARAM_ST"))

	changes, err := Diff(base, other)
	require.NoError(t, err)
	require.Equal(t, []RowChange{
		{ID: 50, Kind: RowRemoved},
		{ID: 200, Kind: RowModified},
		{ID: 400, Kind: RowAdded},
	}, changes)

	reverse, err := Diff(other, base)
	require.NoError(t, err)
	require.Equal(t, []RowChange{
		{ID: 50, Kind: RowAdded},
		{ID: 200, Kind: RowModified},
		{ID: 400, Kind: RowRemoved},
	}, reverse)
}

func TestDiff_Identical(t *testing.T) {
	a := openEntries(t, sampleEntries, WithRevision(format.RevisionInline))
	b := openEntries(t, sampleEntries, With64BitOffsets(true))

	changes, err := Diff(a, b)
	require.NoError(t, err)
	require.Empty(t, changes)

	changes, err = Diff(a, a)
	require.NoError(t, err)
	require.Empty(t, changes)

	sumA, err := a.Checksum()
	require.NoError(t, err)
	sumB, err := b.Checksum()
	require.NoError(t, err)
	require.Equal(t, sumA, sumB)
}

func TestDiff_Incompatible(t *testing.T) {
	a := openEntries(t, sampleEntries, WithStructName("A_ST"))
	b := openEntries(t, sampleEntries, WithStructName("B_ST"))

	_, err := Diff(a, b)
	require.ErrorIs(t, err, errs.ErrStructNameMismatch)

	enc, err := NewEncoder(WithStructName("A_ST"))
	require.NoError(t, err)
	require.NoError(t, enc.AddRow(1, "", make([]byte, 32)))
	buf, err := enc.Finish()
	require.NoError(t, err)
	c, err := New(buf)
	require.NoError(t, err)

	_, err = Diff(a, c)
	require.ErrorIs(t, err, errs.ErrRowSizeMismatch)
}

func TestChecksum_DetectsChange(t *testing.T) {
	tbl := openEntries(t, sampleEntries)
	before, err := tbl.Checksum()
	require.NoError(t, err)
	again, err := tbl.Checksum()
	require.NoError(t, err)
	require.Equal(t, before, again)

	err = WriteRaw(tbl, func(v RawView) error {
		row, ok := v.RowBytesByID(300)
		require.True(t, ok)
		row[len(row)-1] ^= 0xFF

		return nil
	})
	require.NoError(t, err)

	after, err := tbl.Checksum()
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

// unsizedTable builds a one-row table whose row lies past the buffer, so its
// row size cannot be inferred.
func unsizedTable(t *testing.T, id uint32) *Table {
	t.Helper()

	le := binary.LittleEndian
	const afterName = section.HeaderSize + section.NarrowDescriptorSize
	buf := alignedBuffer(section.MetadataSize + section.AlignUp(afterName, section.LookupAlignment) + section.LookupEntrySize)
	section.Metadata{RowCount: 1, AfterNameOffset: afterName}.WriteToSlice(buf, 0)

	table := buf[section.MetadataSize:]
	h := section.Header{RowCount: 1}
	copy(h.NameField[:], "UNSIZED_ST")
	h.WriteToSlice(table)
	section.LayoutFor(false).WriteToSlice(table, section.HeaderSize, section.RowDescriptor{ID: id, DataOffset: 0x10000}, le)
	section.LookupEntry{ID: id}.WriteToSlice(table, section.AlignUp(afterName, section.LookupAlignment), le)

	tbl, err := New(buf)
	require.NoError(t, err)
	require.Zero(t, tbl.RowSize())

	return tbl
}

func TestUnknownRowSize(t *testing.T) {
	a := unsizedTable(t, 1)
	b := unsizedTable(t, 2)

	_, err := a.Checksum()
	require.ErrorIs(t, err, errs.ErrUnknownRowSize)

	_, err = Diff(a, b)
	require.ErrorIs(t, err, errs.ErrUnknownRowSize)

	_, err = Diff(a, a)
	require.ErrorIs(t, err, errs.ErrUnknownRowSize)

	called := false
	err = ReadRaw(a, func(RawView) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, errs.ErrUnknownRowSize)
	require.ErrorIs(t, WriteRaw(a, func(RawView) error { return nil }), errs.ErrUnknownRowSize)
	require.False(t, called)

	// An explicit row size makes the rows reachable again, subject to bounds checks.
	sized, err := New(a.buf, WithRowSize(16))
	require.NoError(t, err)
	_, err = sized.Checksum()
	require.NoError(t, err)
}

func TestChangeKind_String(t *testing.T) {
	require.Equal(t, "added", RowAdded.String())
	require.Equal(t, "removed", RowRemoved.String())
	require.Equal(t, "modified", RowModified.String())
	require.Equal(t, "ChangeKind(9)", ChangeKind(9).String())
}
