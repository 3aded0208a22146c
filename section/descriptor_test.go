package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
)

func TestDescriptorLayout_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		layout DescriptorLayout
		desc   RowDescriptor
		engine endian.EndianEngine
	}{
		{"narrow little", LayoutFor(false), RowDescriptor{ID: 10, DataOffset: 96, NameOffset: 300}, endian.GetLittleEndianEngine()},
		{"narrow big max", LayoutFor(false), RowDescriptor{ID: math.MaxUint32, DataOffset: math.MaxUint32, NameOffset: 0}, endian.GetBigEndianEngine()},
		{"wide little", LayoutFor(true), RowDescriptor{ID: 20, DataOffset: 1 << 40, NameOffset: 1<<40 + 8}, endian.GetLittleEndianEngine()},
		{"wide big", LayoutFor(true), RowDescriptor{ID: 30, DataOffset: 128, NameOffset: 512}, endian.GetBigEndianEngine()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.layout.Size()+4)
			next := tt.layout.WriteToSlice(buf, 4, tt.desc, tt.engine)
			require.Equal(t, 4+tt.layout.Size(), next)

			got := tt.layout.Read(buf[4:], tt.engine)
			require.Equal(t, tt.desc, got)
		})
	}
}

func TestDescriptorLayout_Sizes(t *testing.T) {
	require.Equal(t, NarrowDescriptorSize, LayoutFor(false).Size())
	require.Equal(t, WideDescriptorSize, LayoutFor(true).Size())
	require.Equal(t, uint64(math.MaxUint32), LayoutFor(false).MaxOffset())
	require.Equal(t, uint64(math.MaxUint64), LayoutFor(true).MaxOffset())
}

func TestDescriptorLayout_WidePadding(t *testing.T) {
	buf := make([]byte, WideDescriptorSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	LayoutFor(true).WriteToSlice(buf, 0, RowDescriptor{ID: 1, DataOffset: 2, NameOffset: 3}, endian.GetLittleEndianEngine())

	require.Equal(t, []byte{0, 0, 0, 0}, buf[4:8])
}

func buildDescriptorTable(t *testing.T, c Classification, descs []RowDescriptor) []byte {
	t.Helper()

	layout := c.DescriptorLayout()
	table := make([]byte, c.DescriptorStart()+len(descs)*layout.Size())
	off := c.DescriptorStart()
	for _, d := range descs {
		off = layout.WriteToSlice(table, off, d, c.Engine)
	}

	return table
}

func TestDescriptorTable(t *testing.T) {
	descs := []RowDescriptor{
		{ID: 20, DataOffset: 64},
		{ID: 10, DataOffset: 96},
		{ID: 30, DataOffset: 128},
	}

	for _, wideOffsets := range []bool{false, true} {
		c := Classification{
			RowCount:          3,
			Uses64BitOffsets:  wideOffsets,
			HasExtendedHeader: wideOffsets,
			Engine:            endian.GetLittleEndianEngine(),
		}
		table := buildDescriptorTable(t, c, descs)

		dt, err := NewDescriptorTable(table, c)
		require.NoError(t, err)
		require.Equal(t, 3, dt.Len())

		for i, want := range descs {
			got, ok := dt.At(i)
			require.True(t, ok)
			require.Equal(t, want, got)

			off, ok := dt.DataOffset(i)
			require.True(t, ok)
			require.Equal(t, want.DataOffset, off)
		}

		_, ok := dt.At(3)
		require.False(t, ok)
		_, ok = dt.DataOffset(-1)
		require.False(t, ok)

		_, err = NewDescriptorTable(table[:len(table)-1], c)
		require.ErrorIs(t, err, errs.ErrDescriptorOutOfRange)
	}
}
