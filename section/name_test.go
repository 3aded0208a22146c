package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
)

func TestInlineStructName(t *testing.T) {
	field := make([]byte, StructNameSize)
	copy(field, "FOO_PARAM_ST\x00")
	for i := 13; i < len(field); i++ {
		field[i] = 0x20 // garbage padding after the terminator
	}
	require.Equal(t, "FOO_PARAM_ST", InlineStructName(field))

	t.Run("unterminated", func(t *testing.T) {
		full := make([]byte, StructNameSize)
		for i := range full {
			full[i] = 'A'
		}
		require.Equal(t, "", InlineStructName(full))
	})

	t.Run("empty", func(t *testing.T) {
		require.Equal(t, "", InlineStructName(make([]byte, StructNameSize)))
	})

	t.Run("invalid utf8", func(t *testing.T) {
		bad := make([]byte, StructNameSize)
		copy(bad, []byte{0xFF, 0xFE, 'A', 0})
		require.Equal(t, "", InlineStructName(bad))
	})
}

func TestOutOfLineStructName(t *testing.T) {
	table := make([]byte, 96)
	copy(table[80:], "BAR_PARAM_ST\x00")

	require.Equal(t, "BAR_PARAM_ST", OutOfLineStructName(table, 80))
	require.Equal(t, "", OutOfLineStructName(table, 0))
	require.Equal(t, "", OutOfLineStructName(table, 96))
	require.Equal(t, "", OutOfLineStructName(table, 0xFFFFFFFF))

	copy(table[90:], "XXXXXX")
	require.Equal(t, "", OutOfLineStructName(table, 90), "unterminated run")
}

func TestStructName(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		h := Header{Flag: FlagConfirm | FlagIntDataOffset}
		copy(h.NameField[:], "FOO_PARAM_ST")
		table := h.Bytes()
		c, err := h.Classify()
		require.NoError(t, err)

		require.Equal(t, "FOO_PARAM_ST", StructName(table, c))
	})

	t.Run("out of line", func(t *testing.T) {
		for _, marker := range []byte{endian.MarkerLittle, endian.MarkerBig} {
			h := Header{EndianMarker: marker, Flag: FlagOffsetStructName | FlagConfirm | FlagLongDataOffset}
			h.SetStructNameOffset(HeaderSize + ExtendedHeaderSize)
			table := append(h.Bytes(), "EQUIP_PARAM_WEAPON_ST\x00"...)
			c, err := h.Classify()
			require.NoError(t, err)

			require.Equal(t, "EQUIP_PARAM_WEAPON_ST", StructName(table, c))
		}
	})

	t.Run("out of line zero offset", func(t *testing.T) {
		h := Header{Flag: FlagOffsetStructName}
		table := h.Bytes()
		c, err := h.Classify()
		require.NoError(t, err)

		require.Equal(t, "", StructName(table, c))
	})

	t.Run("unknown mode", func(t *testing.T) {
		require.Equal(t, "", StructName(make([]byte, HeaderSize), Classification{NameMode: format.NameMode(9)}))
	})
}

func TestRowName_RoundTrip(t *testing.T) {
	names := []string{"ロングソード", "Dagger", "短剣 +3"}
	engines := []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()}

	for _, utf16 := range []bool{false, true} {
		for _, engine := range engines {
			c := Classification{UTF16RowNames: utf16, Engine: engine}
			for _, name := range names {
				encoded, err := EncodeRowName(name, utf16, engine)
				require.NoError(t, err)

				table := append(make([]byte, 8), encoded...)
				got, err := RowName(table, 8, c)
				require.NoError(t, err)
				require.Equal(t, name, got)
			}
		}
	}
}

func TestRowName_Errors(t *testing.T) {
	c := Classification{Engine: endian.GetLittleEndianEngine()}
	table := []byte{0, 'a', 'b'}

	name, err := RowName(table, 0, c)
	require.NoError(t, err)
	require.Equal(t, "", name)

	_, err = RowName(table, 3, c)
	require.ErrorIs(t, err, errs.ErrOffsetOutOfRange)

	_, err = RowName(table, 1, c)
	require.ErrorIs(t, err, errs.ErrOffsetOutOfRange, "unterminated")

	c.UTF16RowNames = true
	_, err = RowName([]byte{0, 'a', 0, 'b'}, 1, c)
	require.ErrorIs(t, err, errs.ErrOffsetOutOfRange, "unterminated utf-16")
}
