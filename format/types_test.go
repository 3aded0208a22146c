package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevisionString(t *testing.T) {
	require.Equal(t, "Inline", RevisionInline.String())
	require.Equal(t, "Offset", RevisionOffset.String())
	require.Equal(t, "Unknown", RevisionUnknown.String())
	require.Equal(t, "Unknown", Revision(0x7F).String())
}

func TestRevisionNameMode(t *testing.T) {
	require.Equal(t, NameInline, RevisionInline.NameMode())
	require.Equal(t, NameOutOfLine, RevisionOffset.NameMode())
	require.Equal(t, "OutOfLine", NameOutOfLine.String())
	require.Equal(t, "Unknown", NameMode(0).String())
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
		ok   bool
	}{
		{"none", CompressionNone, true},
		{"zstd", CompressionZstd, true},
		{"S2", CompressionS2, true},
		{"lz4", CompressionLZ4, true},
		{"gzip", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCompressionType(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
			if ok {
				require.NotEqual(t, "Unknown", got.String())
			}
		})
	}
}
