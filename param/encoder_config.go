package param

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/internal/options"
	"github.com/arloliu/paramfile/section"
)

// initialRowCapacity is the starting capacity of the encoder's row list.
const initialRowCapacity = 64

// EncoderConfig holds the layout choices of an Encoder.
type EncoderConfig struct {
	revision        format.Revision
	wideOffsets     bool
	engine          endian.EndianEngine
	paramdefVersion uint16
	structName      string
	utf16Names      bool
	formatVersion   uint8
}

// newEncoderConfig returns the defaults: out-of-line struct name, 32-bit offsets,
// little-endian, Shift-JIS row names.
func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		revision: format.RevisionOffset,
		engine:   endian.GetLittleEndianEngine(),
	}
}

// validate checks option combinations that individual options cannot see.
func (c *EncoderConfig) validate() error {
	if _, err := section.RevisionFlagFor(c.revision, c.wideOffsets); err != nil {
		return err
	}

	name := c.structName
	if !utf8.ValidString(name) || strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: %q", errs.ErrInvalidStructName, name)
	}
	if c.revision == format.RevisionInline && len(name) >= section.StructNameSize {
		return fmt.Errorf("%w: inline name %q exceeds %d bytes", errs.ErrInvalidStructName, name, section.StructNameSize-1)
	}

	return nil
}

// Revision returns the layout family the encoder writes.
func (c *EncoderConfig) Revision() format.Revision {
	return c.revision
}

// Engine returns the byte order the encoder writes.
func (c *EncoderConfig) Engine() endian.EndianEngine {
	return c.engine
}

// EncoderOption is a functional option for configuring an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithRevision selects the layout family. The default is format.RevisionOffset.
func WithRevision(rev format.Revision) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		switch rev {
		case format.RevisionInline, format.RevisionOffset:
			c.revision = rev
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidRevision, rev)
		}
	})
}

// With64BitOffsets selects 24-byte descriptors with 64-bit offsets.
// Only the out-of-line revision supports them.
func With64BitOffsets(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.wideOffsets = enabled
	})
}

// WithLittleEndian writes a little-endian table. It is the default option.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian writes a big-endian table.
// Typed views cannot be opened over such a table on a little-endian host.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithParamdefVersion sets the schema version recorded in the header.
func WithParamdefVersion(version uint16) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.paramdefVersion = version
	})
}

// WithStructName sets the declared record-type name.
// Inline tables hold at most 31 bytes; the name must be UTF-8 without NUL bytes.
func WithStructName(name string) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.structName = name
	})
}

// WithUTF16RowNames stores row names as UTF-16 in the table's byte order instead of Shift-JIS.
func WithUTF16RowNames(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.utf16Names = enabled
	})
}

// WithFormatVersion sets the informational format version byte.
func WithFormatVersion(version uint8) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.formatVersion = version
	})
}
