package section

import (
	"fmt"

	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
)

// RevisionFlag is the revision tag stored at header byte 0x2D.
//
// Bit layout:
//   - Bit 0 (0x01): confirmation bit for the data-offset width
//   - Bit 1 (0x02): 32-bit data offset in the extended header
//   - Bit 2 (0x04): 64-bit descriptor offsets
//   - Bit 7 (0x80): out-of-line struct name
//
// Bits 3-6 are unassigned; a tag using them is an unknown revision.
type RevisionFlag uint8

// Layout is the part of a classification derived from the revision tag alone.
type Layout struct {
	Revision          format.Revision
	Uses64BitOffsets  bool
	HasExtendedHeader bool
}

// HasConfirm returns whether the confirmation bit is set.
func (f RevisionFlag) HasConfirm() bool {
	return f&FlagConfirm != 0
}

// HasIntDataOffset returns whether the 32-bit data offset bit is set.
func (f RevisionFlag) HasIntDataOffset() bool {
	return f&FlagIntDataOffset != 0
}

// HasLongDataOffset returns whether the 64-bit offset bit is set.
func (f RevisionFlag) HasLongDataOffset() bool {
	return f&FlagLongDataOffset != 0
}

// HasOffsetStructName returns whether the struct name is stored out of line.
func (f RevisionFlag) HasOffsetStructName() bool {
	return f&FlagOffsetStructName != 0
}

// Classify maps the tag onto a supported layout.
//
// Returns errs.ErrUnknownRevision for unassigned bits, for conflicting width bits,
// for 64-bit offsets on the inline revision, and for an unconfirmed 64-bit bit.
func (f RevisionFlag) Classify() (Layout, error) {
	if f&^KnownRevisionBits != 0 {
		return Layout{}, fmt.Errorf("%w: tag 0x%02X uses unassigned bits", errs.ErrUnknownRevision, uint8(f))
	}

	if f.HasIntDataOffset() && f.HasLongDataOffset() {
		return Layout{}, fmt.Errorf("%w: tag 0x%02X sets both offset widths", errs.ErrUnknownRevision, uint8(f))
	}

	layout := Layout{
		Revision:          format.RevisionInline,
		HasExtendedHeader: f.HasConfirm() && (f.HasIntDataOffset() || f.HasLongDataOffset()),
	}

	if !f.HasOffsetStructName() {
		if f.HasLongDataOffset() {
			return Layout{}, fmt.Errorf("%w: tag 0x%02X requests 64-bit offsets with an inline name", errs.ErrUnknownRevision, uint8(f))
		}

		return layout, nil
	}

	layout.Revision = format.RevisionOffset
	if f.HasLongDataOffset() {
		if !f.HasConfirm() {
			return Layout{}, fmt.Errorf("%w: tag 0x%02X has an unconfirmed 64-bit offset bit", errs.ErrUnknownRevision, uint8(f))
		}
		layout.Uses64BitOffsets = true
	}

	return layout, nil
}

// RevisionFlagFor builds the tag for a revision and width.
//
// The extended header is always requested, matching what current producers emit.
func RevisionFlagFor(rev format.Revision, wide bool) (RevisionFlag, error) {
	switch rev {
	case format.RevisionInline:
		if wide {
			return 0, fmt.Errorf("%w: inline revision has no 64-bit layout", errs.ErrInvalidRevision)
		}

		return FlagConfirm | FlagIntDataOffset, nil
	case format.RevisionOffset:
		if wide {
			return FlagOffsetStructName | FlagConfirm | FlagLongDataOffset, nil
		}

		return FlagOffsetStructName | FlagConfirm | FlagIntDataOffset, nil
	default:
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidRevision, rev)
	}
}
