package snapshot

import (
	"bytes"
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/paramfile/compress"
	"github.com/arloliu/paramfile/endian"
	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/internal/pool"
)

// Encoded layout, all integers little-endian:
//
//	Bytes    | Field          | Type
//	---------|----------------|-------------------------
//	0-3      | Magic          | "PSNP"
//	4        | Version        | uint8
//	5        | Compression    | format.CompressionType
//	6-7      | NameLength     | uint16
//	8-11     | RowSize        | uint32
//	12-15    | RowCount       | uint32
//	16-      | StructName     | NameLength bytes
//	         | IDs            | RowCount x uint32, ascending
//	         | PayloadLength  | uint32
//	         | Payload        | compressed rows
//	last 8   | Checksum       | uint64, see Snapshot.Checksum
const (
	magic          = "PSNP"
	encodedVersion = 1
	fixedSize      = 16
	checksumSize   = 8
)

// Encode serializes the snapshot, compressing the rows with the configured codec.
func (s *Snapshot) Encode() ([]byte, error) {
	data, _, err := s.EncodeWithStats()
	return data, err
}

// EncodeWithStats is Encode that also reports the payload compression result.
func (s *Snapshot) EncodeWithStats() ([]byte, compress.Stats, error) {
	if len(s.structName) > math.MaxUint16 {
		return nil, compress.Stats{}, fmt.Errorf("%w: struct name is %d bytes", errs.ErrInvalidStructName, len(s.structName))
	}

	codec, err := compress.GetCodec(s.compression)
	if err != nil {
		return nil, compress.Stats{}, err
	}

	payload, stats, err := compress.CompressWithStats(codec, s.compression, s.rows)
	if err != nil {
		return nil, compress.Stats{}, err
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, compress.Stats{}, fmt.Errorf("%w: payload is %d bytes", errs.ErrInvalidSnapshot, len(payload))
	}

	engine := endian.GetLittleEndianEngine()
	bb := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(bb)

	bb.Grow(fixedSize + len(s.structName) + 4*len(s.ids) + 4 + len(payload) + checksumSize)
	bb.B = append(bb.B, magic...)
	bb.B = append(bb.B, encodedVersion, byte(s.compression))
	bb.B = engine.AppendUint16(bb.B, uint16(len(s.structName))) //nolint: gosec
	bb.B = engine.AppendUint32(bb.B, uint32(s.rowSize))         //nolint: gosec
	bb.B = engine.AppendUint32(bb.B, uint32(len(s.ids)))        //nolint: gosec
	bb.B = append(bb.B, s.structName...)
	for _, id := range s.ids {
		bb.B = engine.AppendUint32(bb.B, id)
	}
	bb.B = engine.AppendUint32(bb.B, uint32(len(payload))) //nolint: gosec
	bb.MustWrite(payload)
	bb.B = engine.AppendUint64(bb.B, s.Checksum())

	return bytes.Clone(bb.Bytes()), stats, nil
}

// Decode parses an encoded snapshot and verifies its checksum.
//
// Returns errs.ErrInvalidSnapshot for structural problems and
// errs.ErrSnapshotChecksum when the decoded rows do not match the stored checksum.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < fixedSize+4+checksumSize || string(data[0:4]) != magic {
		return nil, fmt.Errorf("%w: missing header", errs.ErrInvalidSnapshot)
	}
	if data[4] != encodedVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidSnapshot, data[4])
	}

	engine := endian.GetLittleEndianEngine()
	compression := format.CompressionType(data[5])
	nameLen := int(engine.Uint16(data[6:8]))
	rowSize := int(engine.Uint32(data[8:12]))
	count := int(engine.Uint32(data[12:16]))

	r := reader{data: data[:len(data)-checksumSize], pos: fixedSize}

	name, ok := r.next(nameLen)
	if !ok {
		return nil, fmt.Errorf("%w: truncated struct name", errs.ErrInvalidSnapshot)
	}

	idBytes, ok := r.next(4 * count)
	if !ok {
		return nil, fmt.Errorf("%w: truncated id list", errs.ErrInvalidSnapshot)
	}
	ids := make([]uint32, count)
	for i := range ids {
		ids[i] = engine.Uint32(idBytes[4*i:])
	}
	if !slices.IsSorted(ids) {
		return nil, fmt.Errorf("%w: ids not ascending", errs.ErrInvalidSnapshot)
	}

	lenBytes, ok := r.next(4)
	if !ok {
		return nil, fmt.Errorf("%w: truncated payload length", errs.ErrInvalidSnapshot)
	}
	payload, ok := r.next(int(engine.Uint32(lenBytes)))
	if !ok || r.pos != len(r.data) {
		return nil, fmt.Errorf("%w: payload length mismatch", errs.ErrInvalidSnapshot)
	}

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	rows, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSnapshot, err)
	}
	if len(rows) != count*rowSize || (count > 0 && rowSize == 0) {
		return nil, fmt.Errorf("%w: %d payload bytes for %d rows of %d bytes", errs.ErrInvalidSnapshot, len(rows), count, rowSize)
	}

	s := &Snapshot{
		structName:  string(name),
		rowSize:     rowSize,
		ids:         ids,
		rows:        slices.Clip(bytes.Clone(rows)),
		compression: compression,
	}

	want := engine.Uint64(data[len(data)-checksumSize:])
	if got := s.Checksum(); got != want {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrSnapshotChecksum, got, want)
	}

	return s, nil
}

// reader hands out consecutive bounds-checked slices of data.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) next(n int) ([]byte, bool) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, false
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b, true
}
