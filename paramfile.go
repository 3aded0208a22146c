// Package paramfile reads and writes versioned parameter tables: fixed-size binary
// records addressed by a 32-bit row ID, preceded by a small metadata prefix and a
// self-describing header.
//
// Parameter tables are produced by a family of game toolchains that changed the
// header layout several times. A table can store its struct name inline or out of
// line, use 32-bit or 64-bit row descriptors, and be written in either byte order.
// paramfile classifies the layout once when the table is opened and then gives
// zero-copy typed access to the rows.
//
// # Core Features
//
//   - Layout detection for every known header revision
//   - Zero-copy typed row views over the caller's buffer
//   - O(log n) ID lookup through the sorted lookup table
//   - Read and write scopes guarded by a per-table RWMutex
//   - Shift-JIS and UTF-16 row names
//   - An encoder that produces tables for either revision
//   - Row diffs and compressed row snapshots (None, Zstd, S2, LZ4)
//
// # Basic Usage
//
// Opening a table and reading typed rows:
//
//	type EquipParamWeapon struct {
//	    AttackBase int32
//	    Weight     float32
//	    // ...
//	}
//
//	tbl, _ := paramfile.OpenFile("EquipParamWeapon.param")
//	_ = paramfile.Read(tbl, func(v param.View[EquipParamWeapon]) error {
//	    if w, ok := v.GetByID(100); ok {
//	        fmt.Println(w.AttackBase)
//	    }
//	    return nil
//	})
//
// Producing a table:
//
//	enc, _ := paramfile.NewDefaultEncoder("EQUIP_PARAM_WEAPON_ST")
//	_ = param.AddRecord(enc, 100, "Longsword", &weapon)
//	buf, _ := enc.Finish()
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the param package,
// simplifying the most common use cases. For advanced usage, use the param,
// section and snapshot packages directly.
package paramfile

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/paramfile/param"
	"github.com/arloliu/paramfile/snapshot"
)

// Open parses buf as a parameter table.
//
// The table aliases buf; writes through Write scopes are visible in buf.
// See param.New for the validation performed.
func Open(buf []byte, opts ...param.TableOption) (*param.Table, error) {
	return param.New(buf, opts...)
}

// OpenFile reads the file at path and parses it as a parameter table.
//
// The file must hold the metadata prefix followed by the table, as written by
// param.Encoder. Archive containers are not unpacked. The file is read into a
// buffer from param.NewBuffer, so typed views work for any record alignment.
func OpenFile(path string, opts ...param.TableOption) (*param.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read param file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("read param file: %w", err)
	}

	buf := param.NewBuffer(int(info.Size()))
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("read param file: %w", err)
	}

	return param.New(buf, opts...)
}

// NewEncoder creates a table encoder with custom options.
//
// Available options:
//   - param.WithRevision(format.RevisionInline|RevisionOffset)
//   - param.With64BitOffsets(true|false)
//   - param.WithLittleEndian() / param.WithBigEndian()
//   - param.WithStructName(name)
//   - param.WithParamdefVersion(version)
//   - param.WithUTF16RowNames(true|false)
//   - param.WithFormatVersion(version)
func NewEncoder(opts ...param.EncoderOption) (*param.Encoder, error) {
	return param.NewEncoder(opts...)
}

// NewDefaultEncoder creates an encoder with the recommended settings for new tables:
// out-of-line struct name, 32-bit descriptors, little-endian, Shift-JIS row names.
//
// Parameters:
//   - structName: The struct name recorded in the table header.
//
// Returns:
//   - *param.Encoder: The created encoder.
//   - error: An error if structName is not a valid struct name.
func NewDefaultEncoder(structName string) (*param.Encoder, error) {
	return param.NewEncoder(
		param.WithLittleEndian(),
		param.WithStructName(structName),
	)
}

// Read runs fn with a read-only typed view of tbl. See param.Read.
func Read[T any](tbl *param.Table, fn func(param.View[T]) error) error {
	return param.Read(tbl, fn)
}

// Write runs fn with a mutable typed view of tbl. See param.Write.
func Write[T any](tbl *param.Table, fn func(param.MutView[T]) error) error {
	return param.Write(tbl, fn)
}

// Snapshot captures the rows of tbl. See snapshot.Capture.
func Snapshot(tbl *param.Table, opts ...snapshot.Option) (*snapshot.Snapshot, error) {
	return snapshot.Capture(tbl, opts...)
}
