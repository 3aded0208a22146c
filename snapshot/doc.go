// Package snapshot copies rows out of a param table into a compact, portable form.
//
// A Snapshot owns its bytes, so it stays valid after the table's buffer is
// released. It can be encoded with any codec from the compress package, decoded
// with checksum verification, and applied back to a table with the same struct
// name and row size:
//
//	snap, err := snapshot.Capture(tbl, snapshot.WithCompression(format.CompressionZstd))
//	data, err := snap.Encode()
//
//	restored, err := snapshot.Decode(data)
//	missing, err := restored.Apply(tbl)
//
// Row payloads are copied verbatim, so a snapshot can only be applied to a table
// with the same byte order as its source.
package snapshot
