// Package hash computes the xxHash64 digests used to compare rows.
package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Row returns the xxHash64 of one row payload.
func Row(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}

// Digest accumulates (id, payload) pairs into a single checksum.
// Feeding the same rows in the same order always yields the same sum.
type Digest struct {
	d   *xxhash.Digest
	buf [4]byte
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// WriteRow adds one row to the digest.
func (d *Digest) WriteRow(id uint32, payload []byte) {
	binary.LittleEndian.PutUint32(d.buf[:], id)
	_, _ = d.d.Write(d.buf[:])
	_, _ = d.d.Write(payload)
}

// Sum64 returns the current checksum.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}
