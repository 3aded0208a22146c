package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// maxLZ4DecodedSize bounds the allocation made for a corrupted length prefix.
const maxLZ4DecodedSize = 1 << 30

var errLZ4Length = errors.New("lz4: invalid length prefix")

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses with LZ4 block encoding.
//
// The block is prefixed with the uvarint length of the original data, so
// decompression allocates its output once.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data into a length-prefixed LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	prefix := binary.PutUvarint(dst, uint64(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[prefix:])
	if err != nil {
		return nil, err
	}

	return dst[:prefix+n], nil
}

// Decompress decodes a length-prefixed LZ4 block.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size, prefix := binary.Uvarint(data)
	if prefix <= 0 || size == 0 || size > maxLZ4DecodedSize {
		return nil, errLZ4Length
	}

	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data[prefix:], dst)
	if err != nil {
		return nil, err
	}
	if uint64(n) != size {
		return nil, fmt.Errorf("%w: decoded %d bytes, want %d", errLZ4Length, n, size)
	}

	return dst, nil
}
