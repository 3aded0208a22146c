package compress

// ZstdCompressor compresses with Zstandard.
//
// The implementation is chosen at build time: zstd_pure.go (klauspost/compress)
// by default, zstd_cgo.go (valyala/gozstd) with cgo and the gozstd tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
