// Package compress provides the codecs used for row snapshot payloads.
//
// A snapshot stores every captured row back to back. Rows of one param share
// most of their bytes, so general-purpose compression works well on them.
//
// # Supported Algorithms
//
//   - format.CompressionNone: payload stored as is
//   - format.CompressionZstd: best ratio, the default for snapshots
//   - format.CompressionS2: fast, moderate ratio
//   - format.CompressionLZ4: fastest decompression
//
// All codecs are stateless values and safe for concurrent use; internal
// encoder and decoder state is pooled.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	compressed, err := codec.Compress(payload)
//	original, err := codec.Decompress(compressed)
//
// # Zstd Backends
//
// Zstd uses github.com/klauspost/compress/zstd by default. Building with cgo and
// the gozstd tag switches to the github.com/valyala/gozstd bindings:
//
//	go build -tags gozstd ./...
//
// Both produce standard zstd frames, so snapshots written by one build can be
// read by the other.
package compress
