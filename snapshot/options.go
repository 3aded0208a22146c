package snapshot

import (
	"github.com/arloliu/paramfile/compress"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/internal/options"
)

// Config holds the options of Capture.
type Config struct {
	compression format.CompressionType
	ids         map[uint32]struct{}
}

func newConfig() *Config {
	return &Config{compression: format.CompressionZstd}
}

// Option is a functional option for Capture.
type Option = options.Option[*Config]

// WithCompression selects the payload codec used by Encode. The default is Zstd.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *Config) error {
		if _, err := compress.CreateCodec(ct, "snapshot"); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// WithIDs restricts the capture to the given row IDs.
// Repeating the option adds to the set.
func WithIDs(ids ...uint32) Option {
	return options.NoError(func(c *Config) {
		if c.ids == nil {
			c.ids = make(map[uint32]struct{}, len(ids))
		}
		for _, id := range ids {
			c.ids[id] = struct{}{}
		}
	})
}
