package param

import (
	"fmt"

	"github.com/arloliu/paramfile/internal/options"
)

// TableConfig holds the options applied when opening a Table.
type TableConfig struct {
	rowSize int
}

// TableOption is a functional option for configuring a Table.
type TableOption = options.Option[*TableConfig]

// WithRowSize fixes the row stride instead of inferring it from the descriptors.
//
// Use it when the record layout is known from the paramdef, or when a table's
// strings offset is missing and rows are not stored contiguously.
func WithRowSize(size int) TableOption {
	return options.New(func(c *TableConfig) error {
		if size <= 0 {
			return fmt.Errorf("invalid row size: %d", size)
		}
		c.rowSize = size

		return nil
	})
}
