package cmd

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// writeYAML encodes v as a YAML document with two-space indentation.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}

// checksumString renders a table or snapshot digest the way every command prints it.
func checksumString(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
