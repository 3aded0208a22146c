package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/paramfile/param"
)

type rowReport struct {
	Index  int    `yaml:"index"`
	ID     uint32 `yaml:"id"`
	Name   string `yaml:"name,omitempty"`
	Offset uint64 `yaml:"offset"`
	Data   string `yaml:"data,omitempty"`
}

type rowsOptions struct {
	format string
	limit  int
	bytes  int
}

func newRowsCmd() *cobra.Command {
	opts := rowsOptions{}

	rowsCmd := &cobra.Command{
		Use:   "rows <file>",
		Short: "List the rows of a table in ID order",
		Long: `List the rows of a parameter table in ascending ID order with their
descriptor index, name, data offset and leading payload bytes.

Examples:
  paramdump rows EquipParamWeapon.param
  paramdump rows EquipParamWeapon.param --format yaml --limit 20 --bytes 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "table" && opts.format != "yaml" {
				return fmt.Errorf("unknown format %q, want table or yaml", opts.format)
			}

			tbl, err := loadTable(cmd, args[0])
			if err != nil {
				return err
			}

			rows, err := collectRows(tbl, opts.limit, opts.bytes)
			if err != nil {
				return err
			}

			if opts.format == "yaml" {
				return writeYAML(cmd.OutOrStdout(), rows)
			}

			return writeRowTable(cmd.OutOrStdout(), rows)
		},
	}

	rowsCmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table or yaml")
	rowsCmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum number of rows to print, 0 prints all")
	rowsCmd.Flags().IntVar(&opts.bytes, "bytes", 16, "Payload bytes to print per row, 0 prints the whole row")

	return rowsCmd
}

// collectRows reports up to limit rows in ID order, each with at most maxBytes
// payload bytes. Rows whose payload falls outside the table are listed without data.
func collectRows(tbl *param.Table, limit, maxBytes int) ([]rowReport, error) {
	rows := make([]rowReport, 0, tbl.RowCount())

	err := param.ReadRaw(tbl, func(v param.RawView) error {
		for id := range tbl.IDs() {
			if limit > 0 && len(rows) >= limit {
				break
			}

			index, ok := tbl.FindIndex(id)
			if !ok {
				continue
			}
			desc, _ := tbl.Descriptor(index)
			name, _, err := tbl.RowName(index)
			if err != nil {
				return fmt.Errorf("row %d: %w", id, err)
			}

			report := rowReport{Index: index, ID: id, Name: name, Offset: desc.DataOffset}
			if data, ok := v.RowBytes(index); ok {
				if maxBytes > 0 && len(data) > maxBytes {
					data = data[:maxBytes]
				}
				report.Data = hex.EncodeToString(data)
			}
			rows = append(rows, report)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func writeRowTable(w io.Writer, rows []rowReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tID\tOFFSET\tNAME\tDATA")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t0x%x\t%s\t%s\n", r.Index, r.ID, r.Offset, r.Name, r.Data)
	}

	return tw.Flush()
}
