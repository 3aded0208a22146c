package cmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/paramfile/errs"
	"github.com/arloliu/paramfile/param"
)

type headerReport struct {
	StructName      string `yaml:"struct_name"`
	Revision        string `yaml:"revision"`
	NameMode        string `yaml:"name_mode"`
	ByteOrder       string `yaml:"byte_order"`
	RowCount        int    `yaml:"row_count"`
	ParamdefVersion uint16 `yaml:"paramdef_version"`
	FormatVersion   uint8  `yaml:"format_version"`
	WideOffsets     bool   `yaml:"wide_offsets"`
	ExtendedHeader  bool   `yaml:"extended_header"`
	UTF16RowNames   bool   `yaml:"utf16_row_names"`
	StringsOffset   uint32 `yaml:"strings_offset"`
	DataOffset      uint64 `yaml:"data_offset,omitempty"`
	RowSize         int    `yaml:"row_size"`
	Checksum        string `yaml:"checksum,omitempty"`
}

func newHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <file>",
		Short: "Print the classified header of a table",
		Long: `Print the header of a parameter table as YAML: revision, struct name,
byte order, row count, descriptor width and the inferred row size.

Example:
  paramdump header EquipParamWeapon.param`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(cmd, args[0])
			if err != nil {
				return err
			}

			return writeHeader(cmd.OutOrStdout(), tbl)
		},
	}
}

// buildHeaderReport leaves the checksum empty when the row size is unknown.
func buildHeaderReport(tbl *param.Table) (headerReport, error) {
	c := tbl.Classification()
	h := tbl.Header()

	report := headerReport{
		StructName:      tbl.StructName(),
		Revision:        c.Revision.String(),
		NameMode:        c.NameMode.String(),
		ByteOrder:       c.Engine.String(),
		RowCount:        tbl.RowCount(),
		ParamdefVersion: c.ParamdefVersion,
		FormatVersion:   h.FormatVersion,
		WideOffsets:     c.Uses64BitOffsets,
		ExtendedHeader:  c.HasExtendedHeader,
		UTF16RowNames:   c.UTF16RowNames,
		StringsOffset:   h.StringsOffset,
		DataOffset:      h.DataOffset,
		RowSize:         tbl.RowSize(),
	}

	sum, err := tbl.Checksum()
	switch {
	case err == nil:
		report.Checksum = checksumString(sum)
	case !errors.Is(err, errs.ErrUnknownRowSize):
		return headerReport{}, err
	}

	return report, nil
}

func writeHeader(w io.Writer, tbl *param.Table) error {
	report, err := buildHeaderReport(tbl)
	if err != nil {
		return err
	}

	return writeYAML(w, report)
}
