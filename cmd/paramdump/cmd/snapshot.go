package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/paramfile/compress"
	"github.com/arloliu/paramfile/format"
	"github.com/arloliu/paramfile/snapshot"
)

type snapshotReport struct {
	StructName     string  `yaml:"struct_name"`
	Rows           int     `yaml:"rows"`
	RowSize        int     `yaml:"row_size"`
	Compression    string  `yaml:"compression"`
	OriginalSize   int64   `yaml:"original_size"`
	CompressedSize int64   `yaml:"compressed_size"`
	EncodedSize    int     `yaml:"encoded_size"`
	SpaceSavings   float64 `yaml:"space_savings"`
	Checksum       string  `yaml:"checksum"`
}

type snapshotOptions struct {
	compression string
	ids         []uint
	out         string
}

func newSnapshotCmd() *cobra.Command {
	opts := snapshotOptions{}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot <file>",
		Short: "Capture and encode the rows of a table",
		Long: `Capture the rows of a table into a compressed snapshot and print the
compression result. With --out the encoded snapshot is written to a file.

Examples:
  paramdump snapshot EquipParamWeapon.param --compression lz4
  paramdump snapshot EquipParamWeapon.param --ids 100,200 --out weapons.snap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, ok := format.ParseCompressionType(opts.compression)
			if !ok {
				return fmt.Errorf("unknown compression %q, want none, zstd, s2 or lz4", opts.compression)
			}

			tbl, err := loadTable(cmd, args[0])
			if err != nil {
				return err
			}

			captureOpts := []snapshot.Option{snapshot.WithCompression(ct)}
			if cmd.Flags().Changed("ids") {
				ids := make([]uint32, 0, len(opts.ids))
				for _, id := range opts.ids {
					if id > math.MaxUint32 {
						return fmt.Errorf("row id %d out of range", id)
					}
					ids = append(ids, uint32(id)) //nolint: gosec
				}
				captureOpts = append(captureOpts, snapshot.WithIDs(ids...))
			}

			snap, err := snapshot.Capture(tbl, captureOpts...)
			if err != nil {
				return err
			}

			data, stats, err := snap.EncodeWithStats()
			if err != nil {
				return err
			}

			if opts.out != "" {
				if err := os.WriteFile(opts.out, data, 0o644); err != nil { //nolint: gosec
					return fmt.Errorf("write snapshot: %w", err)
				}
			}

			return writeYAML(cmd.OutOrStdout(), buildSnapshotReport(snap, stats, len(data)))
		},
	}

	snapshotCmd.Flags().StringVar(&opts.compression, "compression", "zstd", "Payload codec: none, zstd, s2 or lz4")
	snapshotCmd.Flags().UintSliceVar(&opts.ids, "ids", nil, "Row IDs to capture, all rows when omitted")
	snapshotCmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the encoded snapshot to this file")

	return snapshotCmd
}

func buildSnapshotReport(snap *snapshot.Snapshot, stats compress.Stats, encodedSize int) snapshotReport {
	return snapshotReport{
		StructName:     snap.StructName(),
		Rows:           snap.Len(),
		RowSize:        snap.RowSize(),
		Compression:    stats.Algorithm.String(),
		OriginalSize:   stats.OriginalSize,
		CompressedSize: stats.CompressedSize,
		EncodedSize:    encodedSize,
		SpaceSavings:   math.Round(stats.SpaceSavings()*100) / 100,
		Checksum:       checksumString(snap.Checksum()),
	}
}
