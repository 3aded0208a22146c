package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/paramfile"
	"github.com/arloliu/paramfile/param"
)

// newRootCmd builds the paramdump command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "paramdump",
		Short: "Inspect parameter table files",
		Long: `paramdump inspects parameter table files: the metadata prefix and header,
the rows in ID order, differences between two tables and compressed row snapshots.

Files must hold a single table as written by param.Encoder. Archive containers
are not unpacked.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().Int("row-size", 0, "Row size in bytes, 0 infers it from the table layout")

	rootCmd.AddCommand(newHeaderCmd())
	rootCmd.AddCommand(newRowsCmd())
	rootCmd.AddCommand(newDiffCmd())
	rootCmd.AddCommand(newSnapshotCmd())

	return rootCmd
}

// Execute runs paramdump with os.Args. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadTable opens path honoring the persistent --row-size flag.
func loadTable(cmd *cobra.Command, path string) (*param.Table, error) {
	rowSize, _ := cmd.Flags().GetInt("row-size")

	var opts []param.TableOption
	if rowSize > 0 {
		opts = append(opts, param.WithRowSize(rowSize))
	}

	return paramfile.OpenFile(path, opts...)
}
