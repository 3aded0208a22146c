package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/paramfile/param"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare the rows of two tables",
		Long: `Compare two tables with the same struct name and row size by row ID and
print every added, removed and modified row.

Example:
  paramdump diff old/EquipParamWeapon.param new/EquipParamWeapon.param`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldTbl, err := loadTable(cmd, args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			newTbl, err := loadTable(cmd, args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			changes, err := param.Diff(oldTbl, newTbl)
			if err != nil {
				return err
			}

			return writeChanges(cmd.OutOrStdout(), changes)
		},
	}
}

func writeChanges(w io.Writer, changes []param.RowChange) error {
	if len(changes) == 0 {
		_, err := fmt.Fprintln(w, "tables are identical")
		return err
	}

	for _, c := range changes {
		if _, err := fmt.Fprintf(w, "%-8s %d\n", c.Kind, c.ID); err != nil {
			return err
		}
	}

	return nil
}
