package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editColumn string
	editRow    int64
	editValue  string
	editSave   bool
)

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Apply a cell edit, validated against the column type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if editColumn == "" {
			return fmt.Errorf("--column is required")
		}
		reg, t, err := openFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ok, msg := reg.UpdateCell(t.Name, editColumn, editRow, editValue)
		if ok {
			fmt.Fprintf(out, "✓ %s\n", msg)
		} else {
			fmt.Fprintf(out, "✗ %s\n", msg)
		}
		if _, found := t.Index(editColumn); found {
			if err := printPage(out, reg, t, []string{editColumn}, int(editRow), 1); err != nil {
				return err
			}
			if err := printIssues(out, reg.Ledger().ColumnIssues(t.Name, editColumn)); err != nil {
				return err
			}
		}
		if editSave {
			id, err := saveSnapshot(cmd, reg, t.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Saved snapshot %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editColumn, "column", "c", "", "column to edit")
	editCmd.Flags().Int64VarP(&editRow, "row", "r", 0, "row id to edit")
	editCmd.Flags().StringVarP(&editValue, "value", "v", "", "new cell value")
	editCmd.Flags().BoolVar(&editSave, "save", false, "save a snapshot of the edited table")
	addSourceFlags(editCmd)
}
