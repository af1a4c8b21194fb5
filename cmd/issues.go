package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/shadow"
	"github.com/KaramelBytes/shadowdb-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	issColumn string
	issJSON   bool
)

var issuesCmd = &cobra.Command{
	Use:   "issues <file>",
	Short: "List the cells that could not be converted to their column type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, t, err := openFile(args[0])
		if err != nil {
			return err
		}
		var list []shadow.Issue
		if issColumn != "" {
			if _, ok := t.Index(issColumn); !ok {
				return fmt.Errorf("column not found: %s", issColumn)
			}
			list = reg.Ledger().ColumnIssues(t.Name, issColumn)
		} else {
			list = reg.Ledger().Issues(t.Name)
		}
		if issJSON {
			b, err := utils.PrettyJSON(list)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		return printIssues(cmd.OutOrStdout(), list)
	},
}

func printIssues(w io.Writer, list []shadow.Issue) error {
	if len(list) == 0 {
		fmt.Fprintln(w, "(no issues)")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "row\tcolumn\ttype\tsubtype\toriginal\trevised")
	for _, is := range list {
		revised := ""
		if is.RevisedTerm != nil {
			revised = *is.RevisedTerm
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", is.RowID, is.Column, is.IssueType, is.IssueSubtype, frame.Stringify(is.OriginalValue), revised)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(issuesCmd)
	issuesCmd.Flags().StringVarP(&issColumn, "column", "c", "", "only list issues of this column")
	issuesCmd.Flags().BoolVar(&issJSON, "json", false, "print issues as JSON")
	addSourceFlags(issuesCmd)
}
