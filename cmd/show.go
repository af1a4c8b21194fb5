package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/registry"
	"github.com/spf13/cobra"
)

var (
	showColumns []string
	showOffset  int
	showLimit   int
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a page of display values, with unconvertible originals restored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, t, err := openFile(args[0])
		if err != nil {
			return err
		}
		return printPage(cmd.OutOrStdout(), reg, t, showColumns, showOffset, showLimit)
	},
}

// printPage writes rows [offset, offset+limit) of the chosen columns, all
// columns when none are named.
func printPage(w io.Writer, reg *registry.Registry, t *registry.Table, columns []string, offset, limit int) error {
	if len(columns) == 0 {
		for _, c := range t.Columns {
			columns = append(columns, c.Name)
		}
	}
	if limit <= 0 {
		limit = reg.PageSize()
	}
	pages := make([][]any, len(columns))
	for i, c := range columns {
		page, err := reg.RenderForDisplay(t.Name, c, offset, limit)
		if err != nil {
			return err
		}
		pages[i] = page
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "row\t%s\n", strings.Join(columns, "\t"))
	for r := 0; len(pages) > 0 && r < len(pages[0]); r++ {
		cells := make([]string, len(pages))
		for i, p := range pages {
			cells[i] = frame.Stringify(p[r])
		}
		fmt.Fprintf(tw, "%d\t%s\n", offset+r, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringSliceVarP(&showColumns, "column", "c", nil, "column(s) to show (repeatable; default all)")
	showCmd.Flags().IntVar(&showOffset, "offset", 0, "first row to show")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "rows to show (0 = page size)")
	addSourceFlags(showCmd)
}
