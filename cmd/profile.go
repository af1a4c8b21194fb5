package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/analysis"
	"github.com/KaramelBytes/shadowdb-cli/internal/registry"
	"github.com/KaramelBytes/shadowdb-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	profOutputPath string
	profFormat     string
	profSampleRows int
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Register a CSV/TSV/XLSX/JSON table and print its schema report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, t, err := openFile(args[0])
		if err != nil {
			return err
		}
		out, err := renderReport(reg, t.Name, profFormat, profSampleRows)
		if err != nil {
			return err
		}
		if profOutputPath != "" {
			if err := utils.SafeWriteFile(profOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", profOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func renderReport(reg *registry.Registry, table, format string, sampleRows int) (string, error) {
	rep, err := analysis.BuildReport(reg, table, sampleRows)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		return rep.Markdown(), nil
	case "yaml", "yml":
		return rep.YAML()
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown|yaml)", format)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the report")
	profileCmd.Flags().StringVarP(&profFormat, "format", "f", "markdown", "report format: markdown|yaml")
	profileCmd.Flags().IntVar(&profSampleRows, "sample-rows", 5, "number of sample rows to include")
	addSourceFlags(profileCmd)
}
