package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/parser"
	"github.com/KaramelBytes/shadowdb-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	pbOutDir     string
	pbFormat     string
	pbSampleRows int
	pbQuiet      bool
)

var profileBatchCmd = &cobra.Command{
	Use:   "profile-batch <files...>",
	Short: "Register several files into one registry and write a report per table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		opt, err := sourceOptions()
		if err != nil {
			return err
		}

		// Same base names from different directories get a __N suffix
		var raws []*frame.RawTable
		used := map[string]int{}
		for i, path := range files {
			if !pbQuiet {
				fmt.Fprintf(out, "[%d/%d] Loading %s...\n", i+1, len(files), filepath.Base(path))
			}
			raw, err := parser.ParseFileWith(path, opt)
			if err != nil {
				return err
			}
			used[raw.Name]++
			if n := used[raw.Name]; n > 1 {
				raw.Name = fmt.Sprintf("%s__%d", raw.Name, n)
			}
			raws = append(raws, raw)
		}

		reg := newRegistry()
		if _, err := reg.RegisterTables(raws); err != nil {
			return err
		}

		ext := ".md"
		if pbFormat == "yaml" || pbFormat == "yml" {
			ext = ".yaml"
		}
		for _, raw := range raws {
			body, err := renderReport(reg, raw.Name, pbFormat, pbSampleRows)
			if err != nil {
				return err
			}
			if pbOutDir == "" {
				if !pbQuiet {
					fmt.Fprintln(out, body)
				}
				continue
			}
			dest := filepath.Join(pbOutDir, raw.Name+".profile"+ext)
			if err := utils.SafeWriteFile(dest, []byte(body)); err != nil {
				return err
			}
			if !pbQuiet {
				fmt.Fprintf(out, "✓ Wrote %s (%d issues)\n", dest, reg.Ledger().Count(raw.Name))
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist and drops
// duplicates. The result is sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(profileBatchCmd)
	profileBatchCmd.Flags().StringVar(&pbOutDir, "out-dir", "", "directory to write one report per table (stdout if empty)")
	profileBatchCmd.Flags().StringVarP(&pbFormat, "format", "f", "markdown", "report format: markdown|yaml")
	profileBatchCmd.Flags().IntVar(&pbSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables samples)")
	profileBatchCmd.Flags().BoolVar(&pbQuiet, "quiet", false, "suppress progress and non-essential output")
	addSourceFlags(profileBatchCmd)
}
