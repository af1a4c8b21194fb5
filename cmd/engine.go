package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/analysis"
	"github.com/KaramelBytes/shadowdb-cli/internal/parser"
	"github.com/KaramelBytes/shadowdb-cli/internal/registry"
	"github.com/spf13/cobra"
)

// Source flags shared by every command that reads a file.
var (
	srcDelimiter  string
	srcMaxRows    int
	srcSheetName  string
	srcSheetIndex int
)

func addSourceFlags(c *cobra.Command) {
	c.Flags().StringVar(&srcDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|'")
	c.Flags().IntVar(&srcMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	c.Flags().StringVar(&srcSheetName, "sheet-name", "", "XLSX: sheet name to load")
	c.Flags().IntVar(&srcSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func sourceOptions() (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	if srcMaxRows > 0 {
		opt.MaxRows = srcMaxRows
	}
	opt.SheetName = strings.TrimSpace(srcSheetName)
	if srcSheetIndex > 0 {
		opt.SheetIndex = srcSheetIndex
	}
	switch srcDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	case "|", "pipe":
		opt.Delimiter = '|'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", srcDelimiter)
	}
	return opt, nil
}

// newRegistry builds an engine from the loaded config, or from defaults
// when no config could be loaded.
func newRegistry() *registry.Registry {
	opts := registry.DefaultOptions()
	if cfg != nil {
		opts = cfg.RegistryOptions()
	}
	return registry.New(opts, logger)
}

// registerFiles loads and registers each path into reg, returning the table
// names in order.
func registerFiles(reg *registry.Registry, paths ...string) ([]string, error) {
	opt, err := sourceOptions()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, p := range paths {
		raw, err := parser.ParseFileWith(p, opt)
		if err != nil {
			return names, err
		}
		if _, err := reg.RegisterTable(raw); err != nil {
			return names, fmt.Errorf("register %s: %w", p, err)
		}
		names = append(names, raw.Name)
	}
	return names, nil
}

// openFile registers a single source and returns the registry and table.
func openFile(path string) (*registry.Registry, *registry.Table, error) {
	reg := newRegistry()
	names, err := registerFiles(reg, path)
	if err != nil {
		return nil, nil, err
	}
	t, err := reg.Table(names[0])
	if err != nil {
		return nil, nil, err
	}
	return reg, t, nil
}
