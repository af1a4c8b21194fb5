package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/shadowdb-cli/internal/config"
	"github.com/KaramelBytes/shadowdb-cli/internal/registry"
	"github.com/KaramelBytes/shadowdb-cli/internal/store"
	"github.com/spf13/cobra"
)

var dbPath string

var saveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Register a table and store a snapshot of its typed data and schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, t, err := openFile(args[0])
		if err != nil {
			return err
		}
		id, err := saveSnapshot(cmd, reg, t.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s (%d rows, %d issues) as %s\n", t.Name, t.Rows(), reg.Ledger().Count(t.Name), id)
		return nil
	},
}

// resolveDBPath picks --db, then the configured path, then the default
// location under ~/.shadowdb.
func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	dir, err := config.DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shadow.db"), nil
}

func openStore(ctx context.Context) (*store.Store, error) {
	path, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, path)
}

func saveSnapshot(cmd *cobra.Command, reg *registry.Registry, table string) (string, error) {
	p, err := reg.Export(table)
	if err != nil {
		return "", err
	}
	ctx := commandContext(cmd)
	s, err := openStore(ctx)
	if err != nil {
		return "", err
	}
	defer s.Close()
	id, err := s.Save(ctx, p)
	if err != nil {
		return "", err
	}
	logger.WithField("table", table).WithField("id", id).Info("saved snapshot")
	return id, nil
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "snapshot database path (default is ~/.shadowdb/shadow.db)")
	addSourceFlags(saveCmd)
}
