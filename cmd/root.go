package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/shadowdb-cli/internal/config"
	"github.com/KaramelBytes/shadowdb-cli/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	// Loaded configuration and process logger
	cfg    *cfgpkg.Global
	logger *logrus.Logger = logging.Setup("info")
)

var rootCmd = &cobra.Command{
	Use:   "shadowdb",
	Short: "ShadowDB CLI: infer column types, normalize values and track the cells that do not fit",
	Long: `ShadowDB classifies every column of a CSV, TSV, XLSX or JSON table into a semantic
type (currency, date, id, email, quarter, ...), converts the values to that type and keeps
each cell that failed conversion in a side ledger so the original can be shown and fixed.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.shadowdb/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = nil
	}
	cfg = c
	level := "info"
	if cfg != nil && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	if rootCmd.PersistentFlags().Changed("log-level") && logLevel != "" {
		level = logLevel
		if cfg != nil {
			cfg.LogLevel = logLevel
		}
	}
	logger = logging.Setup(level)
}
