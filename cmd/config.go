package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/shadowdb-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ShadowDB configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "sample_size: %d\n", cfg.SampleSize)
		fmt.Fprintf(out, "format_sample_size: %d\n", cfg.FormatSampleSize)
		fmt.Fprintf(out, "format_min_votes: %d\n", cfg.FormatMinVotes)
		fmt.Fprintf(out, "seed: %d\n", cfg.Seed)
		fmt.Fprintf(out, "subtype_limit: %.3f\n", cfg.SubtypeLimit)
		fmt.Fprintf(out, "hint_limit: %.3f\n", cfg.HintLimit)
		fmt.Fprintf(out, "page_size: %d\n", cfg.PageSize)
		fmt.Fprintf(out, "na_sentinel: %s\n", cfg.NASentinel)
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "db_path: %s\n", cfg.DBPath)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "log_level":
			switch val {
			case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
				cfg.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "sample_size", "format_sample_size", "format_min_votes", "page_size":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			switch key {
			case "sample_size":
				cfg.SampleSize = i
			case "format_sample_size":
				cfg.FormatSampleSize = i
			case "format_min_votes":
				cfg.FormatMinVotes = i
			default:
				cfg.PageSize = i
			}
		case "seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %w", err)
			}
			cfg.Seed = i
		case "subtype_limit", "hint_limit":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid ratio for %s: %v (use 0 < x <= 1)", key, val)
			}
			if key == "subtype_limit" {
				cfg.SubtypeLimit = f
			} else {
				cfg.HintLimit = f
			}
		case "na_sentinel":
			cfg.NASentinel = val
		case "data_dir":
			cfg.DataDir = val
		case "db_path":
			cfg.DBPath = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
