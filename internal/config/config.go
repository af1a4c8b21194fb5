package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/shadowdb-cli/internal/convert"
	"github.com/KaramelBytes/shadowdb-cli/internal/display"
	"github.com/KaramelBytes/shadowdb-cli/internal/registry"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
)

// Global configuration structure.
type Global struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Sampling and thresholds used by classification and format inference
	SampleSize       int     `mapstructure:"sample_size" yaml:"sample_size"`
	FormatSampleSize int     `mapstructure:"format_sample_size" yaml:"format_sample_size"`
	FormatMinVotes   int     `mapstructure:"format_min_votes" yaml:"format_min_votes"`
	Seed             int64   `mapstructure:"seed" yaml:"seed"`
	SubtypeLimit     float64 `mapstructure:"subtype_limit" yaml:"subtype_limit"`
	HintLimit        float64 `mapstructure:"hint_limit" yaml:"hint_limit"`

	// Display
	PageSize   int    `mapstructure:"page_size" yaml:"page_size"`
	NASentinel string `mapstructure:"na_sentinel" yaml:"na_sentinel"`

	// Storage
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
}

// DefaultDir is ~/.shadowdb.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".shadowdb"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.shadowdb/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including a .env file in the working directory) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// A missing .env is fine; variables already set win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SHADOWDB")
	v.AutomaticEnv()

	d := typecheck.DefaultOptions()
	v.SetDefault("log_level", "info")
	v.SetDefault("sample_size", d.SampleSize)
	v.SetDefault("format_sample_size", d.FormatSampleSize)
	v.SetDefault("format_min_votes", d.FormatMinVotes)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("subtype_limit", d.SubtypeLimit)
	v.SetDefault("hint_limit", d.HintLimit)
	v.SetDefault("page_size", 256)
	v.SetDefault("na_sentinel", display.DefaultSentinel)
	v.SetDefault("data_dir", "")
	v.SetDefault("db_path", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DataDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		c.DataDir = dir
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "shadow.db")
	}
	return &c, nil
}

// TypecheckOptions maps the sampling settings onto the classifier.
func (c *Global) TypecheckOptions() typecheck.Options {
	return typecheck.Options{
		SampleSize:       c.SampleSize,
		FormatSampleSize: c.FormatSampleSize,
		FormatMinVotes:   c.FormatMinVotes,
		Seed:             c.Seed,
		SubtypeLimit:     c.SubtypeLimit,
		HintLimit:        c.HintLimit,
	}
}

// RegistryOptions builds the full engine configuration.
func (c *Global) RegistryOptions() registry.Options {
	tc := c.TypecheckOptions()
	return registry.Options{
		Typecheck: tc,
		Convert: convert.Options{
			SampleSize: c.FormatSampleSize,
			Seed:       c.Seed,
			Voter:      typecheck.NewFormatVoter(tc),
		},
		Display:  display.Options{Sentinel: c.NASentinel},
		PageSize: c.PageSize,
	}
}
