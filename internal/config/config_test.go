package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/shadowdb-cli/internal/display"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.SampleSize != 256 || c.FormatSampleSize != 128 || c.PageSize != 256 {
		t.Fatalf("unexpected sampling defaults: %+v", c)
	}
	if c.NASentinel != display.DefaultSentinel {
		t.Fatalf("na_sentinel = %q", c.NASentinel)
	}
	if filepath.Base(c.DBPath) != "shadow.db" || filepath.Dir(c.DBPath) != c.DataDir {
		t.Fatalf("db path %q not under data dir %q", c.DBPath, c.DataDir)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("page_size: 50\nseed: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHADOWDB_SEED", "99")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.PageSize != 50 {
		t.Fatalf("page_size = %d, want 50 from file", c.PageSize)
	}
	if c.Seed != 99 {
		t.Fatalf("seed = %d, want 99 from env", c.Seed)
	}
	if got := c.RegistryOptions(); got.PageSize != 50 || got.Typecheck.Seed != 99 || got.Convert.Voter.Seed != 99 {
		t.Fatalf("options not mapped: %+v", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	c := &Global{LogLevel: "debug", PageSize: 10, NASentinel: "NA", SampleSize: 64}
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.LogLevel != "debug" || got.PageSize != 10 || got.NASentinel != "NA" || got.SampleSize != 64 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
