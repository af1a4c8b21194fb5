package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.md")
	if err := SafeWriteFile(path, []byte("first")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := SafeWriteFile(path, []byte("second")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("content = %q, want second", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if string(b) != "{\n  \"ok\": true\n}" {
		t.Fatalf("unexpected json %q", b)
	}
	if _, err := PrettyJSON(math.NaN()); err == nil {
		t.Fatalf("expected an error for NaN")
	}
}
