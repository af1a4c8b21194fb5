package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/shadowdb-cli/internal/analysis"
	"github.com/KaramelBytes/shadowdb-cli/internal/parser"
	"github.com/google/go-cmp/cmp"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestParseFileJSON(t *testing.T) {
	p := write(t, "events.json", `[
		{"event_id": 1, "score": 2.5, "ok": true, "who": "ann"},
		{"event_id": 2, "who": "bo", "extra": null},
		{"event_id": 3, "score": "n/a", "ok": false, "who": "cy"}
	]`)
	tbl, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Name != "events" {
		t.Fatalf("name = %q, want events", tbl.Name)
	}
	var names []string
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"event_id", "score", "ok", "who", "extra"}, names); diff != "" {
		t.Fatalf("column order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{int64(1), int64(2), int64(3)}, tbl.Columns[0].Values); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{2.5, nil, "n/a"}, tbl.Columns[1].Values); diff != "" {
		t.Fatalf("scores mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{true, nil, false}, tbl.Columns[2].Values); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFileJSONErrors(t *testing.T) {
	if _, err := parser.ParseFile(write(t, "obj.json", `{"a": 1}`)); err == nil {
		t.Fatalf("expected an error for a top-level object")
	}
	if _, err := parser.ParseFile(write(t, "mixed.json", `[{"a": 1}, 2]`)); err == nil {
		t.Fatalf("expected an error for a non-object record")
	}
}

func TestParseFileJSONMaxRows(t *testing.T) {
	p := write(t, "rows.json", `[{"a": 1}, {"a": 2}, {"a": 3}]`)
	opt := analysis.DefaultOptions()
	opt.MaxRows = 1
	tbl, err := parser.ParseFileWith(p, opt)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Rows() != 1 || len(tbl.Warnings) != 1 {
		t.Fatalf("rows = %d, warnings = %v", tbl.Rows(), tbl.Warnings)
	}
}

func TestParseFileUnsupported(t *testing.T) {
	_, err := parser.ParseFile(write(t, "notes.txt", "hello"))
	if !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
