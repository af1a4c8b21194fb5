package store

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "shadow.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	in := Payload{
		Name:       "orders",
		PrimaryKey: "order_id",
		Columns:    []string{"order_id", "price"},
		Data:       [][]any{{1.0, 12.5}, {2.0, nil}},
		Schema:     []typecheck.Properties{{ColName: "order_id", Type: typecheck.TypeUnique, Subtype: typecheck.SubID}},
	}
	id, err := s.Save(ctx, in)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a generated data source id")
	}
	got, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	in.DataSourceID = id
	if diff := cmp.Diff(in, got, cmpopts.IgnoreFields(Payload{}, "CreatedAt")); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be stored")
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := s.Save(ctx, Payload{DataSourceID: "a", Name: "first", Columns: []string{}, Data: [][]any{{1.0}}, CreatedAt: older}); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if _, err := s.Save(ctx, Payload{DataSourceID: "b", Name: "second", Columns: []string{}, Data: [][]any{{1.0}, {2.0}}, CreatedAt: older.Add(time.Hour)}); err != nil {
		t.Fatalf("save b: %v", err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].DataSourceID != "b" || list[0].Rows != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Load(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on load, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	ts := time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		in   any
		want any
	}{
		{math.NaN(), nil},
		{math.Inf(1), nil},
		{1.5, 1.5},
		{ts, "2023-01-05T10:00:00Z"},
		{"x", "x"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
