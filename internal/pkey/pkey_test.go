package pkey

import (
	"testing"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/google/go-cmp/cmp"
)

func props(name, subtype string) typecheck.Properties {
	return typecheck.Properties{ColName: name, Subtype: subtype}
}

func TestInferSequentialOrderID(t *testing.T) {
	cols := []frame.Series{
		frame.NewSeries("order_id", []any{int64(1), int64(2), int64(3), int64(4), int64(5)}),
		frame.NewSeries("customer", []any{"Ann", "Bo", "Ann", "Cy", "Bo"}),
	}
	got := New(nil).Infer("CustomerOrders", cols, []typecheck.Properties{props("order_id", typecheck.SubID), props("customer", typecheck.SubGeneral)})
	if got.Column != "order_id" || got.Synthesized {
		t.Fatalf("expected order_id, got %+v", got)
	}
	if got.Score <= floor {
		t.Fatalf("score = %v, want above %v", got.Score, floor)
	}
}

func TestInferSynthesizesKey(t *testing.T) {
	cols := []frame.Series{
		frame.NewSeries("product", []any{"apple", "apple", "pear", "plum"}),
		frame.NewSeries("note", []any{"a fairly long sentence", "short", "mid length", "x"}),
	}
	got := New(nil).Infer("dailyOrders", cols, []typecheck.Properties{props("product", typecheck.SubCategory), props("note", typecheck.SubGeneral)})
	want := Choice{Column: "do_id", Synthesized: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("choice mismatch (-want +got):\n%s", diff)
	}
}

func TestInferTiesKeepFirstCandidate(t *testing.T) {
	vals := []any{int64(10), int64(11), int64(12)}
	cols := []frame.Series{frame.NewSeries("a_id", vals), frame.NewSeries("b_id", vals)}
	ps := []typecheck.Properties{props("a_id", typecheck.SubID), props("b_id", typecheck.SubID)}
	if got := New(nil).Infer("t", cols, ps); got.Column != "a_id" {
		t.Fatalf("expected the first of two equal candidates, got %s", got.Column)
	}
}

func TestInferSkipsColumnsWithNulls(t *testing.T) {
	cols := []frame.Series{frame.NewSeries("user_id", []any{int64(1), nil, int64(3)})}
	ps := []typecheck.Properties{{ColName: "user_id", Subtype: typecheck.SubID, Supplement: typecheck.Supplement{Null: 1}}}
	got := New(nil).Infer("users", cols, ps)
	if !got.Synthesized || got.Column != "users_id" {
		t.Fatalf("expected a synthesized key avoiding user_id's nulls, got %+v", got)
	}
}

func TestInferAvoidsNameCollision(t *testing.T) {
	cols := []frame.Series{frame.NewSeries("do_id", []any{"a", "a"})}
	got := New(nil).Infer("dailyOrders", cols, []typecheck.Properties{props("do_id", typecheck.SubCategory)})
	if got.Column != "do_pk" {
		t.Fatalf("expected do_pk, got %+v", got)
	}
}

func TestInferOnlyConsidersLateNumericColumns(t *testing.T) {
	seq := []any{int64(0), int64(1), int64(2), int64(3)}
	cols := []frame.Series{
		frame.NewSeries("a", []any{"x", "x", "y", "y"}),
		frame.NewSeries("b", []any{"x", "x", "y", "y"}),
		frame.NewSeries("c", []any{"x", "x", "y", "y"}),
		frame.NewSeries("label", []any{"w", "x", "y", "z"}),
		frame.NewSeries("row_key", seq),
	}
	ps := []typecheck.Properties{
		props("a", typecheck.SubCategory), props("b", typecheck.SubCategory), props("c", typecheck.SubCategory),
		props("label", typecheck.SubGeneral), props("row_key", typecheck.SubWhole),
	}
	if got := New(nil).Infer("events", cols, ps); got.Column != "row_key" {
		t.Fatalf("expected row_key, got %+v", got)
	}
}

func TestKeyName(t *testing.T) {
	cases := map[string]string{
		"dailyOrders":                  "do_id",
		"customer_order_lines":         "col_id",
		"CustomerOrdersHistoryArchive": "coh_id",
		"transactions":                 "transaction_id",
		"users":                        "users_id",
		"HTTPServerLogs":               "hsl_id",
		"__":                           "row_id",
	}
	for in, want := range cases {
		if got := KeyName(in); got != want {
			t.Fatalf("KeyName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOverlap(t *testing.T) {
	if got := Overlap("order_id", "CustomerOrders"); got != 0.5 {
		t.Fatalf("Overlap = %v, want 0.5", got)
	}
	if got := Overlap("zip", "people"); got != 0 {
		t.Fatalf("Overlap = %v, want 0", got)
	}
}

func TestSequence(t *testing.T) {
	col, p := Sequence("do_id", []int64{0, 1, 2})
	if diff := cmp.Diff([]any{int64(0), int64(1), int64(2)}, col.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if p.Type != typecheck.TypeUnique || p.Subtype != typecheck.SubID {
		t.Fatalf("expected unique/id, got %s/%s", p.Type, p.Subtype)
	}
}
