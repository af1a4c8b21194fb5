package display

import (
	"fmt"
	"testing"
	"time"

	"github.com/KaramelBytes/shadowdb-cli/internal/convert"
	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/shadow"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/google/go-cmp/cmp"
)

func TestRenderCurrencyRestoresOriginals(t *testing.T) {
	ledger := shadow.NewLedger()
	ledger.Append("t", shadow.Issue{RowID: 1, Column: "price", IssueType: shadow.Problem, IssueSubtype: shadow.Unsupported, OriginalValue: "ask me"})
	page := frame.NewSeries("price", []any{1200.5, nil, -75.0, nil})
	props := typecheck.Properties{Subtype: typecheck.SubCurrency, Supplement: typecheck.Supplement{Symbol: "$"}}

	got := New(ledger, Options{}, nil).Render("t", page, props)
	want := []any{"$1,200.50", "ask me", "-$75.00", DefaultSentinel}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderPageTranslatesIssueRows(t *testing.T) {
	ledger := shadow.NewLedger()
	vals := make([]any, 600)
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range vals {
		vals[i] = base.AddDate(0, 0, i)
	}
	vals[300] = nil
	ledger.Append("t", shadow.Issue{RowID: 300, Column: "day", IssueType: shadow.Problem, IssueSubtype: shadow.Unsupported, OriginalValue: "31/02/2023"})
	ledger.Append("t", shadow.Issue{RowID: 10, Column: "day", IssueType: shadow.Problem, IssueSubtype: shadow.Unsupported, OriginalValue: "off page"})

	col := frame.NewSeries("day", vals)
	props := typecheck.Properties{Subtype: typecheck.SubDate}
	props.Supplement.SetFormat(typecheck.SubDate, "%Y-%m-%d")
	props.Supplement.Offset = 256

	got := New(ledger, Options{}, nil).Render("t", col.Slice(256, 256), props)
	if len(got) != 256 {
		t.Fatalf("page length = %d, want 256", len(got))
	}
	if got[44] != "31/02/2023" {
		t.Fatalf("row 300 rendered %v, want original value at local index 44", got[44])
	}
	if got[0] != base.AddDate(0, 0, 256).Format("2006-01-02") {
		t.Fatalf("first row = %v", got[0])
	}
}

func TestRenderFailureFillsSentinel(t *testing.T) {
	page := frame.NewSeries("score", []any{1.5, "oops", 2.0})
	props := typecheck.Properties{Subtype: typecheck.SubDecimal}
	got := New(shadow.NewLedger(), Options{Sentinel: "NA"}, nil).Render("t", page, props)
	if diff := cmp.Diff([]any{"NA", "NA", "NA"}, got); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderNamesAndPercent(t *testing.T) {
	r := New(shadow.NewLedger(), Options{}, nil)
	month := typecheck.Properties{Subtype: typecheck.SubMonth}
	month.Supplement.SetFormat(typecheck.SubMonth, "%b")
	got := r.Render("t", frame.NewSeries("m", []any{int64(1), int64(12), int64(13), int64(0)}), month)
	if diff := cmp.Diff([]any{"Jan", "Dec", DefaultSentinel, DefaultSentinel}, got); diff != "" {
		t.Fatalf("month mismatch (-want +got):\n%s", diff)
	}

	week := typecheck.Properties{Subtype: typecheck.SubWeek}
	week.Supplement.SetFormat(typecheck.SubWeek, "%A")
	got = r.Render("t", frame.NewSeries("w", []any{int64(1), int64(7)}), week)
	if diff := cmp.Diff([]any{"Monday", "Sunday"}, got); diff != "" {
		t.Fatalf("week mismatch (-want +got):\n%s", diff)
	}

	pct := typecheck.Properties{Subtype: typecheck.SubPercent}
	got = r.Render("t", frame.NewSeries("p", []any{0.4512, -0.05}), pct)
	if diff := cmp.Diff([]any{"45.12%", "-5.00%"}, got); diff != "" {
		t.Fatalf("percent mismatch (-want +got):\n%s", diff)
	}
}

func TestQuarterGrammar(t *testing.T) {
	cases := []struct {
		v      float64
		format string
		want   string
	}{
		{2023.25, "%q %Y", "Q2 2023"},
		{2023.5, "%o %Q %Y", "3rd Quarter 2023"},
		{2023.75, "%-I %Q %Y", "Fourth Quarter 2023"},
		{2023.0, "%Y%q", "2023Q1"},
		{2023.0, "%q%y", "Q1'23"},
		{2023.25, "%Q %I %Y", "Quarter 2 2023"},
		{0.5, "%q %Y", "Q3"},
		{2023.9, "%q %Y", "--"},
	}
	r := New(shadow.NewLedger(), Options{Sentinel: "--"}, nil)
	for _, tc := range cases {
		if got := r.Quarter(tc.v, tc.format); got != tc.want {
			t.Fatalf("Quarter(%v, %q) = %q, want %q", tc.v, tc.format, got, tc.want)
		}
	}
}

func TestQuarterRenderParseRoundTrip(t *testing.T) {
	r := New(shadow.NewLedger(), Options{}, nil)
	formats := []string{"%q %Y", "%q %y", "%Y%q", "%q%y", "%o %Q %Y", "%o %Q %y", "%-I %Q %Y", "%-I %Q %y", "%Q %I %Y", "%Q %I %y"}
	for _, f := range formats {
		for year := 1999; year <= 2024; year += 25 {
			for q := 1; q <= 4; q++ {
				v := convert.EncodeQuarter(year, q)
				s := r.Quarter(v, f)
				got, ok := convert.ParseQuarter(s)
				if !ok || got != v {
					t.Fatalf("format %q: %q parsed to %v (ok=%v), want %v", f, s, got, ok, v)
				}
			}
		}
	}
}

func ExampleRenderer_Currency() {
	r := New(shadow.NewLedger(), Options{}, nil)
	fmt.Println(r.Currency(1234567.891, "€"))
	// Output: €1,234,567.89
}
