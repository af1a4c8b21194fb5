package typecheck

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/google/go-cmp/cmp"
	"github.com/jaswdr/faker"
)

func classify(name string, values ...any) Properties {
	return NewClassifier(DefaultOptions(), nil).Classify(name, values)
}

func TestClassifyCurrency(t *testing.T) {
	p := classify("price", "$1,200.50", "$75.00", "$3,000.00")
	if p.Type != TypeNumber || p.Subtype != SubCurrency {
		t.Fatalf("expected number/currency, got %s/%s", p.Type, p.Subtype)
	}
	if p.Supplement.Symbol != "$" {
		t.Fatalf("symbol = %q, want $", p.Supplement.Symbol)
	}
	if p.PotentialConcern {
		t.Fatalf("expected no concern for a full match")
	}
}

func TestClassifyQuarter(t *testing.T) {
	p := classify("period", "Q1 2023", "2nd Quarter 2023", "Q3'23")
	if p.Type != TypeDateTime || p.Subtype != SubQuarter {
		t.Fatalf("expected datetime/quarter, got %s/%s", p.Type, p.Subtype)
	}
}

func TestClassifyBooleanWithStray(t *testing.T) {
	p := classify("flag", "true", "FALSE", "T", "1", "maybe")
	if p.Subtype != SubBoolean || p.Type != TypeUnique {
		t.Fatalf("expected unique/boolean, got %s/%s", p.Type, p.Subtype)
	}
	if !p.PotentialConcern {
		t.Fatalf("expected concern with one unmapped value")
	}
}

func TestClassifyBlankColumn(t *testing.T) {
	vals := []any{nil, "", " ", "n/a", nil, nil, "", nil, "N/A", nil, "example"}
	p := classify("notes", vals...)
	if p.Type != TypeBlank || p.Subtype != SubNull {
		t.Fatalf("expected blank/null, got %s/%s", p.Type, p.Subtype)
	}
	want := Supplement{Null: 8, Missing: 2, Default: 1, Match: 1}
	if diff := cmp.Diff(want, p.Supplement); diff != "" {
		t.Fatalf("supplement mismatch (-want +got):\n%s", diff)
	}
	if p.Total != 0 {
		t.Fatalf("total = %d, want 0", p.Total)
	}
}

func TestClassifyShortBlankColumnIsNotBlank(t *testing.T) {
	p := classify("notes", nil, "", "n/a")
	if p.Type == TypeBlank {
		t.Fatalf("fewer than ten rows must not be classified blank")
	}
}

func TestWholePromotedToID(t *testing.T) {
	var vals []any
	for i := 1; i <= 200; i++ {
		vals = append(vals, i)
	}
	p := classify("account_id", vals...)
	if p.Type != TypeUnique || p.Subtype != SubID {
		t.Fatalf("expected unique/id, got %s/%s", p.Type, p.Subtype)
	}
}

func TestClassifyEmailFromFaker(t *testing.T) {
	f := faker.NewWithSeed(rand.NewSource(7))
	var vals []any
	for i := 0; i < 40; i++ {
		vals = append(vals, f.Internet().Email())
	}
	p := classify("contact email", vals...)
	if p.Subtype != SubEmail {
		t.Fatalf("expected email, got %s/%s (problems %v)", p.Type, p.Subtype, p.PotentialProblem)
	}
}

func TestClassifyDatesAndTimes(t *testing.T) {
	cases := []struct {
		name string
		vals []any
		want string
	}{
		{"signup_date", []any{"2023-01-05", "2023-02-10", "2023-03-15", "2023-04-20"}, SubDate},
		{"start", []any{"14:30:00", "09:15:00", "23:59:59"}, SubTime},
		{"growth", []any{"45%", "67%", "12%", "89%", "50%"}, SubPercent},
		{"status", []any{"open", "closed", "open", "pending"}, SubStatus},
	}
	for _, tc := range cases {
		p := classify(tc.name, tc.vals...)
		if p.Subtype != tc.want {
			t.Fatalf("%s: subtype = %s, want %s", tc.name, p.Subtype, tc.want)
		}
	}
}

func TestPotentialProblemsRecorded(t *testing.T) {
	p := classify("value", "1.5", "2.5", "abc", "def", "ghi")
	if p.Subtype != SubGeneral {
		t.Fatalf("expected general, got %s", p.Subtype)
	}
	if diff := cmp.Diff([]string{SubDecimal}, p.PotentialProblem); diff != "" {
		t.Fatalf("potential problems mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyCategoryBeforeTextAndLocation(t *testing.T) {
	var vals []any
	for i := 0; i < 20; i++ {
		vals = append(vals, []string{"North", "South", "East", "West"}[i%4])
	}
	p := classify("region", vals...)
	if p.Type != TypeUnique || p.Subtype != SubCategory {
		t.Fatalf("expected unique/category, got %s/%s", p.Type, p.Subtype)
	}
}

func TestPartialUniqueMatchesRecorded(t *testing.T) {
	p := classify("answer", "true", "false", "true", "maybe", "later", "soon")
	if p.Type == TypeUnique {
		t.Fatalf("expected the column to fall through the unique group, got %s/%s", p.Type, p.Subtype)
	}
	if len(p.PotentialProblem) == 0 || p.PotentialProblem[0] != SubBoolean {
		t.Fatalf("potential problems = %v, want boolean first", p.PotentialProblem)
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	var vals []any
	for i := 0; i < 1000; i++ {
		vals = append(vals, fmt.Sprintf("v%d", i))
	}
	a := frame.Sample(vals, 256, 42)
	b := frame.Sample(vals, 256, 42)
	if len(a) != 256 {
		t.Fatalf("sample size = %d, want 256", len(a))
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("seeded samples differ:\n%s", diff)
	}
}

func TestHeader(t *testing.T) {
	if got := Header("  Order Date "); got != "order_date" {
		t.Fatalf("Header = %q, want order_date", got)
	}
}
