package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/registry"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
)

// outlierZ is the robust z-score (0.6745*|x-median|/MAD) above which a
// numeric value counts as an outlier.
const outlierZ = 3.5

// ColumnReport summarizes one registered column.
type ColumnReport struct {
	Name       string               `yaml:"name"`
	PrimaryKey bool                 `yaml:"primary_key,omitempty"`
	Props      typecheck.Properties `yaml:"properties"`
	Issues     int                  `yaml:"issues"`

	// Numeric columns only
	Min      float64 `yaml:"min,omitempty"`
	Max      float64 `yaml:"max,omitempty"`
	Mean     float64 `yaml:"mean,omitempty"`
	Outliers int     `yaml:"outliers,omitempty"`
	numeric  bool
}

// IssueCount is the number of ledger rows sharing a column, type and subtype.
type IssueCount struct {
	Column  string `yaml:"column"`
	Type    string `yaml:"type"`
	Subtype string `yaml:"subtype"`
	Count   int    `yaml:"count"`
}

// Report is the schema profile of a registered table.
type Report struct {
	Name       string         `yaml:"name"`
	Rows       int            `yaml:"rows"`
	PrimaryKey string         `yaml:"primary_key"`
	Cols       []ColumnReport `yaml:"columns"`
	Issues     []IssueCount   `yaml:"issues,omitempty"`
	Notes      []string       `yaml:"notes,omitempty"`

	header []string
	sample [][]string
}

// BuildReport profiles a registered table. sampleRows bounds the head rows
// included in the markdown output.
func BuildReport(reg *registry.Registry, table string, sampleRows int) (*Report, error) {
	t, err := reg.Table(table)
	if err != nil {
		return nil, err
	}
	r := &Report{Name: t.Name, Rows: t.Rows(), PrimaryKey: t.PrimaryKey}
	r.Notes = append(r.Notes, t.Warnings...)

	perColumn := map[string]int{}
	counts := map[IssueCount]int{}
	for _, is := range reg.Ledger().Issues(table) {
		perColumn[is.Column]++
		counts[IssueCount{Column: is.Column, Type: is.IssueType, Subtype: is.IssueSubtype}]++
	}
	for k, n := range counts {
		k.Count = n
		r.Issues = append(r.Issues, k)
	}
	sort.Slice(r.Issues, func(i, j int) bool {
		a, b := r.Issues[i], r.Issues[j]
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Subtype < b.Subtype
	})

	for i, c := range t.Columns {
		cr := ColumnReport{
			Name:       c.Name,
			PrimaryKey: c.Name == t.PrimaryKey,
			Props:      t.Props[i],
			Issues:     perColumn[c.Name],
		}
		if t.Props[i].Type == typecheck.TypeNumber || t.Props[i].Type == typecheck.TypeUnique {
			numericStats(&cr, c.Values)
		}
		r.Cols = append(r.Cols, cr)
	}

	if sampleRows > 0 && r.Rows > 0 {
		n := min(sampleRows, r.Rows)
		pages := make([][]any, len(t.Columns))
		for i, c := range t.Columns {
			r.header = append(r.header, c.Name)
			page, err := reg.RenderForDisplay(table, c.Name, 0, n)
			if err != nil {
				r.Notes = append(r.Notes, fmt.Sprintf("column %s could not be rendered: %v", c.Name, err))
				continue
			}
			pages[i] = page
		}
		for row := 0; row < n; row++ {
			line := make([]string, len(pages))
			for i, p := range pages {
				if row < len(p) {
					line[i] = frame.Stringify(p[row])
				}
			}
			r.sample = append(r.sample, line)
		}
	}
	return r, nil
}

func numericStats(cr *ColumnReport, values []any) {
	var xs []float64
	for _, v := range values {
		if _, isBool := v.(bool); isBool {
			continue
		}
		f, ok := frame.AsFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		xs = append(xs, f)
	}
	if len(xs) == 0 {
		return
	}
	cr.numeric = true
	cr.Min, cr.Max = xs[0], xs[0]
	sum := 0.0
	for _, x := range xs {
		cr.Min = math.Min(cr.Min, x)
		cr.Max = math.Max(cr.Max, x)
		sum += x
	}
	cr.Mean = sum / float64(len(xs))
	med, mad := medianMAD(xs)
	if mad == 0 {
		return
	}
	for _, x := range xs {
		if 0.6745*math.Abs(x-med)/mad > outlierZ {
			cr.Outliers++
		}
	}
}

// Markdown renders the report as sectioned plain text.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Table: %s\n", r.Name))
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	b.WriteString(fmt.Sprintf("Primary key: %s\n\n", r.PrimaryKey))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		p := c.Props
		name := safeName(c.Name)
		if c.PrimaryKey {
			name += " (pk)"
		}
		b.WriteString(fmt.Sprintf("- %s: %s/%s (match %.0f%%, blanks %d", name, p.Type, p.Subtype, p.Supplement.Match*100, p.Supplement.Blanks()))
		if c.Issues > 0 {
			b.WriteString(fmt.Sprintf(", issues %d", c.Issues))
		}
		b.WriteString(")")
		if f := p.Supplement.Format(p.Subtype); f != "" {
			b.WriteString(fmt.Sprintf("; format %s", f))
		}
		if p.Supplement.Symbol != "" {
			b.WriteString(fmt.Sprintf("; symbol %s", p.Supplement.Symbol))
		}
		if c.numeric {
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g", c.Min, c.Max, c.Mean))
			if c.Outliers > 0 {
				b.WriteString(fmt.Sprintf("; outliers %d", c.Outliers))
			}
		}
		if len(p.PotentialProblem) > 0 {
			b.WriteString(fmt.Sprintf("; potential problems: %s", strings.Join(p.PotentialProblem, ", ")))
		}
		b.WriteString("\n")
	}

	if len(r.Issues) > 0 {
		b.WriteString("\n[ISSUES]\n")
		for _, is := range r.Issues {
			b.WriteString(fmt.Sprintf("- %s: %s/%s x%d\n", safeName(is.Column), is.Type, is.Subtype, is.Count))
		}
	}

	if len(r.sample) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		names := make([]string, len(r.header))
		for i, h := range r.header {
			names[i] = safeName(h)
		}
		b.WriteString("| " + strings.Join(names, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(names)) + "\n")
		for _, row := range r.sample {
			vals := make([]string, len(row))
			for i, v := range row {
				vals[i] = safeVal(v)
			}
			b.WriteString("| " + strings.Join(vals, " | ") + " |\n")
		}
	}

	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- " + n + "\n")
		}
	}
	return b.String()
}

// YAML renders the report, including every column's properties.
func (r *Report) YAML() (string, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(out), nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := append([]float64(nil), vals...)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	return median, quantile(dev, 0.5)
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo, hi := int(math.Floor(pos)), int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
