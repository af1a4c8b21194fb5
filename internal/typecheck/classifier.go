// Package typecheck classifies columns into a datatype and subtype and infers
// the display format of date-like subtypes.
package typecheck

import (
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/sirupsen/logrus"
)

// group is one datatype: its subtypes in precedence order plus the stricter
// limit applied when the header names the datatype itself.
type group struct {
	name       string
	indicators []string
	limit      float64
	detectors  []Detector
}

var standardGroups = []group{
	{TypeDateTime, []string{"date_", "_date", "_time", "time_", "_at", "timestamp"}, 0.95, datetimeDetectors},
	{TypeLocation, []string{"address", "location", "geo"}, 0.95, locationDetectors},
	{TypeNumber, []string{"amount", "num", "count", "total", "qty"}, 0.99, numberDetectors},
	{TypeText, []string{"text", "description", "comment", "note"}, 0.99, textDetectors},
}

// Detectors returns every subtype detector, grouped in precedence order.
func Detectors() []Detector {
	out := []Detector{booleanDetector, statusDetector, categoryDetector, idDetector}
	for _, g := range standardGroups {
		out = append(out, g.detectors...)
	}
	return out
}

// Lookup finds the detector for a subtype.
func Lookup(subtype string) (Detector, bool) {
	for _, d := range Detectors() {
		if d.Name() == subtype {
			return d, true
		}
	}
	return nil, false
}

// ParentOf returns the datatype a subtype belongs to.
func ParentOf(subtype string) string {
	switch subtype {
	case SubNull, SubMissing, SubDefault:
		return TypeBlank
	}
	if d, ok := Lookup(subtype); ok {
		return d.Parent()
	}
	return TypeUnknown
}

// Classifier assigns a datatype and subtype to a column.
type Classifier struct {
	opts Options
	log  logrus.FieldLogger
}

func NewClassifier(opts Options, log logrus.FieldLogger) *Classifier {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Classifier{opts: opts.withDefaults(), log: log}
}

// Classify inspects values and returns the column's properties. Groups run
// in fixed order (blank, unique, datetime, location, number, text) and the
// first one that accepts the column ends the search.
func (c *Classifier) Classify(name string, values []any) Properties {
	props := Properties{ColName: name, Type: TypeUnknown, Subtype: TypeUnknown, Total: len(values)}
	log := c.log.WithField("column", name)

	nonBlank, done := c.checkBlank(values, &props)
	if done {
		log.WithField("subtype", props.Subtype).Debug("column is blank")
		return props
	}

	scan := NewScan(name, nonBlank)
	sample := c.sample(nonBlank)
	if len(sample) == 0 {
		return props
	}

	if sub, ratio, ok := c.checkUnique(scan, sample, &props); ok {
		c.finish(&props, TypeUnique, sub, ratio, scan)
		return props
	}
	for _, g := range standardGroups {
		if sub, ratio, ok := c.checkGroup(g, scan, sample, &props); ok {
			c.finish(&props, g.name, sub, ratio, scan)
			log.WithFields(logrus.Fields{"type": props.Type, "subtype": props.Subtype}).Debug("classified column")
			return props
		}
	}
	log.WithField("candidates", props.PotentialProblem).Debug("column left unknown")
	return props
}

// checkBlank counts null, missing and default cells over the whole column.
// A column of ten or more rows that is entirely blank is classified blank.
func (c *Classifier) checkBlank(values []any, props *Properties) ([]any, bool) {
	rest := make([]any, 0, len(values))
	for _, v := range values {
		switch BlankKind(v) {
		case SubNull:
			props.Supplement.Null++
		case SubMissing:
			props.Supplement.Missing++
		case SubDefault:
			props.Supplement.Default++
		default:
			rest = append(rest, v)
		}
	}
	sup := props.Supplement
	props.Total = len(values) - sup.Blanks()
	if len(rest) == 0 && len(values) >= 10 {
		props.Type = TypeBlank
		props.Subtype = SubNull
		if sup.Missing > sup.Null && sup.Missing >= sup.Default {
			props.Subtype = SubMissing
		} else if sup.Default > sup.Null && sup.Default > sup.Missing {
			props.Subtype = SubDefault
		}
		props.Supplement.Match = 1
		return rest, true
	}
	return rest, false
}

// checkUnique tries the cardinality-driven subtypes in order of increasing
// cardinality: boolean, status, category, id. Subtypes that matched part of
// the sample without being accepted are recorded as potential problems.
func (c *Classifier) checkUnique(scan *Scan, sample []any, props *Properties) (string, float64, bool) {
	nunique := len(scan.Uniques)
	limit := c.opts.SubtypeLimit
	partial := func(sub string, r float64) {
		if r > 0 {
			props.PotentialProblem = append(props.PotentialProblem, sub)
		}
	}

	r := ratioOf(booleanDetector, scan, sample)
	if r >= limit {
		unknown := 0
		for u := range scan.lowerUniques() {
			if _, ok := BoolLookup[u]; !ok {
				unknown++
			}
		}
		if nunique <= 2 || unknown <= 1 {
			return SubBoolean, r, true
		}
	}
	partial(SubBoolean, r)

	if nunique <= 4 {
		r := ratioOf(statusDetector, scan, sample)
		if r > c.limitFor(statusDetector, group{limit: limit}, scan.Header) {
			return SubStatus, r, true
		}
		partial(SubStatus, r)
	}

	r = ratioOf(categoryDetector, scan, sample)
	if r > limit {
		return SubCategory, r, true
	}
	partial(SubCategory, r)

	if scan.NonBlank > 0 {
		uniqueness := float64(nunique) / float64(scan.NonBlank)
		hint := idHeader(scan.Header)
		need := 0.95
		if hint {
			need = 0.9
		}
		if uniqueness >= need && (hint || !allNumeric(scan.Uniques)) {
			r := ratioOf(idDetector, scan, sample)
			if r > limit {
				return SubID, r, true
			}
			partial(SubID, r)
		}
	}
	return "", 0, false
}

func allNumeric(uniques []string) bool {
	for _, u := range uniques {
		if _, ok := frame.AsFloat(u); !ok {
			return false
		}
	}
	return true
}

// limitFor picks the acceptance threshold for one subtype. A header naming
// the subtype lowers the bar; a header naming only the datatype raises it.
func (c *Classifier) limitFor(d Detector, g group, header string) float64 {
	for _, ind := range d.Indicators() {
		if strings.Contains(header, ind) {
			return c.opts.HintLimit
		}
	}
	for _, ind := range g.indicators {
		if strings.Contains(header, ind) {
			return g.limit
		}
	}
	return c.opts.SubtypeLimit
}

func (c *Classifier) checkGroup(g group, scan *Scan, sample []any, props *Properties) (string, float64, bool) {
	for _, d := range g.detectors {
		r := ratioOf(d, scan, sample)
		if r > c.limitFor(d, g, scan.Header) {
			return d.Name(), r, true
		}
		if r > 0 {
			props.PotentialProblem = append(props.PotentialProblem, d.Name())
		}
	}
	return "", 0, false
}

func ratioOf(d Detector, scan *Scan, sample []any) float64 {
	if len(sample) == 0 {
		return 0
	}
	n := 0
	for _, v := range sample {
		if d.Contains(v, scan) {
			n++
		}
	}
	return float64(n) / float64(len(sample))
}

func (c *Classifier) finish(props *Properties, typ, sub string, ratio float64, scan *Scan) {
	props.Type, props.Subtype = typ, sub
	if sub == SubWhole && promotesToID(props.ColName) {
		props.Type, props.Subtype = TypeUnique, SubID
	}
	props.Supplement.Match = ratio
	props.PotentialConcern = ratio < 1
	if sub == SubCurrency {
		if sym, n := top(scan.Votes.Currency, []string{"$", "€", "£", "¥"}); n > 0 {
			props.Supplement.Symbol = sym
		}
	}
}

func promotesToID(name string) bool {
	low := strings.ToLower(name)
	return strings.HasPrefix(low, "id_") || strings.HasSuffix(low, "_id") || strings.HasSuffix(name, "ID")
}

// sample draws at most SampleSize values with a fixed seed; short columns
// are used whole and in order.
func (c *Classifier) sample(values []any) []any {
	return frame.Sample(values, c.opts.SampleSize, c.opts.Seed)
}
