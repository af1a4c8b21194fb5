// Package convert turns raw column values into their canonical typed form,
// recording every value it cannot represent in the issue ledger.
package convert

import (
	"math"
	"regexp"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/shadow"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/sirupsen/logrus"
)

// Options control the bounded samples used for column-wide decisions.
type Options struct {
	SampleSize int
	Seed       int64
	Voter      typecheck.FormatVoter
}

func DefaultOptions() Options {
	return Options{SampleSize: 128, Seed: 42, Voter: typecheck.NewFormatVoter(typecheck.DefaultOptions())}
}

// Converter converts classified columns.
type Converter struct {
	ledger *shadow.Ledger
	opts   Options
	log    logrus.FieldLogger
}

func New(ledger *shadow.Ledger, opts Options, log logrus.FieldLogger) *Converter {
	if opts.SampleSize <= 0 {
		opts.SampleSize = 128
	}
	if opts.Voter.SampleSize == 0 {
		opts.Voter = typecheck.NewFormatVoter(typecheck.Options{Seed: opts.Seed})
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Converter{ledger: ledger, opts: opts, log: log}
}

type cellFunc func(v any) (any, bool)

// Convert returns the typed copy of col and the properties updated with any
// inferred format, symbol or scale. Blank cells are recorded as blank
// issues; cells that fail conversion are recorded as problem issues carrying
// the original value. Both are null in the result.
func (c *Converter) Convert(table string, col frame.Series, props typecheck.Properties) (frame.Series, typecheck.Properties) {
	out := col.Clone()
	blanks := c.recordBlanks(table, col)
	for i, b := range blanks {
		if b {
			out.Values[i] = nil
		}
	}

	var live []any
	for i, v := range col.Values {
		if !blanks[i] {
			live = append(live, v)
		}
	}
	fn := c.prepare(live, &props, false)

	failed := make([]bool, col.Len())
	for i, v := range out.Values {
		if blanks[i] {
			continue
		}
		nv, ok := safeCall(fn, v)
		if !ok {
			failed[i] = true
			out.Values[i] = nil
			continue
		}
		out.Values[i] = nv
	}
	n := c.ledger.Add(table, col.Name, shadow.Problem, shadow.Unsupported, col.RowIDs, failed, col.Values)
	c.log.WithFields(logrus.Fields{
		"table": table, "column": col.Name, "subtype": props.Subtype, "rows": col.Len(), "problems": n,
	}).Debug("converted column")
	return out, props
}

// ConvertCell converts one edited value against a column that has already
// been converted. column holds the column's current typed values.
func (c *Converter) ConvertCell(v any, props *typecheck.Properties, column []any) (any, bool) {
	if typecheck.BlankKind(v) != "" {
		return nil, false
	}
	var live []any
	for _, x := range column {
		if x != nil {
			live = append(live, x)
		}
	}
	return safeCall(c.prepare(live, props, true), v)
}

func safeCall(fn cellFunc, v any) (out any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = nil, false
		}
	}()
	return fn(v)
}

// recordBlanks runs one pass per blank category. A cell can be reported by
// more than one pass; the ledger keeps every report.
func (c *Converter) recordBlanks(table string, col frame.Series) []bool {
	n := col.Len()
	nulls := make([]bool, n)
	missing := make([]bool, n)
	defaults := make([]bool, n)
	blank := make([]bool, n)
	for i, v := range col.Values {
		if frame.IsNull(v) {
			nulls[i] = true
			blank[i] = true
			continue
		}
		s := frame.Stringify(v)
		if typecheck.IsMissingToken(s) {
			missing[i] = true
			blank[i] = true
		}
		if typecheck.IsDefaultToken(s) {
			defaults[i] = true
			blank[i] = true
		}
	}
	c.ledger.Add(table, col.Name, shadow.Blank, typecheck.SubNull, col.RowIDs, nulls, col.Values)
	c.ledger.Add(table, col.Name, shadow.Blank, typecheck.SubMissing, col.RowIDs, missing, col.Values)
	c.ledger.Add(table, col.Name, shadow.Blank, typecheck.SubDefault, col.RowIDs, defaults, col.Values)
	return blank
}

// prepare makes the column-wide decisions for the subtype (format, id cast,
// percent scale) and returns the per-cell conversion. In cell mode the
// decisions already stored in props are reused.
func (c *Converter) prepare(live []any, props *typecheck.Properties, cellMode bool) cellFunc {
	sup := &props.Supplement
	switch props.Subtype {
	case typecheck.SubYear, typecheck.SubDay, typecheck.SubMinute, typecheck.SubSecond:
		return leadingInt
	case typecheck.SubHour:
		return toHour
	case typecheck.SubMonth:
		return byName(typecheck.MonthLookup, 12)
	case typecheck.SubWeek:
		return byName(typecheck.WeekdayLookup, 7)
	case typecheck.SubQuarter:
		c.opts.Voter.Infer(typecheck.SubQuarter, live, sup)
		return ParseQuarter
	case typecheck.SubDate:
		return dateParser(c.opts.Voter.Infer(typecheck.SubDate, live, sup), true)
	case typecheck.SubTime:
		return dateParser(c.opts.Voter.Infer(typecheck.SubTime, live, sup), false)
	case typecheck.SubTimestamp:
		c.opts.Voter.Infer(typecheck.SubTimestamp, live, sup)
		return ParseTimestamp
	case typecheck.SubID:
		if c.integerIDs(live) {
			return func(v any) (any, bool) {
				n, ok := frame.AsInt(v)
				return n, ok
			}
		}
		return keep
	case typecheck.SubBoolean:
		return toBool
	case typecheck.SubCurrency:
		if sup.Symbol == "" {
			for _, v := range live {
				if sym, ok := typecheck.CurrencySymbol(frame.Stringify(v)); ok {
					sup.Symbol = sym
					break
				}
			}
		}
		return ParseCurrency
	case typecheck.SubPercent:
		scale := 1.0
		if cellMode {
			if sup.PercentScaled {
				scale = 0.01
			}
		} else if c.percentNeedsScaling(live) {
			scale = 0.01
			sup.PercentScaled = true
		}
		return func(v any) (any, bool) {
			f, ok := parsePercent(v)
			return f * scale, ok
		}
	case typecheck.SubDecimal:
		return toDecimal
	case typecheck.SubWhole:
		return toWhole
	}
	return toText
}

func (c *Converter) sample(live []any) []any {
	if len(live) <= c.opts.SampleSize {
		return live
	}
	return frame.Sample(live, c.opts.SampleSize, c.opts.Seed)
}

// integerIDs holds when every sampled id is integer-like.
func (c *Converter) integerIDs(live []any) bool {
	s := c.sample(live)
	if len(s) == 0 {
		return false
	}
	for _, v := range s {
		str := frame.Stringify(v)
		if _, ok := frame.AsInt(v); !ok || (len(str) > 1 && str[0] == '0') {
			return false
		}
	}
	return true
}

// percentNeedsScaling samples the parsed values: a mean inside (-1, 1) with
// a max below 10 means the values are already fractions.
func (c *Converter) percentNeedsScaling(live []any) bool {
	var sum, hi float64
	n := 0
	for _, v := range c.sample(live) {
		f, ok := parsePercent(v)
		if !ok {
			continue
		}
		if n == 0 || f > hi {
			hi = f
		}
		sum += f
		n++
	}
	if n == 0 {
		return true
	}
	mean := sum / float64(n)
	return !(mean > -1 && mean < 1 && hi < 10)
}

var (
	leadingDigits = regexp.MustCompile(`^\s*(-?\d+)`)
	moneyNumber   = regexp.MustCompile(`-?\d{1,3}(?:,\d{3})+(?:\.\d+)?%?|-?\d+(?:\.\d+)?%?`)
	stripper      = strings.NewReplacer(",", "", " ", "")
)

func leadingInt(v any) (any, bool) {
	if n, ok := frame.AsInt(v); ok {
		return n, true
	}
	m := leadingDigits.FindStringSubmatch(frame.Stringify(v))
	if m == nil {
		return nil, false
	}
	n, ok := frame.AsInt(m[1])
	return n, ok
}

func toHour(v any) (any, bool) {
	x, ok := leadingInt(v)
	if !ok {
		return nil, false
	}
	h := x.(int64)
	low := strings.ToLower(frame.Stringify(v))
	switch {
	case strings.Contains(low, "pm") && h < 12:
		h += 12
	case strings.Contains(low, "am") && h == 12:
		h = 0
	}
	return h, true
}

func byName(lookup map[string]int, limit int64) cellFunc {
	return func(v any) (any, bool) {
		if n, ok := frame.AsInt(v); ok {
			return n, n >= 1 && n <= limit
		}
		key := strings.Trim(strings.ToLower(strings.TrimSpace(frame.Stringify(v))), ".")
		if n, ok := lookup[key]; ok {
			return int64(n), true
		}
		return nil, false
	}
}

func keep(v any) (any, bool) { return v, true }

func toText(v any) (any, bool) { return frame.Stringify(v), true }

func toBool(v any) (any, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	b, ok := typecheck.BoolLookup[strings.ToLower(strings.TrimSpace(frame.Stringify(v)))]
	return b, ok
}

// ParseCurrency extracts the numeric part of a money string. A leading minus
// anywhere before the digits makes the value negative.
func ParseCurrency(v any) (any, bool) {
	if frame.IsNumber(v) {
		return frame.AsFloat(v)
	}
	s := strings.TrimSpace(frame.Stringify(v))
	m := moneyNumber.FindString(s)
	if m == "" {
		return nil, false
	}
	neg := strings.HasPrefix(s, "-") || strings.HasPrefix(s, "(")
	m = strings.TrimSuffix(strings.ReplaceAll(m, ",", ""), "%")
	f, ok := frame.AsFloat(m)
	if !ok {
		return nil, false
	}
	if neg && f > 0 {
		f = -f
	}
	return f, true
}

func parsePercent(v any) (float64, bool) {
	if frame.IsNumber(v) {
		return frame.AsFloat(v)
	}
	s := strings.TrimSuffix(stripper.Replace(frame.Stringify(v)), "%")
	return frame.AsFloat(s)
}

func toDecimal(v any) (any, bool) {
	if frame.IsNumber(v) {
		return frame.AsFloat(v)
	}
	return frame.AsFloat(stripper.Replace(frame.Stringify(v)))
}

func toWhole(v any) (any, bool) {
	var f float64
	var ok bool
	if frame.IsNumber(v) {
		f, ok = frame.AsFloat(v)
	} else {
		f, ok = frame.AsFloat(stripper.Replace(frame.Stringify(v)))
	}
	if !ok || math.Abs(f) > 9e15 {
		return nil, false
	}
	if n, exact := frame.AsInt(f); exact {
		return n, true
	}
	return int64(math.Round(f)), true
}
