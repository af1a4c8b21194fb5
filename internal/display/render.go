// Package display turns typed columns back into human readable values,
// re-inserting the original text of cells that failed conversion.
package display

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KaramelBytes/shadowdb-cli/internal/convert"
	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/shadow"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/ncruces/go-strftime"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultSentinel marks a cell with no value and no recorded original.
const DefaultSentinel = "<N/A>"

type Options struct {
	Sentinel string
}

// Renderer formats pages of typed columns.
type Renderer struct {
	ledger  *shadow.Ledger
	opts    Options
	log     logrus.FieldLogger
	printer *message.Printer
}

func New(ledger *shadow.Ledger, opts Options, log logrus.FieldLogger) *Renderer {
	if opts.Sentinel == "" {
		opts.Sentinel = DefaultSentinel
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Renderer{ledger: ledger, opts: opts, log: log, printer: message.NewPrinter(language.English)}
}

// Sentinel returns the not-applicable marker.
func (r *Renderer) Sentinel() string { return r.opts.Sentinel }

// Render formats one page of a typed column. page carries the row ids of the
// window; props.Supplement.Offset is the absolute position of its first row.
// Null cells take the original value of their first recorded issue, or the
// sentinel. Any formatting failure fills the page with the sentinel.
func (r *Renderer) Render(table string, page frame.Series, props typecheck.Properties) (out []any) {
	log := r.log.WithFields(logrus.Fields{"table": table, "column": page.Name, "subtype": props.Subtype})
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("render failed, filling with sentinel")
			out = r.fill(page.Len())
		}
	}()

	out = make([]any, page.Len())
	for i, v := range page.Values {
		if v == nil || frame.IsNull(v) {
			continue
		}
		s, err := r.formatCell(v, props)
		if err != nil {
			log.WithError(err).WithField("row", page.RowIDs[i]).Warn("could not format cell, filling with sentinel")
			return r.fill(page.Len())
		}
		out[i] = s
	}

	restored := make([]bool, page.Len())
	for _, is := range r.ledger.ColumnIssues(table, page.Name) {
		local, ok := r.localIndex(page, is.RowID, props.Supplement.Offset)
		if !ok || restored[local] || out[local] != nil {
			continue
		}
		out[local] = is.OriginalValue
		restored[local] = true
	}
	for i, v := range out {
		if v == nil {
			out[i] = r.opts.Sentinel
		}
	}
	return out
}

// localIndex maps an absolute row id onto the page, skipping rows outside it.
func (r *Renderer) localIndex(page frame.Series, rowID int64, offset int) (int, bool) {
	if len(page.RowIDs) == page.Len() {
		return page.Index(rowID)
	}
	local := int(rowID) - offset
	if local < 0 || local >= page.Len() {
		return -1, false
	}
	return local, true
}

func (r *Renderer) fill(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = r.opts.Sentinel
	}
	return out
}

func (r *Renderer) formatCell(v any, props typecheck.Properties) (any, error) {
	sup := props.Supplement
	switch props.Subtype {
	case typecheck.SubCurrency:
		f, ok := frame.AsFloat(v)
		if !ok {
			return nil, fmt.Errorf("currency cell %v is not numeric", v)
		}
		return r.Currency(f, sup.Symbol), nil
	case typecheck.SubPercent:
		f, ok := frame.AsFloat(v)
		if !ok {
			return nil, fmt.Errorf("percent cell %v is not numeric", v)
		}
		return fmt.Sprintf("%.2f%%", f*100), nil
	case typecheck.SubDecimal:
		f, ok := frame.AsFloat(v)
		if !ok {
			return nil, fmt.Errorf("decimal cell %v is not numeric", v)
		}
		return fmt.Sprintf("%.3f", f), nil
	case typecheck.SubDate, typecheck.SubTime, typecheck.SubTimestamp:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("%s cell %v is not a time", props.Subtype, v)
		}
		return strftime.Format(formatOr(sup.Format(props.Subtype), props.Subtype), t), nil
	case typecheck.SubMonth:
		return r.named(v, sup.Format(typecheck.SubMonth), monthAbbr, monthFull)
	case typecheck.SubWeek:
		return r.named(v, sup.Format(typecheck.SubWeek), dayAbbr, dayFull)
	case typecheck.SubQuarter:
		f, ok := frame.AsFloat(v)
		if !ok {
			return nil, fmt.Errorf("quarter cell %v is not numeric", v)
		}
		return r.Quarter(f, formatOr(sup.Format(typecheck.SubQuarter), typecheck.SubQuarter)), nil
	}
	return v, nil
}

func formatOr(f, subtype string) string {
	if f != "" {
		return f
	}
	switch subtype {
	case typecheck.SubDate:
		return typecheck.DefaultDateFormat
	case typecheck.SubTime:
		return typecheck.DefaultTimeFormat
	case typecheck.SubQuarter:
		return typecheck.DefaultQuarterFormat
	}
	return typecheck.DefaultTimestampFormat
}

// Currency renders a grouped two-decimal amount with the sign before the
// symbol, e.g. -$1,200.50.
func (r *Renderer) Currency(f float64, symbol string) string {
	if symbol == "" {
		symbol = "$"
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	return sign + symbol + r.printer.Sprintf("%.2f", f)
}

var (
	monthAbbr = []string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	monthFull = []string{"", "January", "February", "March", "April", "May", "June", "July",
		"August", "September", "October", "November", "December"}
	dayAbbr = []string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	dayFull = []string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// named maps 1-based indices onto abbreviated or full names. Index 0 and
// anything out of range render as the sentinel.
func (r *Renderer) named(v any, format string, abbr, full []string) (any, error) {
	n, ok := frame.AsInt(v)
	if !ok {
		return nil, fmt.Errorf("index cell %v is not an integer", v)
	}
	if n < 1 || int(n) >= len(abbr) {
		return r.opts.Sentinel, nil
	}
	switch format {
	case "%b", "%a":
		return abbr[n], nil
	case "%B", "%A":
		return full[n], nil
	}
	return n, nil
}

var (
	ordinals     = []string{"", "1st", "2nd", "3rd", "4th"}
	ordinalWords = []string{"", "First", "Second", "Third", "Fourth"}
)

// Quarter renders an encoded quarter with the quarter grammar:
// %q Q1, %o 1st, %Q Quarter, %I 1, %-I First, %Y 2023, %y '23.
// A zero year drops the year part; an invalid quarter renders as the sentinel.
func (r *Renderer) Quarter(v float64, format string) string {
	year, q := convert.DecodeQuarter(v)
	if q < 1 || q > 4 {
		return r.opts.Sentinel
	}
	if year == 0 {
		for _, tok := range []string{"%Y", "%y"} {
			format = strings.ReplaceAll(format, tok, "")
		}
		format = strings.Trim(format, " -/")
	}
	rep := strings.NewReplacer(
		"%q", fmt.Sprintf("Q%d", q),
		"%o", ordinals[q],
		"%Q", "Quarter",
		"%-I", ordinalWords[q],
		"%I", fmt.Sprint(q),
		"%Y", fmt.Sprintf("%04d", year),
		"%y", fmt.Sprintf("'%02d", int(math.Abs(float64(year%100)))),
	)
	return rep.Replace(format)
}
