package typecheck

import (
	"regexp"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

const (
	DefaultDateFormat      = "%Y-%m-%d"
	DefaultTimeFormat      = "%H:%M:%S"
	DefaultQuarterFormat   = "%q %Y"
	DefaultTimestampFormat = "%Y-%m-%d %H:%M:%S"
)

// FormatVoter infers the parse and display format of date-like columns by
// majority vote over a bounded sample.
type FormatVoter struct {
	SampleSize int
	MinVotes   int
	Seed       int64
}

// NewFormatVoter builds a voter from classifier options.
func NewFormatVoter(opts Options) FormatVoter {
	opts = opts.withDefaults()
	return FormatVoter{SampleSize: opts.FormatSampleSize, MinVotes: opts.FormatMinVotes, Seed: opts.Seed}
}

// Infer returns the format for subtype. A format already stored in sup is
// returned unchanged; otherwise the inferred format is stored there.
func (v FormatVoter) Infer(subtype string, values []any, sup *Supplement) string {
	if f := sup.Format(subtype); f != "" {
		return f
	}
	var strs []string
	for _, x := range frame.Sample(nonBlank(values), v.sampleSize(), v.Seed) {
		strs = append(strs, cellString(x))
	}
	var f string
	switch subtype {
	case SubDate:
		f = v.vote(strs, MatchDateFormat, DateFormats, DefaultDateFormat)
	case SubTime:
		f = v.vote(strs, MatchTimeFormat, TimeFormats, DefaultTimeFormat)
	case SubMonth:
		f = nameStyle(strs, MonthLookup, "%m", "%b", "%B")
	case SubWeek:
		f = nameStyle(strs, WeekdayLookup, "%u", "%a", "%A")
	case SubQuarter:
		f = quarterStyle(strs)
	case SubTimestamp:
		f = timestampStyle(strs)
	default:
		return ""
	}
	sup.SetFormat(subtype, f)
	return f
}

func (v FormatVoter) sampleSize() int {
	if v.SampleSize <= 0 {
		return 128
	}
	return v.SampleSize
}

func nonBlank(values []any) []any {
	out := make([]any, 0, len(values))
	for _, x := range values {
		if BlankKind(x) == "" {
			out = append(out, x)
		}
	}
	return out
}

// vote counts the first matching format per value. The evidence floor is
// MinVotes, relaxed to half the sample for short columns.
func (v FormatVoter) vote(strs []string, match func(string) (string, bool), order []string, fallback string) string {
	counts := map[string]int{}
	for _, s := range strs {
		if f, ok := match(s); ok {
			counts[f]++
		}
	}
	best, n := top(counts, order)
	floor := v.MinVotes
	if floor <= 0 {
		floor = 16
	}
	if half := (len(strs) + 1) / 2; half < floor {
		floor = half
	}
	if best == "" || n < floor {
		return fallback
	}
	return best
}

// nameStyle picks numeric, abbreviated or full names by majority.
func nameStyle(strs []string, lookup map[string]int, numeric, abbr, full string) string {
	var nNum, nAbbr, nFull int
	for _, s := range strs {
		if _, ok := frame.AsInt(s); ok {
			nNum++
			continue
		}
		if _, ok := lookup[strings.ToLower(s)]; !ok {
			continue
		}
		if len(s) == 3 {
			nAbbr++
		} else {
			nFull++
		}
	}
	switch {
	case nAbbr > nNum && nAbbr >= nFull:
		return abbr
	case nFull > nNum && nFull > nAbbr:
		return full
	}
	return numeric
}

var (
	quarterYear4   = regexp.MustCompile(`(^|\D)(\d{4})($|\D)`)
	quarterYear2   = regexp.MustCompile(`'(\d{2})\b`)
	quarterQ       = regexp.MustCompile(`(?i)q[1-4]`)
	quarterOrd     = regexp.MustCompile(`(?i)[1-4](st|nd|rd|th)\s+quarter`)
	quarterFull    = regexp.MustCompile(`(?i)(first|second|third|fourth)\s+quarter`)
	quarterNamed   = regexp.MustCompile(`(?i)\bquarter\s*[1-4]\b`)
	quarterPartsRe = []*regexp.Regexp{quarterOrd, quarterFull, quarterNamed, quarterQ}
)

// quarterStyle votes on the quarter grammar: how the quarter is spelled,
// how the year is written, the separator, and which comes first.
//
//	%q  Q1        %o %Q   1st Quarter    %-I %Q  First Quarter
//	%Q %I  Quarter 1    %Y  2023          %y      '23
func quarterStyle(strs []string) string {
	floor := len(strs) / 2
	if floor > 64 {
		floor = 64
	}
	if floor < 1 {
		floor = 1
	}
	parts := map[string]int{}
	years := map[string]int{}
	seps := map[string]int{}
	var yearFirst int
	for _, s := range strs {
		var qLoc []int
		for i, re := range quarterPartsRe {
			if loc := re.FindStringIndex(s); loc != nil {
				qLoc = loc
				parts[[]string{"%o %Q", "%-I %Q", "%Q %I", "%q"}[i]]++
				break
			}
		}
		var yLoc []int
		if m := quarterYear4.FindStringSubmatchIndex(s); m != nil {
			yLoc = m[4:6]
			years["%Y"]++
		} else if m := quarterYear2.FindStringIndex(s); m != nil {
			yLoc = m
			years["%y"]++
		}
		if qLoc == nil || yLoc == nil {
			continue
		}
		if yLoc[0] < qLoc[0] {
			yearFirst++
			seps[s[yLoc[1]:qLoc[0]]]++
		} else {
			seps[strings.TrimSuffix(s[qLoc[1]:yLoc[0]], "'")]++
		}
	}
	part := "%q"
	if p, n := top(parts, []string{"%q", "%o %Q", "%-I %Q", "%Q %I"}); n >= floor {
		part = p
	}
	year, n := top(years, []string{"%Y", "%y"})
	if n < floor {
		if len(years) == 0 {
			return part
		}
		year = "%Y"
	}
	sep := " "
	if sp, n := top(seps, []string{" ", "", "-", "/"}); n > 0 {
		sep = sp
	}
	if year == "%y" && sep == " " && seps[""] > 0 {
		sep = ""
	}
	if yearFirst*2 > len(strs) {
		return year + sep + part
	}
	return part + sep + year
}

var (
	stampT    = regexp.MustCompile(`\dT\d`)
	stampAMPM = regexp.MustCompile(`(?i)\d\s*[ap]\.?m\.?\b`)
)

// timestampStyle picks one of four canonical layouts from the majority
// shape of the sample: Z suffix, T separator, or AM/PM clock.
func timestampStyle(strs []string) string {
	var z, t, ampm int
	for _, s := range strs {
		if strings.HasSuffix(strings.ToUpper(s), "Z") {
			z++
		}
		if stampT.MatchString(s) {
			t++
		}
		if stampAMPM.MatchString(s) {
			ampm++
		}
	}
	half := len(strs)
	switch {
	case ampm*2 > half:
		return "%Y-%m-%d %I:%M:%S %p"
	case z*2 > half:
		return "%Y-%m-%dT%H:%M:%SZ"
	case t*2 > half:
		return "%Y-%m-%dT%H:%M:%S"
	}
	return DefaultTimestampFormat
}
