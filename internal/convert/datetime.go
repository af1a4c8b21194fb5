package convert

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
)

// dateParser parses cells with a strftime format. Dates are cleaned of
// ordinal suffixes and midnight tails first.
func dateParser(format string, isDate bool) cellFunc {
	return func(v any) (any, bool) {
		if t, ok := v.(time.Time); ok {
			return t, true
		}
		s := strings.TrimSpace(frame.Stringify(v))
		if isDate {
			s = typecheck.StripDateNoise(s)
		}
		t, err := typecheck.ParseFormat(format, s)
		if err != nil {
			return nil, false
		}
		return t, true
	}
}

var (
	quarterDigit   = regexp.MustCompile(`(?i)q([1-4])`)
	quarterOrdinal = regexp.MustCompile(`([1-4])(?:st|nd|rd|th)`)
	quarterWord    = regexp.MustCompile(`(?i)\b(first|second|third|fourth)\b`)
	quarterNamed   = regexp.MustCompile(`(?i)\bquarter\s*([1-4])\b`)
	quarterYear4   = regexp.MustCompile(`(?:^|\D)(\d{4})(?:\D|$)`)
	quarterYear2   = regexp.MustCompile(`'(\d{2})`)

	quarterWords = map[string]int{"first": 1, "second": 2, "third": 3, "fourth": 4}
)

// EncodeQuarter stores a quarter as year + (quarter-1)/4.
func EncodeQuarter(year, quarter int) float64 {
	return float64(year) + float64(quarter-1)*0.25
}

// DecodeQuarter recovers the year and quarter of an encoded value.
func DecodeQuarter(v float64) (year, quarter int) {
	fl := math.Floor(v)
	return int(fl), int(math.Round((v-fl)*4)) + 1
}

// ParseQuarter accepts encoded decimals (2023.25), bare quarter numbers with
// a quarter header, "Q2 2023", "2nd Quarter '23" and "Second Quarter".
// A cell without a year encodes year 0.
func ParseQuarter(v any) (any, bool) {
	if f, ok := frame.AsFloat(v); ok {
		fl := math.Floor(f)
		frac := f - fl
		switch {
		case fl >= 1000 && (frac == 0 || frac == 0.25 || frac == 0.5 || frac == 0.75):
			return f, true
		case frac == 0 && fl >= 1 && fl <= 4:
			return EncodeQuarter(0, int(fl)), true
		}
		return nil, false
	}
	s := strings.TrimSpace(frame.Stringify(v))
	q := 0
	for _, re := range []*regexp.Regexp{quarterDigit, quarterOrdinal, quarterWord, quarterNamed} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if re == quarterWord {
			q = quarterWords[strings.ToLower(m[1])]
		} else {
			q, _ = strconv.Atoi(m[1])
		}
		break
	}
	if q == 0 {
		return nil, false
	}
	year := 0
	if m := quarterYear4.FindStringSubmatch(s); m != nil {
		year, _ = strconv.Atoi(m[1])
	} else if m := quarterYear2.FindStringSubmatch(s); m != nil {
		yy, _ := strconv.Atoi(m[1])
		if yy < 50 {
			year = 2000 + yy
		} else {
			year = 1900 + yy
		}
	}
	return EncodeQuarter(year, q), true
}

var lenientLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	"Mon Jan _2 15:04:05 2006",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006 3:04:05 PM",
	"01/02/2006 3:04 PM",
	"2006/01/02 15:04:05",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04:05",
	"January 2, 2006 3:04 PM",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
}

var usZones = map[string]string{
	"PST": "America/Los_Angeles", "PDT": "America/Los_Angeles",
	"MST": "America/Denver", "MDT": "America/Denver",
	"CST": "America/Chicago", "CDT": "America/Chicago",
	"EST": "America/New_York", "EDT": "America/New_York",
}

var zoneAbbrev = regexp.MustCompile(`\s*\b(PST|PDT|MST|MDT|CST|CDT|EST|EDT)\b\s*`)

// ParseTimestamp parses leniently and normalizes to UTC. Values carrying a
// US zone abbreviation are read as wall time in that zone.
func ParseTimestamp(v any) (any, bool) {
	if t, ok := v.(time.Time); ok {
		return t.UTC(), true
	}
	s := strings.TrimSpace(frame.Stringify(v))
	if t, ok := parseLenient(s); ok {
		return t.UTC(), true
	}
	m := zoneAbbrev.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	t, ok := parseLenient(strings.TrimSpace(zoneAbbrev.ReplaceAllString(s, " ")))
	if !ok {
		return nil, false
	}
	loc, err := time.LoadLocation(usZones[m[1]])
	if err != nil {
		return nil, false
	}
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	return local.UTC(), true
}

func parseLenient(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	upper := strings.ToUpper(s)
	for _, l := range lenientLayouts {
		in := s
		if strings.Contains(l, "PM") {
			in = upper
		}
		if t, err := time.Parse(l, in); err == nil {
			return t, true
		}
	}
	for _, df := range typecheck.DateFormats {
		for _, tf := range typecheck.TimeFormats {
			if t, err := typecheck.ParseFormat(df+" "+tf, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
