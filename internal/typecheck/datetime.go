package typecheck

import (
	"regexp"
	"strings"
	"time"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/ncruces/go-strftime"
)

// DateFormats are tried in order; the first that parses a cell wins its vote.
var DateFormats = []string{
	"%Y-%m-%d",
	"%m/%d/%Y",
	"%d/%m/%Y",
	"%m-%d-%Y",
	"%d-%m-%Y",
	"%Y/%m/%d",
	"%m/%d/%y",
	"%d/%m/%y",
	"%Y.%m.%d",
	"%d.%m.%Y",
	"%B %d, %Y",
	"%b %d, %Y",
	"%B %d %Y",
	"%b %d %Y",
	"%d %B %Y",
	"%d %b %Y",
	"%A, %B %d, %Y",
	"%a, %b %d, %Y",
}

// TimeFormats are tried in order after the split-part check.
var TimeFormats = []string{
	"%H:%M:%S",
	"%H:%M",
	"%I:%M:%S %p",
	"%I:%M %p",
	"%I:%M%p",
}

var (
	MonthNames = []string{"", "january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december"}
	WeekdayNames = []string{"", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

	// MonthLookup maps full names and abbreviations to 1..12.
	MonthLookup = map[string]int{"sept": 9}
	// WeekdayLookup maps full names and abbreviations to 1..7, Monday first.
	WeekdayLookup = map[string]int{"tues": 2, "thur": 4, "thurs": 4}
)

func init() {
	for i, m := range MonthNames[1:] {
		MonthLookup[m] = i + 1
		MonthLookup[m[:3]] = i + 1
	}
	for i, d := range WeekdayNames[1:] {
		WeekdayLookup[d] = i + 1
		WeekdayLookup[d[:3]] = i + 1
	}
}

var (
	ordinalSuffix = regexp.MustCompile(`(\d)(st|nd|rd|th)\b`)
	dayOrdinal    = regexp.MustCompile(`(?i)^([1-9]|[12]\d|3[01])(st|nd|rd|th)$`)
	hourText      = regexp.MustCompile(`(?i)^((1[0-2]|0?[1-9])\s*(am|pm)|([01]?\d|2[0-3])\s*h)$`)
	minuteText    = regexp.MustCompile(`(?i)^[0-5]?\d\s*(m|min|mins|minutes?)$`)
	secondText    = regexp.MustCompile(`(?i)^[0-5]?\d\s*(s|sec|secs|seconds?)$`)
	isoStamp      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?$`)

	quarterCode    = regexp.MustCompile(`(?i)(^|[^a-z])q[1-4]($|[^0-9])`)
	quarterOrdinal = regexp.MustCompile(`(?i)\b([1-4](st|nd|rd|th)|first|second|third|fourth)\s+(quarter|qtr)\b`)
	quarterWord    = regexp.MustCompile(`(?i)\bquarter\s*[1-4]\b`)
)

// StripDateNoise removes ordinal suffixes and midnight or UTC tails.
func StripDateNoise(s string) string {
	s = ordinalSuffix.ReplaceAllString(strings.TrimSpace(s), "$1")
	for _, tail := range []string{"+00:00", "T00:00:00", " 00:00:00"} {
		s = strings.TrimSuffix(s, tail)
	}
	return strings.TrimSpace(s)
}

// ParseFormat parses s with a strftime format. Meridiem markers are
// matched case-insensitively.
func ParseFormat(format, s string) (time.Time, error) {
	if strings.Contains(format, "%p") {
		s = strings.ToUpper(s)
	}
	return strftime.Parse(format, s)
}

// MatchDateFormat returns the first date format that parses s.
func MatchDateFormat(s string) (string, bool) {
	s = StripDateNoise(s)
	if s == "" {
		return "", false
	}
	for _, f := range DateFormats {
		if _, err := ParseFormat(f, s); err == nil {
			return f, true
		}
	}
	return "", false
}

// MatchTimeFormat returns the first time format that parses s.
func MatchTimeFormat(s string) (string, bool) {
	for _, f := range TimeFormats {
		if _, err := ParseFormat(f, s); err == nil {
			return f, true
		}
	}
	return "", false
}

func intIn(cell any, lo, hi int64) bool {
	n, ok := frame.AsInt(cell)
	return ok && n >= lo && n <= hi
}

func yearContains(cell any, s *Scan) bool {
	str := cellString(cell)
	return len(str) == 4 && isDigits(str) && intIn(str, 1950, 2150)
}

func quarterContains(cell any, s *Scan) bool {
	if containsAny(s.Header, "quarter", "qtr") && intIn(cell, 1, 4) {
		return true
	}
	str := cellString(cell)
	return quarterCode.MatchString(str) || quarterOrdinal.MatchString(str) || quarterWord.MatchString(str)
}

func monthContains(cell any, s *Scan) bool {
	if strings.Contains(s.Header, "month") && intIn(cell, 1, 12) {
		return true
	}
	_, ok := MonthLookup[strings.ToLower(cellString(cell))]
	return ok
}

func weekContains(cell any, s *Scan) bool {
	if (strings.Contains(s.Header, "week") || hasToken(s.Header, "dow")) && intIn(cell, 1, 7) {
		return true
	}
	_, ok := WeekdayLookup[strings.ToLower(cellString(cell))]
	return ok
}

func dayContains(cell any, s *Scan) bool {
	if containsAny(s.Header, "month", "week", "hour") {
		return false
	}
	if strings.Contains(s.Header, "day") && intIn(cell, 1, 31) {
		return true
	}
	return dayOrdinal.MatchString(cellString(cell))
}

func isHour(cell any, header string) bool {
	if (strings.Contains(header, "hour") || hasToken(header, "hr", "hrs")) && intIn(cell, 0, 23) {
		return true
	}
	return hourText.MatchString(cellString(cell))
}

func isMinute(cell any, header string) bool {
	if containsAny(header, "hour", "second") {
		return false
	}
	if (strings.Contains(header, "minute") || hasToken(header, "min", "mins")) && intIn(cell, 0, 59) {
		return true
	}
	return minuteText.MatchString(cellString(cell))
}

func isSecond(cell any, header string) bool {
	if containsAny(header, "minute", "hour") {
		return false
	}
	if (strings.Contains(header, "second") || hasToken(header, "sec", "secs")) && intIn(cell, 0, 59) {
		return true
	}
	return secondText.MatchString(cellString(cell))
}

func dateContains(cell any, s *Scan) bool {
	f, ok := MatchDateFormat(cellString(cell))
	if ok && s.Votes != nil {
		s.Votes.vote(s.Votes.Date, f)
	}
	return ok
}

func timeContains(cell any, s *Scan) bool {
	str := cellString(cell)
	if parts := strings.Split(str, ":"); len(parts) == 3 &&
		isHour(parts[0], "hour") && isMinute(parts[1], "minute") && isSecond(parts[2], "second") {
		if s.Votes != nil {
			s.Votes.vote(s.Votes.Time, "%H:%M:%S")
		}
		return true
	}
	f, ok := MatchTimeFormat(str)
	if ok && s.Votes != nil {
		s.Votes.vote(s.Votes.Time, f)
	}
	return ok
}

func timestampContains(cell any, s *Scan) bool {
	str := cellString(cell)
	if str == "" {
		return false
	}
	if isoStamp.MatchString(str) {
		return true
	}
	fields := strings.Fields(strings.NewReplacer("T", " ", "+", " ", "Z", " ").Replace(str))
	var hasDate, hasTime bool
	for _, f := range fields {
		if !hasDate {
			if _, ok := MatchDateFormat(f); ok {
				hasDate = true
				continue
			}
		}
		if !hasTime && timeContains(f, &Scan{}) {
			hasTime = true
		}
	}
	if hasDate && hasTime {
		return true
	}
	// Dates with spaces ("Jan 5, 2023 3:04 PM") do not survive the token split.
	for _, df := range DateFormats {
		for _, tf := range TimeFormats {
			if _, err := ParseFormat(df+" "+tf, str); err == nil {
				return true
			}
		}
	}
	return false
}

var datetimeDetectors = []Detector{
	detector{SubYear, TypeDateTime, []string{"year", "yr"}, yearContains},
	detector{SubQuarter, TypeDateTime, []string{"quarter", "qtr"}, quarterContains},
	detector{SubMonth, TypeDateTime, []string{"month"}, monthContains},
	detector{SubWeek, TypeDateTime, []string{"week", "weekday", "dow"}, weekContains},
	detector{SubDay, TypeDateTime, []string{"day"}, dayContains},
	detector{SubHour, TypeDateTime, []string{"hour"}, func(c any, s *Scan) bool { return isHour(c, s.Header) }},
	detector{SubMinute, TypeDateTime, []string{"minute"}, func(c any, s *Scan) bool { return isMinute(c, s.Header) }},
	detector{SubSecond, TypeDateTime, []string{"second"}, func(c any, s *Scan) bool { return isSecond(c, s.Header) }},
	detector{SubDate, TypeDateTime, []string{"date", "dob", "birthday"}, dateContains},
	detector{SubTime, TypeDateTime, []string{"time"}, timeContains},
	detector{SubTimestamp, TypeDateTime, []string{"timestamp", "datetime", "created", "updated"}, timestampContains},
}
