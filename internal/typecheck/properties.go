package typecheck

// Datatypes, the parent grouping of every subtype.
const (
	TypeBlank    = "blank"
	TypeUnique   = "unique"
	TypeDateTime = "datetime"
	TypeLocation = "location"
	TypeNumber   = "number"
	TypeText     = "text"
	TypeUnknown  = "unknown"
)

// Subtypes, the leaf classification of a column.
const (
	SubNull      = "null"
	SubMissing   = "missing"
	SubDefault   = "default"
	SubBoolean   = "boolean"
	SubStatus    = "status"
	SubCategory  = "category"
	SubID        = "id"
	SubYear      = "year"
	SubQuarter   = "quarter"
	SubMonth     = "month"
	SubWeek      = "week"
	SubDay       = "day"
	SubHour      = "hour"
	SubMinute    = "minute"
	SubSecond    = "second"
	SubDate      = "date"
	SubTime      = "time"
	SubTimestamp = "timestamp"
	SubAddress   = "address"
	SubStreet    = "street"
	SubCity      = "city"
	SubState     = "state"
	SubZip       = "zip"
	SubCountry   = "country"
	SubCurrency  = "currency"
	SubPercent   = "percent"
	SubWhole     = "whole"
	SubDecimal   = "decimal"
	SubEmail     = "email"
	SubPhone     = "phone"
	SubURL       = "url"
	SubName      = "name"
	SubGeneral   = "general"
	SubUnknown   = "unknown"
)

// Supplement carries auxiliary per-column facts discovered while classifying
// and converting.
type Supplement struct {
	Null          int               `json:"null" yaml:"null"`
	Missing       int               `json:"missing" yaml:"missing"`
	Default       int               `json:"default" yaml:"default"`
	Formats       map[string]string `json:"formats,omitempty" yaml:"formats,omitempty"`
	Symbol        string            `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Offset        int               `json:"offset" yaml:"offset"`
	Match         float64           `json:"match" yaml:"match"`
	PercentScaled bool              `json:"percent_scaled,omitempty" yaml:"percent_scaled,omitempty"`
}

// Format returns the stored format for subtype, or "".
func (s *Supplement) Format(subtype string) string {
	if s == nil || s.Formats == nil {
		return ""
	}
	return s.Formats[subtype]
}

// SetFormat stores the format used to parse and display subtype.
func (s *Supplement) SetFormat(subtype, format string) {
	if s.Formats == nil {
		s.Formats = map[string]string{}
	}
	s.Formats[subtype] = format
}

// Blanks is the number of null, missing and default cells.
func (s Supplement) Blanks() int { return s.Null + s.Missing + s.Default }

// Properties is the classification record of one column.
type Properties struct {
	ColName          string     `json:"col_name" yaml:"col_name"`
	Total            int        `json:"total" yaml:"total"`
	Type             string     `json:"type" yaml:"type"`
	Subtype          string     `json:"subtype" yaml:"subtype"`
	Supplement       Supplement `json:"supplement" yaml:"supplement"`
	PotentialProblem []string   `json:"potential_problem,omitempty" yaml:"potential_problem,omitempty"`
	PotentialConcern bool       `json:"potential_concern" yaml:"potential_concern"`
}

// Options tune sampling and thresholds.
type Options struct {
	SampleSize       int
	FormatSampleSize int
	FormatMinVotes   int
	Seed             int64
	SubtypeLimit     float64
	HintLimit        float64
}

// DefaultOptions returns the stock sampling and threshold settings.
func DefaultOptions() Options {
	return Options{
		SampleSize:       256,
		FormatSampleSize: 128,
		FormatMinVotes:   16,
		Seed:             42,
		SubtypeLimit:     0.8,
		HintLimit:        0.6,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SampleSize <= 0 {
		o.SampleSize = d.SampleSize
	}
	if o.FormatSampleSize <= 0 {
		o.FormatSampleSize = d.FormatSampleSize
	}
	if o.FormatMinVotes <= 0 {
		o.FormatMinVotes = d.FormatMinVotes
	}
	if o.SubtypeLimit <= 0 {
		o.SubtypeLimit = d.SubtypeLimit
	}
	if o.HintLimit <= 0 {
		o.HintLimit = d.HintLimit
	}
	return o
}
