package frame

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// IsNull reports whether v is nil, a NaN float, or a blank string.
func IsNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// Stringify renders any cell as a string without failing. Integral floats
// drop their fractional part so 2023.0 reads as "2023".
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case float32:
		return formatFloat(float64(t))
	case float64:
		return formatFloat(t)
	case json.Number:
		return t.String()
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// AsFloat returns the numeric value of native numbers and of strings holding
// a plain number. NaN and infinities are rejected.
func AsFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case int16:
		f = float64(t)
	case int8:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint64:
		f = float64(t)
	case uint32:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.ContainsAny(s, "xXpP_") {
			return 0, false
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumber reports whether v is a native Go number (not a numeric string).
func IsNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, int16, int8, uint, uint64, uint32, json.Number:
		return true
	}
	return false
}

// AsInt returns v as an integer when it is integral.
func AsInt(v any) (int64, bool) {
	f, ok := AsFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 9e15 {
		return 0, false
	}
	return int64(f), true
}
