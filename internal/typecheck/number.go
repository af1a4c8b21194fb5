package typecheck

import (
	"math"
	"regexp"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

var priceKeywords = []string{
	"price", "cost", "revenue", "amount", "sales", "fee", "payment", "salary",
	"income", "spend", "budget", "profit", "usd", "dollar",
}

var percentKeywords = []string{"percent", "pct", "ratio", "rate", "share", "proportion", "%"}

const moneyNumber = `(\d{1,3}(,\d{3})+|\d+)(\.\d{2})?`

var (
	currencyLeading  = regexp.MustCompile(`^-?\s*([$€£¥])\s*-?` + moneyNumber + `$`)
	currencyTrailing = regexp.MustCompile(`^-?` + moneyNumber + `\s*([$€£¥])$`)
	percentString    = regexp.MustCompile(`^-?\d+(\.\d{1,2})?%$`)
	decimalString    = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)$`)
)

// CurrencySymbol returns the symbol of a currency-shaped string.
func CurrencySymbol(s string) (string, bool) {
	if m := currencyLeading.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := currencyTrailing.FindStringSubmatch(s); m != nil {
		return m[len(m)-1], true
	}
	return "", false
}

func currencyContains(cell any, s *Scan) bool {
	if _, isBool := cell.(bool); isBool {
		return false
	}
	if f, ok := frame.AsFloat(cell); ok {
		return containsAny(s.Header, priceKeywords...) && f < 1e7
	}
	sym, ok := CurrencySymbol(cellString(cell))
	if ok && s.Votes != nil {
		s.Votes.vote(s.Votes.Currency, sym)
	}
	return ok
}

func percentContains(cell any, s *Scan) bool {
	if _, isBool := cell.(bool); isBool {
		return false
	}
	if f, ok := frame.AsFloat(cell); ok {
		if !containsAny(s.Header, percentKeywords...) {
			return false
		}
		if strings.HasSuffix(s.Header, "rate") {
			return f >= 0 && f <= 100
		}
		return f >= -100 && f <= 100
	}
	return percentString.MatchString(cellString(cell))
}

func wholeContains(cell any, s *Scan) bool {
	if _, isBool := cell.(bool); isBool {
		return false
	}
	v := cell
	if str, ok := cell.(string); ok {
		v = strings.NewReplacer(",", "", " ", "").Replace(str)
	}
	f, ok := frame.AsFloat(v)
	return ok && f >= 0 && f == math.Trunc(f)
}

func decimalContains(cell any, s *Scan) bool {
	if _, isBool := cell.(bool); isBool {
		return false
	}
	if frame.IsNumber(cell) {
		_, ok := frame.AsFloat(cell)
		return ok
	}
	return decimalString.MatchString(cellString(cell))
}

var numberDetectors = []Detector{
	detector{SubCurrency, TypeNumber, priceKeywords, currencyContains},
	detector{SubPercent, TypeNumber, percentKeywords, percentContains},
	detector{SubWhole, TypeNumber, []string{"count", "qty", "quantity", "number_of", "num_"}, wholeContains},
	detector{SubDecimal, TypeNumber, []string{"avg", "mean", "score", "weight", "lat", "lon"}, decimalContains},
}
