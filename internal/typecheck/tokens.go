package typecheck

import (
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

var missingTokens = set(
	"n/a", "na", "nan", "null", "none", "nil", "missing", "unknown",
	"not available", "not applicable", "<n/a>", "-", "--", "?", "#n/a",
)

var defaultTokens = set(
	"example", "default", "placeholder", "tbd", "tba", "test", "sample",
	"john doe", "jane doe", "xxx", "asdf", "foo", "bar", "your name",
	"enter value", "fill in", "0000-00-00", "1900-01-01", "1970-01-01",
	"000-000-0000", "999-999-9999",
)

var defaultFragments = []string{"lorem ipsum", "example.com", "placeholder", "@test.com"}

// BlankKind reports which blank category a cell falls into: SubNull,
// SubMissing, SubDefault, or "" for a regular value.
func BlankKind(v any) string {
	if frame.IsNull(v) {
		return SubNull
	}
	s := strings.ToLower(strings.TrimSpace(frame.Stringify(v)))
	if missingTokens[s] {
		return SubMissing
	}
	if IsDefaultToken(s) {
		return SubDefault
	}
	return ""
}

// IsMissingToken reports whether s is a recognised "missing" marker.
func IsMissingToken(s string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(s))]
}

// IsDefaultToken reports whether s is, or contains, a placeholder value.
func IsDefaultToken(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if defaultTokens[s] {
		return true
	}
	for _, f := range defaultFragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// hasToken reports whether any of toks appears as a whole token of an
// underscore or punctuation separated header.
func hasToken(header string, toks ...string) bool {
	parts := strings.FieldsFunc(header, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for _, p := range parts {
		for _, t := range toks {
			if p == t {
				return true
			}
		}
	}
	return false
}

func containsAny(header string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(header, s) {
			return true
		}
	}
	return false
}
