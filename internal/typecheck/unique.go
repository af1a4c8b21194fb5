package typecheck

import (
	"regexp"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

var (
	boolTrue  = set("True", "true", "TRUE", "T", "1")
	boolFalse = set("False", "false", "FALSE", "F", "0")

	boolPairs = []map[string]bool{
		set("yes", "no"), set("y", "n"), set("true", "false"), set("t", "f"),
		set("1", "0"), set("on", "off"), set("1.0", "0.0"),
	}

	// BoolLookup maps every recognised boolean spelling to its value.
	BoolLookup = map[string]bool{
		"true": true, "t": true, "1": true, "yes": true, "y": true, "on": true, "1.0": true,
		"false": false, "f": false, "0": false, "no": false, "n": false, "off": false, "0.0": false,
	}
)

var statusSets = []map[string]bool{
	set("active", "inactive"),
	set("open", "closed"),
	set("approved", "rejected", "pending"),
	set("enabled", "disabled"),
	set("success", "failure"),
	set("succeeded", "failed"),
	set("pass", "fail"),
	set("passed", "failed"),
	set("complete", "incomplete"),
	set("completed", "in progress", "not started"),
	set("paid", "unpaid", "overdue"),
	set("online", "offline"),
	set("available", "unavailable"),
	set("public", "private"),
	set("draft", "published", "archived"),
	set("new", "in progress", "done"),
	set("open", "in progress", "resolved", "closed"),
	set("shipped", "delivered", "cancelled", "processing"),
}

var statusPatterns = regexpList(
	`^(in)?valid$`,
	`^(in)?active$`,
	`^(un)?paid$`,
	`^(dis|en)abled$`,
	`^(un)?available$`,
	`^(in)?complete(d)?$`,
	`^(un)?verified$`,
	`^(un)?approved$`,
	`^(un)?confirmed$`,
	`^(un)?published$`,
	`^(un)?resolved$`,
	`^(un)?read$`,
	`^(un)?subscribed$`,
	`^(on|off)line$`,
	`^(pending|waiting|on hold)$`,
	`^(success|succeeded|fail|failed|failure|error)$`,
	`^(started|stopped|running)$`,
	`^(accepted|rejected|declined)$`,
)

var idPattern = regexp.MustCompile(`^[A-Za-z\-_]{0,3}\d{4,}$`)

func regexpList(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func booleanContains(cell any, s *Scan) bool {
	str := cellString(cell)
	if boolTrue[str] || boolFalse[str] {
		return true
	}
	low := s.lowerUniques()
	if len(low) > 2 {
		return false
	}
	for _, pair := range boolPairs {
		if subsetOf(low, pair) {
			return true
		}
	}
	return false
}

// hasIDShape holds when every unique is all digits or a short prefix plus
// four or more digits, and the uniques come in at most two lengths.
func (s *Scan) hasIDShape() bool {
	if s.idShape != nil {
		return *s.idShape
	}
	ok := len(s.Uniques) > 0
	lengths := map[int]bool{}
	for _, u := range s.Uniques {
		if !isDigits(u) && !idPattern.MatchString(u) {
			ok = false
			break
		}
		lengths[len(u)] = true
	}
	ok = ok && len(lengths) <= 2
	s.idShape = &ok
	return ok
}

func idContains(cell any, s *Scan) bool {
	if !s.hasIDShape() {
		return false
	}
	str := cellString(cell)
	return isDigits(str) || idPattern.MatchString(str)
}

func (s *Scan) hasStatusShape() bool {
	if s.status != nil {
		return *s.status
	}
	low := s.lowerUniques()
	ok := false
	for _, st := range statusSets {
		if subsetOf(low, st) {
			ok = true
			break
		}
	}
	if !ok && len(low) > 0 {
		ok = true
		for u := range low {
			matched := false
			for _, re := range statusPatterns {
				if re.MatchString(u) {
					matched = true
					break
				}
			}
			if !matched {
				ok = false
				break
			}
		}
	}
	if !ok {
		for u := range low {
			if strings.HasPrefix(u, "not ") && low[strings.TrimPrefix(u, "not ")] {
				ok = true
				break
			}
		}
	}
	s.status = &ok
	return ok
}

func statusContains(cell any, s *Scan) bool {
	if s.Header == "status" {
		return true
	}
	return s.hasStatusShape()
}

func categoryContains(cell any, s *Scan) bool {
	if s.NonBlank < 16 || len(s.Uniques) > 16 {
		return false
	}
	for _, u := range s.Uniques {
		if _, ok := frame.AsFloat(u); ok {
			return false
		}
	}
	return true
}

var (
	booleanDetector  = detector{SubBoolean, TypeUnique, []string{"is_", "has_", "flag", "bool"}, booleanContains}
	statusDetector   = detector{SubStatus, TypeUnique, []string{"status", "state_of", "stage"}, statusContains}
	categoryDetector = detector{SubCategory, TypeUnique, []string{"category", "type", "kind", "class", "group", "segment"}, categoryContains}
	idDetector       = detector{SubID, TypeUnique, []string{"_id", "id_", "uuid", "key", "code"}, idContains}
)

// idHeader reports whether a header names an identifier.
func idHeader(header string) bool {
	return header == "id" || strings.HasPrefix(header, "id_") || strings.HasSuffix(header, "_id") ||
		hasToken(header, "id", "key", "uuid", "code")
}
