package typecheck

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

var (
	emailShape = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	urlShape   = regexp.MustCompile(`(?i)^(https?://|www\.)[^\s/]+\.[^\s]+$`)
	nameShape  = regexp.MustCompile(`^(Mr\.|Mrs\.|Ms\.|Dr\.|Miss|Prof\.)?\s*[A-Z][a-zA-Z'\-]+(\s+[A-Z][a-zA-Z'\-]*\.?){1,3}$`)
	phoneStrip = strings.NewReplacer("-", "", "+", "", "(", "", ")", "", "'", "", " ", "", ".", "")
)

func emailContains(cell any, s *Scan) bool { return emailShape.MatchString(cellString(cell)) }

// phoneContains accepts 7 digit local numbers, 10 digit US numbers and
// 11 digit numbers with a leading country code of 1.
func phoneContains(cell any, s *Scan) bool {
	if frame.IsNumber(cell) && !strings.Contains(s.Header, "phone") {
		return false
	}
	str := cellString(cell)
	if i := strings.IndexAny(strings.ToLower(str), "x"); i > 0 {
		str = strings.TrimSpace(str[:i])
	}
	digits := phoneStrip.Replace(str)
	if !isDigits(digits) {
		return false
	}
	switch len(digits) {
	case 7, 10:
		return true
	case 11:
		return digits[0] == '1'
	}
	return false
}

func urlContains(cell any, s *Scan) bool { return urlShape.MatchString(cellString(cell)) }

func nameContains(cell any, s *Scan) bool { return nameShape.MatchString(cellString(cell)) }

func generalContains(cell any, s *Scan) bool {
	switch cell.(type) {
	case []any, []string, map[string]any:
		return false
	}
	if frame.IsNull(cell) {
		return false
	}
	str := cellString(cell)
	if strings.HasPrefix(str, "{") && json.Valid([]byte(str)) {
		return false
	}
	return true
}

var textDetectors = []Detector{
	detector{SubEmail, TypeText, []string{"email", "e-mail", "mail"}, emailContains},
	detector{SubPhone, TypeText, []string{"phone", "tel", "mobile", "cell", "fax"}, phoneContains},
	detector{SubURL, TypeText, []string{"url", "link", "website", "site", "href"}, urlContains},
	detector{SubName, TypeText, []string{"name"}, nameContains},
	detector{SubGeneral, TypeText, nil, generalContains},
}
