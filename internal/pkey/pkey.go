// Package pkey picks, or synthesizes, the primary key of a newly registered
// table.
package pkey

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/sirupsen/logrus"
)

const (
	floor           = 0.8
	positional      = 3
	sequenceWindow  = 32
	overlapWeight   = 0.3
	suffixBonus     = 0.05
	uniqueWeight    = 0.35
	completeWeight  = 0.2
	widthWeight     = 0.1
	idMultiplier    = 1.15
	sequentialBoost = 1.2
)

// Choice is the outcome of inference. Synthesized is set when no column
// cleared the floor and Column names a key that does not exist yet.
type Choice struct {
	Column      string
	Score       float64
	Synthesized bool
}

type Inferrer struct {
	log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Inferrer {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Inferrer{log: log}
}

// Infer scores the candidate columns of a table: every id or whole column
// plus the first three by position. A candidate must beat the running best,
// which starts at 0.8, so ties keep the earlier column. Columns holding
// nulls or repeated values cannot identify rows and are skipped.
func (p *Inferrer) Infer(table string, cols []frame.Series, props []typecheck.Properties) Choice {
	best := Choice{Score: floor}
	found := false
	for i, col := range cols {
		var pr typecheck.Properties
		if i < len(props) {
			pr = props[i]
		}
		if i >= positional && pr.Subtype != typecheck.SubID && pr.Subtype != typecheck.SubWhole {
			continue
		}
		if !identifies(col) {
			continue
		}
		s := Score(table, col, pr)
		p.log.WithFields(logrus.Fields{"table": table, "column": col.Name, "score": s}).Debug("scored key candidate")
		if s > best.Score {
			best = Choice{Column: col.Name, Score: s}
			found = true
		}
	}
	if found {
		return best
	}
	name := uniqueName(KeyName(table), cols)
	p.log.WithFields(logrus.Fields{"table": table, "column": name}).Debug("no key candidate cleared the floor, synthesizing")
	return Choice{Column: name, Synthesized: true}
}

// Score computes the weighted key score of one column against its table name.
func Score(table string, col frame.Series, props typecheck.Properties) float64 {
	total := col.Len()
	if total == 0 {
		return 0
	}
	s := overlapWeight * Overlap(col.Name, table)
	lower := strings.ToLower(col.Name)
	if strings.HasSuffix(lower, "key") || strings.HasSuffix(lower, "id") {
		s += suffixBonus
	}

	uniques := map[string]bool{}
	minLen, maxLen := -1, 0
	for _, v := range col.Values {
		if frame.IsNull(v) {
			continue
		}
		str := frame.Stringify(v)
		uniques[str] = true
		n := len([]rune(str))
		if minLen < 0 || n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
	}
	s += uniqueWeight * float64(len(uniques)) / float64(total)
	s += completeWeight * (1 - float64(props.Supplement.Blanks())/float64(total))
	if minLen >= 0 {
		if spread := maxLen - minLen; spread < 3 {
			s += widthWeight * float64(3-spread)
		}
	}

	if props.Subtype == typecheck.SubID {
		s *= idMultiplier
	}
	if sequential(col.Values) {
		s *= sequentialBoost
	}
	return s
}

// sequential reports whether the first 32 non-null values are integers
// increasing by exactly one.
func sequential(values []any) bool {
	var prev int64
	seen := 0
	for _, v := range values {
		if frame.IsNull(v) {
			continue
		}
		if _, isBool := v.(bool); isBool {
			return false
		}
		n, ok := frame.AsInt(v)
		if !ok {
			return false
		}
		if seen > 0 && n != prev+1 {
			return false
		}
		prev = n
		seen++
		if seen == sequenceWindow {
			break
		}
	}
	return seen > 1
}

func identifies(col frame.Series) bool {
	seen := make(map[string]bool, col.Len())
	for _, v := range col.Values {
		if frame.IsNull(v) {
			return false
		}
		s := frame.Stringify(v)
		if seen[s] {
			return false
		}
		seen[s] = true
	}
	return col.Len() > 0
}

// Overlap is the Dice coefficient of the stemmed word sets of two names.
func Overlap(a, b string) float64 {
	ta, tb := stemSet(Words(a)), stemSet(Words(b))
	if len(ta)+len(tb) == 0 {
		return 0
	}
	shared := 0
	for w := range ta {
		if tb[w] {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ta)+len(tb))
}

func stemSet(words []string) map[string]bool {
	out := make(map[string]bool, len(words))
	for _, w := range words {
		out[Stem(w)] = true
	}
	return out
}

// Words splits a name on snake case, camel case and any non-alphanumeric
// rune, lowercasing each word. "dailyOrders" and "daily_orders" both give
// [daily orders].
func Words(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Stem strips common English plural and verb suffixes.
func Stem(w string) string {
	w = strings.ToLower(w)
	for _, suf := range []string{"ies", "ing", "es", "ed", "s"} {
		if len(w) > len(suf)+2 && strings.HasSuffix(w, suf) {
			base := strings.TrimSuffix(w, suf)
			switch suf {
			case "ies":
				return base + "y"
			case "es":
				if strings.HasSuffix(base, "s") || strings.HasSuffix(base, "x") ||
					strings.HasSuffix(base, "ch") || strings.HasSuffix(base, "sh") {
					return base
				}
				return base + "e"
			}
			return base
		}
	}
	return w
}

// KeyName synthesizes a key column name from a table name. Multi-word names
// become the initials of their first three words, long single words are
// stemmed, short ones are used as is: dailyOrders gives do_id,
// transactions gives transaction_id, users gives users_id.
func KeyName(table string) string {
	words := Words(table)
	switch {
	case len(words) == 0:
		return "row_id"
	case len(words) >= 2:
		var b strings.Builder
		for i, w := range words {
			if i == 3 {
				break
			}
			b.WriteRune([]rune(w)[0])
		}
		return b.String() + "_id"
	case len(words[0]) > 8:
		return Stem(words[0]) + "_id"
	}
	return words[0] + "_id"
}

func uniqueName(name string, cols []frame.Series) string {
	taken := make(map[string]bool, len(cols))
	for _, c := range cols {
		taken[c.Name] = true
	}
	if !taken[name] {
		return name
	}
	base := strings.TrimSuffix(name, "_id")
	for i := 1; ; i++ {
		cand := base + "_pk"
		if i > 1 {
			cand = fmt.Sprintf("%s_pk%d", base, i)
		}
		if !taken[cand] {
			return cand
		}
	}
}

// Sequence builds the synthesized key column: the positional index of each
// row as int64, tagged with the table's row ids.
func Sequence(name string, rowIDs []int64) (frame.Series, typecheck.Properties) {
	vals := make([]any, len(rowIDs))
	for i := range vals {
		vals[i] = int64(i)
	}
	ids := make([]int64, len(rowIDs))
	copy(ids, rowIDs)
	props := typecheck.Properties{
		ColName:    name,
		Total:      len(vals),
		Type:       typecheck.TypeUnique,
		Subtype:    typecheck.SubID,
		Supplement: typecheck.Supplement{Match: 1},
	}
	return frame.Series{Name: name, RowIDs: ids, Values: vals}, props
}
