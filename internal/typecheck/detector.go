package typecheck

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

// Detector answers whether a single cell looks like one subtype.
type Detector interface {
	Name() string
	Parent() string
	Indicators() []string
	Contains(cell any, s *Scan) bool
}

type detector struct {
	name       string
	parent     string
	indicators []string
	fn         func(cell any, s *Scan) bool
}

func (d detector) Name() string         { return d.name }
func (d detector) Parent() string       { return d.parent }
func (d detector) Indicators() []string { return d.indicators }

func (d detector) Contains(cell any, s *Scan) bool {
	if s == nil {
		s = &Scan{}
	}
	return d.fn(cell, s)
}

// Header lower-cases a column name and replaces spaces with underscores.
func Header(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Votes accumulates the formats and symbols seen while detectors scan.
type Votes struct {
	Date     map[string]int
	Time     map[string]int
	Currency map[string]int
}

func NewVotes() *Votes {
	return &Votes{Date: map[string]int{}, Time: map[string]int{}, Currency: map[string]int{}}
}

func (v *Votes) vote(m map[string]int, key string) {
	if v == nil || m == nil {
		return
	}
	m[key]++
}

// top returns the key with the most votes. Ties go to the key listed first in
// order, then to the lexically smallest key.
func top(m map[string]int, order []string) (string, int) {
	var rest []string
	for k := range m {
		if !inList(k, order) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	best, n := "", 0
	for _, k := range append(append([]string{}, order...), rest...) {
		if c := m[k]; c > n {
			best, n = k, c
		}
	}
	return best, n
}

func inList(s string, list []string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// Scan is the per-column context threaded through every detector call.
type Scan struct {
	Header   string
	Uniques  []string
	NonBlank int
	Votes    *Votes

	lower   map[string]bool
	idShape *bool
	status  *bool
}

// NewScan prepares a scan over the non-blank values of a column.
func NewScan(name string, values []any) *Scan {
	s := &Scan{Header: Header(name), Votes: NewVotes(), lower: map[string]bool{}}
	seen := map[string]bool{}
	for _, v := range values {
		if BlankKind(v) != "" {
			continue
		}
		s.NonBlank++
		str := strings.TrimSpace(frame.Stringify(v))
		if !seen[str] {
			seen[str] = true
			s.Uniques = append(s.Uniques, str)
		}
		s.lower[strings.ToLower(str)] = true
	}
	return s
}

// lowerUniques is the case-folded unique set.
func (s *Scan) lowerUniques() map[string]bool {
	if s.lower == nil {
		s.lower = map[string]bool{}
		for _, u := range s.Uniques {
			s.lower[strings.ToLower(u)] = true
		}
	}
	return s.lower
}

func subsetOf(have map[string]bool, of map[string]bool) bool {
	if len(have) == 0 {
		return false
	}
	for k := range have {
		if !of[k] {
			return false
		}
	}
	return true
}

func cellString(cell any) string {
	return strings.TrimSpace(frame.Stringify(cell))
}
