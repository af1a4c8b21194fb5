package frame

import (
	"fmt"
	"strings"
)

// RawTable is a table as loaded from a source, before any typing.
type RawTable struct {
	Name     string
	Columns  []Series
	Warnings []string
}

// Rows returns the length of the longest column.
func (t *RawTable) Rows() int {
	n := 0
	for _, c := range t.Columns {
		if c.Len() > n {
			n = c.Len()
		}
	}
	return n
}

// Column returns the column called name.
func (t *RawTable) Column(name string) (Series, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Series{}, false
}

// FromRecords turns a header and row-major string records into a raw table.
// Short rows are padded with nulls.
func FromRecords(name string, header []string, records [][]string) *RawTable {
	cols := make([][]any, len(header))
	for i := range cols {
		cols[i] = make([]any, len(records))
	}
	for r, rec := range records {
		for c := range header {
			if c < len(rec) {
				cols[c][r] = rec[c]
			}
		}
	}
	t := &RawTable{Name: name}
	for i, h := range header {
		t.Columns = append(t.Columns, NewSeries(h, cols[i]))
	}
	return t
}

// FromObjects builds a raw table from decoded JSON objects. Column order
// follows first appearance of each key; native numbers and booleans are kept.
func FromObjects(name string, objs []map[string]any, order []string) *RawTable {
	seen := map[string]bool{}
	var keys []string
	for _, k := range order {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, o := range objs {
		for k := range o {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	t := &RawTable{Name: name}
	for _, k := range keys {
		vals := make([]any, len(objs))
		for i, o := range objs {
			vals[i] = o[k]
		}
		t.Columns = append(t.Columns, NewSeries(k, vals))
	}
	return t
}

// Clean normalizes headers and cells: trims names, fills empty names with
// column_<n>, suffixes duplicates, trims string cells and pads ragged columns.
func (t *RawTable) Clean() {
	n := t.Rows()
	used := map[string]int{}
	for i := range t.Columns {
		c := &t.Columns[i]
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if k, dup := used[name]; dup {
			base := name
			for {
				k++
				name = fmt.Sprintf("%s_%d", base, k)
				if _, taken := used[name]; !taken {
					break
				}
			}
			used[base] = k
		}
		used[name] = 1
		c.Name = name
		for j, v := range c.Values {
			if s, ok := v.(string); ok {
				c.Values[j] = strings.TrimSpace(s)
			}
		}
		if c.Len() < n {
			vals := make([]any, n)
			copy(vals, c.Values)
			*c = NewSeries(name, vals)
		}
	}
}
