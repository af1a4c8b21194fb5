package frame

import "sort"

// Series is one column of a table. RowIDs[i] is the stable surrogate key of
// Values[i]; ids are assigned once at registration and never reused.
type Series struct {
	Name   string
	RowIDs []int64
	Values []any
}

// NewSeries builds a series whose row ids are the positions 0..n-1.
func NewSeries(name string, values []any) Series {
	ids := make([]int64, len(values))
	for i := range ids {
		ids[i] = int64(i)
	}
	return Series{Name: name, RowIDs: ids, Values: values}
}

// Len returns the number of cells.
func (s Series) Len() int { return len(s.Values) }

// Clone copies ids and values so the result can be mutated independently.
func (s Series) Clone() Series {
	ids := make([]int64, len(s.RowIDs))
	copy(ids, s.RowIDs)
	vals := make([]any, len(s.Values))
	copy(vals, s.Values)
	return Series{Name: s.Name, RowIDs: ids, Values: vals}
}

// Slice returns the window [offset, offset+limit). A non-positive limit means
// "to the end". The result shares storage with s.
func (s Series) Slice(offset, limit int) Series {
	n := len(s.Values)
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	out := Series{Name: s.Name, Values: s.Values[offset:end]}
	if len(s.RowIDs) == n {
		out.RowIDs = s.RowIDs[offset:end]
	}
	return out
}

// Index finds the position of rowID. Row ids are kept in increasing order.
func (s Series) Index(rowID int64) (int, bool) {
	i := sort.Search(len(s.RowIDs), func(i int) bool { return s.RowIDs[i] >= rowID })
	if i < len(s.RowIDs) && s.RowIDs[i] == rowID {
		return i, true
	}
	return -1, false
}

// NonNull returns the values that are not null, in order.
func (s Series) NonNull() []any {
	out := make([]any, 0, len(s.Values))
	for _, v := range s.Values {
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}
