// Package shadow keeps the per-table side record of cells that could not be
// represented in their column's canonical type.
package shadow

// Issue types.
const (
	Blank   = "blank"
	Problem = "problem"
	Typo    = "typo"
	Concern = "concern"
)

// Unsupported is the issue subtype for values that failed conversion.
const Unsupported = "unsupported"

// Issue is one row of the ledger. RowID refers to the row's stable id in the
// typed column, not its position.
type Issue struct {
	RowID         int64   `json:"row_id" yaml:"row_id"`
	Column        string  `json:"column_name" yaml:"column_name"`
	IssueType     string  `json:"issue_type" yaml:"issue_type"`
	IssueSubtype  string  `json:"issue_subtype" yaml:"issue_subtype"`
	OriginalValue any     `json:"original_value" yaml:"original_value"`
	RevisedTerm   *string `json:"revised_term" yaml:"revised_term"`
}

type cellKey struct {
	column string
	row    int64
}

type tableIssues struct {
	rows  []Issue
	first map[cellKey]int
}

// Ledger is an append-only issue store keyed by table. It is not safe for
// concurrent use; callers serialize access per table.
type Ledger struct {
	tables map[string]*tableIssues
}

func NewLedger() *Ledger {
	return &Ledger{tables: map[string]*tableIssues{}}
}

// Add appends one issue for every row whose mask entry is true. rowIDs,
// mask and originals are parallel. A mask that selects nothing adds nothing.
func (l *Ledger) Add(table, column, issueType, issueSubtype string, rowIDs []int64, mask []bool, originals []any) int {
	added := 0
	for i, sel := range mask {
		if !sel || i >= len(rowIDs) {
			continue
		}
		var orig any
		if i < len(originals) {
			orig = originals[i]
		}
		l.Append(table, Issue{
			RowID:         rowIDs[i],
			Column:        column,
			IssueType:     issueType,
			IssueSubtype:  issueSubtype,
			OriginalValue: orig,
		})
		added++
	}
	return added
}

// Append records a single issue.
func (l *Ledger) Append(table string, is Issue) {
	t, ok := l.tables[table]
	if !ok {
		t = &tableIssues{first: map[cellKey]int{}}
		l.tables[table] = t
	}
	k := cellKey{is.Column, is.RowID}
	if _, seen := t.first[k]; !seen {
		t.first[k] = len(t.rows)
	}
	t.rows = append(t.rows, is)
}

// Lookup returns the original value of the first issue recorded for the
// cell, or def when the table or cell has none.
func (l *Ledger) Lookup(table, column string, row int64, def any) any {
	if is, ok := l.First(table, column, row); ok {
		return is.OriginalValue
	}
	return def
}

// First returns the first issue recorded for the cell.
func (l *Ledger) First(table, column string, row int64) (Issue, bool) {
	t, ok := l.tables[table]
	if !ok {
		return Issue{}, false
	}
	i, ok := t.first[cellKey{column, row}]
	if !ok {
		return Issue{}, false
	}
	return t.rows[i], true
}

// Revise sets the revised term on every issue of the cell and reports how
// many were touched.
func (l *Ledger) Revise(table, column string, row int64, term string) int {
	t, ok := l.tables[table]
	if !ok {
		return 0
	}
	n := 0
	for i := range t.rows {
		if t.rows[i].Column == column && t.rows[i].RowID == row {
			v := term
			t.rows[i].RevisedTerm = &v
			n++
		}
	}
	return n
}

// Issues returns a copy of the table's issues in insertion order.
func (l *Ledger) Issues(table string) []Issue {
	t, ok := l.tables[table]
	if !ok {
		return nil
	}
	out := make([]Issue, len(t.rows))
	copy(out, t.rows)
	return out
}

// ColumnIssues returns the issues of one column in insertion order.
func (l *Ledger) ColumnIssues(table, column string) []Issue {
	t, ok := l.tables[table]
	if !ok {
		return nil
	}
	var out []Issue
	for _, is := range t.rows {
		if is.Column == column {
			out = append(out, is)
		}
	}
	return out
}

// Count returns how many issues the table has.
func (l *Ledger) Count(table string) int {
	if t, ok := l.tables[table]; ok {
		return len(t.rows)
	}
	return 0
}

// Drop removes every issue of the table.
func (l *Ledger) Drop(table string) bool {
	if _, ok := l.tables[table]; !ok {
		return false
	}
	delete(l.tables, table)
	return true
}
