// Package registry owns registered tables: it runs the classify, convert and
// primary key pipeline over a raw table, then serves cell edits, display
// pages, deletion and export against the result.
//
// A Registry is not safe for concurrent use; callers serialize access.
package registry

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/shadowdb-cli/internal/convert"
	"github.com/KaramelBytes/shadowdb-cli/internal/display"
	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
	"github.com/KaramelBytes/shadowdb-cli/internal/pkey"
	"github.com/KaramelBytes/shadowdb-cli/internal/shadow"
	"github.com/KaramelBytes/shadowdb-cli/internal/store"
	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrTableNotFound  = errors.New("table not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrTableExists    = errors.New("table already registered")
)

// State is the registration stage a table has reached.
type State int

const (
	Unregistered State = iota
	Classified
	Converted
	PrimaryKeyAssigned
	Registered
)

func (s State) String() string {
	switch s {
	case Classified:
		return "classified"
	case Converted:
		return "converted"
	case PrimaryKeyAssigned:
		return "primary_key_assigned"
	case Registered:
		return "registered"
	}
	return "unregistered"
}

// Table is a typed table with one Properties entry per column.
type Table struct {
	ID         string
	Name       string
	Columns    []frame.Series
	Props      []typecheck.Properties
	PrimaryKey string
	State      State
	Warnings   []string
}

// Index returns the position of the named column.
func (t *Table) Index(column string) (int, bool) {
	for i, c := range t.Columns {
		if c.Name == column {
			return i, true
		}
	}
	return -1, false
}

// Rows returns the row count.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Result reports the outcome of a user-facing operation.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Options struct {
	Typecheck typecheck.Options
	Convert   convert.Options
	Display   display.Options
	PageSize  int
}

func DefaultOptions() Options {
	return Options{
		Typecheck: typecheck.DefaultOptions(),
		Convert:   convert.DefaultOptions(),
		Display:   display.Options{Sentinel: display.DefaultSentinel},
		PageSize:  256,
	}
}

type Registry struct {
	opts       Options
	log        logrus.FieldLogger
	ledger     *shadow.Ledger
	classifier *typecheck.Classifier
	converter  *convert.Converter
	renderer   *display.Renderer
	keys       *pkey.Inferrer
	tables     map[string]*Table
	order      []string
}

func New(opts Options, log logrus.FieldLogger) *Registry {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 256
	}
	ledger := shadow.NewLedger()
	return &Registry{
		opts:       opts,
		log:        log,
		ledger:     ledger,
		classifier: typecheck.NewClassifier(opts.Typecheck, log),
		converter:  convert.New(ledger, opts.Convert, log),
		renderer:   display.New(ledger, opts.Display, log),
		keys:       pkey.New(log),
		tables:     map[string]*Table{},
	}
}

// Ledger exposes the issue ledger shared by every table.
func (r *Registry) Ledger() *shadow.Ledger { return r.ledger }

// PageSize is the default display window.
func (r *Registry) PageSize() int { return r.opts.PageSize }

// Sentinel is the marker rendered for cells with no value.
func (r *Registry) Sentinel() string { return r.renderer.Sentinel() }

// Tables lists registered table names in registration order.
func (r *Registry) Tables() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Table returns a registered table.
func (r *Registry) Table(name string) (*Table, error) {
	t, ok := r.tables[name]
	if !ok || t.State != Registered {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// ClassifyColumn classifies a column outside of any table, e.g. a computed
// column about to be added.
func (r *Registry) ClassifyColumn(name string, values []any) typecheck.Properties {
	return r.classifier.Classify(name, values)
}

// ConvertColumn converts a column against props, recording issues under
// table.
func (r *Registry) ConvertColumn(table string, col frame.Series, props typecheck.Properties) (frame.Series, typecheck.Properties) {
	return r.converter.Convert(table, col, props)
}

// RegisterTable cleans, classifies and converts every column of raw, then
// picks or synthesizes the primary key. It returns the properties of every
// column, primary key first when it was synthesized.
func (r *Registry) RegisterTable(raw *frame.RawTable) ([]typecheck.Properties, error) {
	if raw == nil || raw.Name == "" {
		return nil, errors.New("table has no name")
	}
	if _, exists := r.tables[raw.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrTableExists, raw.Name)
	}
	log := r.log.WithField("table", raw.Name)
	raw.Clean()

	t := &Table{ID: uuid.NewString(), Name: raw.Name, Warnings: append([]string(nil), raw.Warnings...)}
	for _, c := range raw.Columns {
		col := frame.NewSeries(c.Name, c.Values)
		t.Columns = append(t.Columns, col)
		t.Props = append(t.Props, r.classifier.Classify(col.Name, col.Values))
	}
	r.advance(t, Classified, log)

	for i, col := range t.Columns {
		t.Columns[i], t.Props[i] = r.converter.Convert(t.Name, col, t.Props[i])
	}
	r.advance(t, Converted, log)

	choice := r.keys.Infer(t.Name, t.Columns, t.Props)
	t.PrimaryKey = choice.Column
	if choice.Synthesized {
		var ids []int64
		if len(t.Columns) > 0 {
			ids = t.Columns[0].RowIDs
		}
		col, props := pkey.Sequence(choice.Column, ids)
		t.Columns = append([]frame.Series{col}, t.Columns...)
		t.Props = append([]typecheck.Properties{props}, t.Props...)
	}
	r.advance(t, PrimaryKeyAssigned, log)

	r.tables[t.Name] = t
	r.order = append(r.order, t.Name)
	r.advance(t, Registered, log)
	log.WithFields(logrus.Fields{
		"rows": t.Rows(), "columns": len(t.Columns), "primary_key": t.PrimaryKey,
		"synthesized": choice.Synthesized, "issues": r.ledger.Count(t.Name),
	}).Info("registered table")

	out := make([]typecheck.Properties, len(t.Props))
	copy(out, t.Props)
	return out, nil
}

// RegisterTables registers each table in turn, stopping at the first error.
func (r *Registry) RegisterTables(raws []*frame.RawTable) (map[string][]typecheck.Properties, error) {
	out := make(map[string][]typecheck.Properties, len(raws))
	for _, raw := range raws {
		props, err := r.RegisterTable(raw)
		if err != nil {
			return out, err
		}
		out[raw.Name] = props
	}
	return out, nil
}

func (r *Registry) advance(t *Table, to State, log logrus.FieldLogger) {
	log.WithFields(logrus.Fields{"from": t.State.String(), "to": to.String()}).Debug("table state")
	t.State = to
}

// UpdateCell validates value against the column's type and stores it. A
// value that does not fit nulls the cell and is recorded as an unsupported
// problem; the column keeps its type either way.
func (r *Registry) UpdateCell(table, column string, row int64, value any) (bool, string) {
	t, err := r.Table(table)
	if err != nil {
		return false, err.Error()
	}
	ci, ok := t.Index(column)
	if !ok {
		return false, fmt.Sprintf("%s: %s", ErrColumnNotFound, column)
	}
	if column == t.PrimaryKey {
		return false, fmt.Sprintf("%s is the primary key of %s and cannot be edited", column, table)
	}
	col := t.Columns[ci]
	pos, ok := col.Index(row)
	if !ok {
		return false, fmt.Sprintf("row %d not found in %s", row, table)
	}
	props := &t.Props[ci]
	log := r.log.WithFields(logrus.Fields{"table": table, "column": column, "row": row})

	typed, ok := r.converter.ConvertCell(value, props, col.Values)
	if !ok {
		col.Values[pos] = nil
		r.ledger.Append(table, shadow.Issue{
			RowID:         row,
			Column:        column,
			IssueType:     shadow.Problem,
			IssueSubtype:  shadow.Unsupported,
			OriginalValue: value,
		})
		log.WithField("value", value).Debug("edit does not fit column type")
		return false, fmt.Sprintf("%q is not a valid %s; stored as an issue", frame.Stringify(value), props.Subtype)
	}
	col.Values[pos] = typed
	revised := r.ledger.Revise(table, column, row, frame.Stringify(value))
	log.WithField("revised", revised).Debug("cell updated")
	if revised > 0 {
		return true, fmt.Sprintf("updated %s row %d; resolved %d issue(s)", column, row, revised)
	}
	return true, fmt.Sprintf("updated %s row %d", column, row)
}

// RenderForDisplay renders limit rows of a column starting at offset. A
// non-positive limit uses the page size.
func (r *Registry) RenderForDisplay(table, column string, offset, limit int) ([]any, error) {
	t, err := r.Table(table)
	if err != nil {
		return nil, err
	}
	ci, ok := t.Index(column)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
	}
	if limit <= 0 {
		limit = r.opts.PageSize
	}
	props := t.Props[ci]
	props.Supplement.Offset = offset
	return r.renderer.Render(table, t.Columns[ci].Slice(offset, limit), props), nil
}

// RenderFullTable renders every column of a table. A column that cannot be
// rendered is skipped and logged.
func (r *Registry) RenderFullTable(table string) (map[string][]any, error) {
	t, err := r.Table(table)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]any, len(t.Columns))
	for _, c := range t.Columns {
		vals, err := r.RenderForDisplay(table, c.Name, 0, t.Rows()+1)
		if err != nil {
			r.log.WithError(err).WithField("table", table).Warn("skipping column")
			continue
		}
		out[c.Name] = vals
	}
	return out, nil
}

// DeleteTable removes a table and its issues.
func (r *Registry) DeleteTable(name string) Result {
	if _, ok := r.tables[name]; !ok {
		return Result{Success: false, Message: "Table not found"}
	}
	delete(r.tables, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.ledger.Drop(name)
	r.log.WithField("table", name).Info("deleted table")
	return Result{Success: true, Message: fmt.Sprintf("Table %s deleted", name)}
}

// Export builds the columnar snapshot payload of a table with every cell
// made JSON safe.
func (r *Registry) Export(table string) (store.Payload, error) {
	t, err := r.Table(table)
	if err != nil {
		return store.Payload{}, err
	}
	p := store.Payload{
		DataSourceID: t.ID,
		Name:         t.Name,
		PrimaryKey:   t.PrimaryKey,
		Schema:       append([]typecheck.Properties(nil), t.Props...),
	}
	for _, c := range t.Columns {
		p.Columns = append(p.Columns, c.Name)
	}
	p.Data = make([][]any, t.Rows())
	for i := range p.Data {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = store.Sanitize(c.Values[i])
		}
		p.Data[i] = row
	}
	return p, nil
}
