// Package store persists exported table snapshots in a local SQLite file.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/shadowdb-cli/internal/typecheck"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no snapshot has the requested id.
var ErrNotFound = errors.New("snapshot not found")

// Payload is the columnar hand-off of one registered table. Data is
// row-major and already free of NaN and infinite floats.
type Payload struct {
	DataSourceID string                 `json:"data_source_id"`
	Name         string                 `json:"name"`
	PrimaryKey   string                 `json:"primary_key"`
	Columns      []string               `json:"columns"`
	Data         [][]any                `json:"data"`
	Schema       []typecheck.Properties `json:"schema,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Summary describes a stored snapshot without its data.
type Summary struct {
	DataSourceID string
	Name         string
	PrimaryKey   string
	Rows         int
	CreatedAt    time.Time
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS data_sources (
	data_source_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	primary_key TEXT NOT NULL,
	columns TEXT NOT NULL,
	data TEXT NOT NULL,
	schema TEXT,
	row_count INTEGER NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_data_sources_name ON data_sources(name);
`

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Save inserts or replaces a snapshot and returns its id. A payload without
// an id is given a new one.
func (s *Store) Save(ctx context.Context, p Payload) (string, error) {
	if p.DataSourceID == "" {
		p.DataSourceID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	cols, err := json.Marshal(p.Columns)
	if err != nil {
		return "", fmt.Errorf("encode columns: %w", err)
	}
	data, err := json.Marshal(p.Data)
	if err != nil {
		return "", fmt.Errorf("encode data: %w", err)
	}
	sch, err := json.Marshal(p.Schema)
	if err != nil {
		return "", fmt.Errorf("encode schema: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO data_sources
			(data_source_id, name, primary_key, columns, data, schema, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.DataSourceID, p.Name, p.PrimaryKey, string(cols), string(data), string(sch), len(p.Data),
		p.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("save snapshot %s: %w", p.DataSourceID, err)
	}
	return p.DataSourceID, nil
}

// Load returns the snapshot with the given id.
func (s *Store) Load(ctx context.Context, id string) (Payload, error) {
	var (
		p                 Payload
		cols, data, stamp string
		sch               sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT data_source_id, name, primary_key, columns, data, schema, created_at
		FROM data_sources WHERE data_source_id = ?`, id).
		Scan(&p.DataSourceID, &p.Name, &p.PrimaryKey, &cols, &data, &sch, &stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return Payload{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Payload{}, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(cols), &p.Columns); err != nil {
		return Payload{}, fmt.Errorf("decode columns: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &p.Data); err != nil {
		return Payload{}, fmt.Errorf("decode data: %w", err)
	}
	if sch.Valid && sch.String != "" && sch.String != "null" {
		if err := json.Unmarshal([]byte(sch.String), &p.Schema); err != nil {
			return Payload{}, fmt.Errorf("decode schema: %w", err)
		}
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, stamp)
	return p, nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT data_source_id, name, primary_key, row_count, created_at
		FROM data_sources ORDER BY created_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var out []Summary
	for rows.Next() {
		var (
			sm    Summary
			stamp string
		)
		if err := rows.Scan(&sm.DataSourceID, &sm.Name, &sm.PrimaryKey, &sm.Rows, &stamp); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		sm.CreatedAt, _ = time.Parse(time.RFC3339Nano, stamp)
		out = append(out, sm)
	}
	return out, rows.Err()
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM data_sources WHERE data_source_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Sanitize makes a typed cell JSON safe: NaN and infinite floats become
// null and times become ISO 8601 strings.
func Sanitize(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return nil
		}
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	}
	return v
}
