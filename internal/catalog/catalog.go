// Package catalog maintains a SQLite database of exported records so the
// vault can be searched without re-reading source files or artifacts.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Row is one cataloged record.
type Row struct {
	Key        string
	Type       string
	Name       string
	Source     string
	OutputFile string
	Hash       string
	Body       string
	ExportedAt time.Time
}

// Catalog is the SQLite access layer.
type Catalog struct {
	db *sql.DB
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS records (
  key          TEXT PRIMARY KEY,
  type         TEXT NOT NULL,
  name         TEXT NOT NULL,
  source       TEXT NOT NULL DEFAULT '',
  output_file  TEXT NOT NULL,
  hash         TEXT NOT NULL,
  body         TEXT NOT NULL DEFAULT '',
  exported_at  TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_type ON records(type);
CREATE INDEX IF NOT EXISTS idx_records_name ON records(name);
`

// Open opens (creating if needed) the catalog database at dbPath.
func Open(dbPath string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Upsert inserts or replaces the catalog row for a record key.
func (c *Catalog) Upsert(ctx context.Context, row Row) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO records (key, type, name, source, output_file, hash, body, exported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Key, row.Type, row.Name, row.Source, row.OutputFile, row.Hash, row.Body,
		row.ExportedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("catalog upsert %s: %w", row.Key, err)
	}
	return nil
}

// Search returns records whose name or body matches query, case-insensitive.
// typeFilter narrows to one record type when non-empty; limit caps results
// (0 means no cap).
func (c *Catalog) Search(ctx context.Context, query, typeFilter string, limit int) ([]Row, error) {
	q := `SELECT key, type, name, source, output_file, hash, exported_at
	      FROM records
	      WHERE (name LIKE ? COLLATE NOCASE OR body LIKE ? COLLATE NOCASE)`
	args := []any{"%" + query + "%", "%" + query + "%"}
	if typeFilter != "" {
		q += ` AND type = ?`
		args = append(args, typeFilter)
	}
	q += ` ORDER BY name`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog search: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var exported string
		if err := rows.Scan(&r.Key, &r.Type, &r.Name, &r.Source, &r.OutputFile, &r.Hash, &exported); err != nil {
			return nil, fmt.Errorf("catalog search: %w", err)
		}
		r.ExportedAt, _ = time.Parse(time.RFC3339, exported)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of cataloged records.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("catalog count: %w", err)
	}
	return n, nil
}
