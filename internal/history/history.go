// Package history keeps a SQLite ledger of completed scans. The ledger
// is an audit trail only: document persistence stays on the JSON cache
// files, and a scan succeeds even if recording it fails.
package history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Ledger is the SQLite data access layer for the scans table.
type Ledger struct {
	db *sql.DB
}

// Scan is one recorded scan event.
type Scan struct {
	ID        int64
	ScanID    string
	Path      string
	Root      string
	CachePath string
	Kind      string
	Functions int
	Classes   int
	Methods   int
	CreatedAt time.Time
}

// Open opens (or creates) a ledger database at dbPath with WAL mode
// enabled and the schema migrated.
func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: ping database: %w", err)
	}
	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) migrate() error {
	if _, err := l.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("history: migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS scans (
  id          INTEGER PRIMARY KEY,
  scan_id     TEXT NOT NULL UNIQUE,
  path        TEXT NOT NULL,
  root        TEXT NOT NULL,
  cache_path  TEXT NOT NULL,
  kind        TEXT NOT NULL,
  functions   INTEGER NOT NULL DEFAULT 0,
  classes     INTEGER NOT NULL DEFAULT 0,
  methods     INTEGER NOT NULL DEFAULT 0,
  created_at  TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_path ON scans(path);
`

// Record inserts one scan event. A missing ScanID is assigned a fresh
// UUID; a zero CreatedAt is set to now. Returns the row ID.
func (l *Ledger) Record(s *Scan) (int64, error) {
	if s.ScanID == "" {
		s.ScanID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	res, err := l.db.Exec(
		`INSERT INTO scans (scan_id, path, root, cache_path, kind, functions, classes, methods, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ScanID, s.Path, s.Root, s.CachePath, s.Kind, s.Functions, s.Classes, s.Methods, s.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("history: record scan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: last insert id: %w", err)
	}
	s.ID = id
	return id, nil
}

// Recent returns the most recent scans, newest first.
func (l *Ledger) Recent(limit int) ([]*Scan, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.Query(
		`SELECT id, scan_id, path, root, cache_path, kind, functions, classes, methods, created_at
		 FROM scans ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query scans: %w", err)
	}
	defer rows.Close()

	var scans []*Scan
	for rows.Next() {
		s := &Scan{}
		if err := rows.Scan(&s.ID, &s.ScanID, &s.Path, &s.Root, &s.CachePath, &s.Kind,
			&s.Functions, &s.Classes, &s.Methods, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// ByPath returns all recorded scans of one target path, newest first.
func (l *Ledger) ByPath(path string) ([]*Scan, error) {
	rows, err := l.db.Query(
		`SELECT id, scan_id, path, root, cache_path, kind, functions, classes, methods, created_at
		 FROM scans WHERE path = ? ORDER BY id DESC`, path)
	if err != nil {
		return nil, fmt.Errorf("history: query scans by path: %w", err)
	}
	defer rows.Close()

	var scans []*Scan
	for rows.Next() {
		s := &Scan{}
		if err := rows.Scan(&s.ID, &s.ScanID, &s.Path, &s.Root, &s.CachePath, &s.Kind,
			&s.Functions, &s.Classes, &s.Methods, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}
