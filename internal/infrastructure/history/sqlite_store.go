// Package history persists workflow run records.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/pkg/filesystem"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// SQLiteStore persists run records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.reviewctl/history/runs.db
// database. When the database cannot be opened the store degrades to
// the jsonl file store next to it.
func NewSQLiteStore() *SQLiteStore {
	path := filepath.Join(filesystem.UserHomeDir(), ".reviewctl", "history", "runs.db")
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT,
		started_at TEXT,
		duration_ms INTEGER,
		passed INTEGER,
		warned INTEGER,
		failed INTEGER,
		notes TEXT
	);`)
	return err
}

// Save implements ports.RunHistory.
func (s *SQLiteStore) Save(record domain.RunRecord) error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO runs
		(id, mode, started_at, duration_ms, passed, warned, failed, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		string(record.Mode),
		record.StartedAt.Format(time.RFC3339),
		record.DurationMS,
		record.Passed,
		record.Warned,
		record.Failed,
		record.Notes,
	)
	return err
}

// Records implements ports.RunHistory, newest first.
func (s *SQLiteStore) Records(limit int) ([]domain.RunRecord, error) {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Records(limit)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT id, mode, started_at, duration_ms, passed, warned, failed, notes FROM runs ORDER BY datetime(started_at) DESC")
	var args []interface{}
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var mode, ts string
		if err := rows.Scan(&rec.ID, &mode, &ts, &rec.DurationMS, &rec.Passed, &rec.Warned, &rec.Failed, &rec.Notes); err != nil {
			return nil, err
		}
		rec.Mode = domain.RunMode(mode)
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.StartedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear implements ports.RunHistory.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM runs")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) fallbackPath() string {
	return strings.TrimSuffix(s.path, ".db") + ".jsonl"
}

var _ ports.RunHistory = (*SQLiteStore)(nil)
