// Package history persists the per-round audit log.
package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/pkg/filesystem"
	"github.com/gemforge/gemforge/internal/ports"
)

// SQLiteStore persists round records in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.gemforge/history/history.db
// database. When the database cannot be opened, records fall through to a
// jsonl file beside it.
func NewSQLiteStore() *SQLiteStore {
	path := filepath.Join(filesystem.UserHomeDir(), ".gemforge", "history", "history.db")
	return NewSQLiteStoreAt(path)
}

// NewSQLiteStoreAt opens a store at an explicit path.
func NewSQLiteStoreAt(path string) *SQLiteStore {
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
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS rounds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		session_id TEXT,
		mode TEXT,
		prompt TEXT,
		model TEXT,
		action_count INTEGER,
		failure_count INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save inserts a new round record.
func (s *SQLiteStore) Save(record domain.RoundRecord) error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO rounds
		(timestamp, session_id, mode, prompt, model, action_count, failure_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.SessionID,
		record.Mode,
		record.Prompt,
		record.Model,
		record.ActionCount,
		record.FailureCount,
		record.DurationMS,
	)
	return err
}

// Records returns round entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.RoundRecord, error) {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Records(limit, search)
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, session_id, mode, prompt, model, action_count, failure_count, duration_ms FROM rounds")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE prompt LIKE ? OR session_id LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.RoundRecord
	for rows.Next() {
		var rec domain.RoundRecord
		var ts string
		if err := rows.Scan(&ts, &rec.SessionID, &rec.Mode, &rec.Prompt, &rec.Model, &rec.ActionCount, &rec.FailureCount, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all round entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: s.fallbackPath()}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM rounds")
	return err
}

// ExportJSON writes the round table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		if rec.Timestamp.IsZero() {
			rec.Timestamp = time.Now()
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) fallbackPath() string {
	return strings.TrimSuffix(s.path, filepath.Ext(s.path)) + ".jsonl"
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
