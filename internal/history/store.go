// Package history persists submitted search queries so recent searches
// survive across sessions.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"astrofs/internal/errors"

	_ "modernc.org/sqlite"
)

// Query is one recorded search.
type Query struct {
	Pattern     string
	ResultCount int
	Directory   string
	At          time.Time
}

// Store is a small SQLite-backed search history. It keeps at most
// limit rows, dropping the oldest.
type Store struct {
	conn  *sql.DB
	limit int
}

// Open opens (creating if needed) the history database at dbPath.
func Open(dbPath string, limit int) (*Store, error) {
	if limit < 1 {
		return nil, errors.New(errors.InvalidArgument, "history limit must be >= 1")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.FromOS(dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.WrapPath(errors.IOError, err, "cannot open history store", dbPath)
	}

	for _, pragma := range []string{"PRAGMA journal_mode=WAL;", "PRAGMA synchronous=NORMAL;"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.WrapPath(errors.IOError, err, "cannot configure history store", dbPath)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS searches (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			pattern      TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			directory    TEXT NOT NULL,
			searched_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.WrapPath(errors.CorruptData, err, "cannot initialise history schema", dbPath)
	}

	return &Store{conn: db, limit: limit}, nil
}

// Record stores one submitted query and trims the table to the limit.
// Re-submitting a pattern moves it to the front rather than duplicating it.
func (s *Store) Record(pattern string, resultCount int, directory string) error {
	if pattern == "" {
		return nil
	}
	if _, err := s.conn.Exec("DELETE FROM searches WHERE pattern = ?", pattern); err != nil {
		return errors.Wrap(errors.IOError, err, "history dedup failed")
	}
	_, err := s.conn.Exec(
		"INSERT INTO searches (pattern, result_count, directory) VALUES (?, ?, ?)",
		pattern, resultCount, directory,
	)
	if err != nil {
		return errors.Wrap(errors.IOError, err, "history insert failed")
	}
	_, err = s.conn.Exec(
		"DELETE FROM searches WHERE id NOT IN (SELECT id FROM searches ORDER BY id DESC LIMIT ?)",
		s.limit,
	)
	if err != nil {
		return errors.Wrap(errors.IOError, err, "history trim failed")
	}
	return nil
}

// Recent returns up to n queries, newest first.
func (s *Store) Recent(n int) ([]Query, error) {
	rows, err := s.conn.Query(
		"SELECT pattern, result_count, directory, searched_at FROM searches ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, errors.Wrap(errors.IOError, err, "history query failed")
	}
	defer rows.Close()

	var out []Query
	for rows.Next() {
		var q Query
		if err := rows.Scan(&q.Pattern, &q.ResultCount, &q.Directory, &q.At); err != nil {
			return nil, errors.Wrap(errors.CorruptData, err, "history row scan failed")
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Clear removes all recorded queries.
func (s *Store) Clear() error {
	if _, err := s.conn.Exec("DELETE FROM searches"); err != nil {
		return errors.Wrap(errors.IOError, err, "history clear failed")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.conn.Close()
}
