package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/twiced-technology-gmbh/deadliner/internal/filelock"
)

// SQLiteKV keeps keys in a single-table SQLite database.
type SQLiteKV struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and makes sure
// the kv table exists.
func OpenSQLite(path string) (*SQLiteKV, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	kv := &SQLiteKV{conn: conn, path: path}
	if err := kv.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return kv, nil
}

func (s *SQLiteKV) init() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating kv table: %w", err)
	}
	return nil
}

// Get implements KV.
func (s *SQLiteKV) Get(key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements KV.
func (s *SQLiteKV) Set(key, value string) error {
	_, err := s.conn.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}
	return nil
}

// Lock implements Locker so a CLI invocation and a running TUI never
// interleave read-modify-write cycles.
func (s *SQLiteKV) Lock() (func() error, error) {
	return filelock.Lock(s.path + ".lock")
}

// Close closes the database connection.
func (s *SQLiteKV) Close() error {
	return s.conn.Close()
}
