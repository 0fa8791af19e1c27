package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// historyDepth is the number of previous values kept per key.
const historyDepth = 20

// Revision is a past value of a key.
type Revision struct {
	ID      int64     `json:"id"`
	Key     string    `json:"key"`
	Value   string    `json:"value"`
	SavedAt time.Time `json:"savedAt"`
}

// SQLiteKV persists records in a single SQLite table, one row per key.
type SQLiteKV struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteKV(dbPath string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteKV{db: db, now: time.Now}, nil
}

func (s *SQLiteKV) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the stored value; ok is false when the key was never saved.
func (s *SQLiteKV) Load(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	return value, true, nil
}

// Save upserts the value and records it in the key's history.
func (s *SQLiteKV) Save(ctx context.Context, key, value string) error {
	ts := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, ts); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_history (key, value, saved_at) VALUES (?, ?, ?)`, key, value, ts); err != nil {
		return fmt.Errorf("record history %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM kv_history WHERE key = ? AND id NOT IN (
			SELECT id FROM kv_history WHERE key = ? ORDER BY id DESC LIMIT ?)`,
		key, key, historyDepth); err != nil {
		return fmt.Errorf("prune history %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in alphabetical order.
func (s *SQLiteKV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// History returns up to limit previous values of key, newest first.
func (s *SQLiteKV) History(ctx context.Context, key string, limit int) ([]Revision, error) {
	if limit <= 0 || limit > historyDepth {
		limit = historyDepth
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, key, value, saved_at FROM kv_history WHERE key = ? ORDER BY id DESC LIMIT ?`, key, limit)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", key, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			r  Revision
			ts string
		)
		if err := rows.Scan(&r.ID, &r.Key, &r.Value, &ts); err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		r.SavedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}
