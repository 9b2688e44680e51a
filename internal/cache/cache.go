// Package cache stores the results of successful checks so unchanged
// files can be skipped on the next run. Only successes are recorded: a
// file that previously failed is always re-checked.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS checked (
	key        TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	syntax     TEXT NOT NULL,
	checked_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checked_path ON checked(path);
`

// Cache is an on-disk table of content hashes that passed a full check.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at the given path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to cache %s: %w", path, err)
	}

	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Key derives the cache key for one source file. It covers the file
// content and the syntax it was checked under, so switching a file
// between surfaces invalidates its entry.
func Key(source []byte, syntax string) string {
	h := sha256.New()
	h.Write([]byte(syntax))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// Hit reports whether the given key passed a previous check.
func (c *Cache) Hit(ctx context.Context, key string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx,
		"SELECT 1 FROM checked WHERE key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying cache: %w", err)
	}
	return true, nil
}

// Record marks a key as having passed a check.
func (c *Cache) Record(ctx context.Context, key, path, syntax string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO checked (key, path, syntax, checked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET path = excluded.path, checked_at = excluded.checked_at`,
		key, path, syntax, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("recording cache entry: %w", err)
	}
	return nil
}

// Prune drops entries older than the given age.
func (c *Cache) Prune(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age).Unix()
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM checked WHERE checked_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
