// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package references

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adivvvv/gpt-simple-generator/pkg/types"
)

// Cache stores lookup results in sqlite with a freshness window.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens or creates the cache database at path and drops rows
// older than ttl. ttl <= 0 defaults to 24h.
func OpenCache(ctx context.Context, path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &types.StorageError{Op: "create cache directory", Path: dir, Err: err}
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, &types.StorageError{Op: "open cache", Path: path, Err: err}
	}

	c := &Cache{db: db, ttl: ttl, now: time.Now}
	if err := c.createSchema(ctx); err != nil {
		db.Close()
		return nil, &types.StorageError{Op: "create cache schema", Path: path, Err: err}
	}
	if _, err := c.Prune(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS lookups (
		key TEXT PRIMARY KEY,
		records TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	)`)
	return err
}

// Get returns the cached records for key. ok is false when the key is
// absent or older than the TTL.
func (c *Cache) Get(ctx context.Context, key string) (recs []types.ReferenceRecord, ok bool, err error) {
	var (
		raw       string
		fetchedAt int64
	)
	err = c.db.QueryRowContext(ctx,
		`SELECT records, fetched_at FROM lookups WHERE key = ?`, key,
	).Scan(&raw, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if c.now().Sub(time.Unix(fetchedAt, 0)) >= c.ttl {
		return nil, false, nil
	}

	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry: %w", err)
	}
	return recs, true, nil
}

// Put stores recs under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, recs []types.ReferenceRecord) error {
	if recs == nil {
		recs = []types.ReferenceRecord{}
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO lookups (key, records, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET records = excluded.records, fetched_at = excluded.fetched_at`,
		key, string(data), c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Prune deletes expired entries and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM lookups WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, &types.StorageError{Op: "prune cache", Err: err}
	}
	return res.RowsAffected()
}
