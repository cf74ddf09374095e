package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yedamo-ai/yedamo/pkg/models"
)

// Cache is a key-value store with per-key TTL backed by SQLite.
type Cache struct {
	db     *sql.DB
	hits   atomic.Int64
	misses atomic.Int64
	now    func() time.Time
}

const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	ttl_seconds INTEGER NOT NULL
);
`

// New opens (or creates) the cache database at dbPath.
func New(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// One connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Get retrieves a value. Missing and expired keys report ok=false.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var createdAt, ttlSeconds int64

	err := c.db.QueryRowContext(ctx,
		`SELECT value, created_at, ttl_seconds FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &createdAt, &ttlSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	if c.now().Unix()-createdAt >= ttlSeconds {
		c.misses.Add(1)
		return nil, false, nil
	}

	c.hits.Add(1)
	return value, true, nil
}

// Set stores value under key, replacing any existing entry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (key, value, created_at, ttl_seconds) VALUES (?, ?, ?, ?)`,
		key, value, c.now().Unix(), int64(ttl/time.Second),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Ping checks the database handle.
func (c *Cache) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Stats returns cache performance metrics.
func (c *Cache) Stats(ctx context.Context) (models.CacheStats, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&count)
	if err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Clear removes cache entries. If expiredOnly is true, only expired entries are removed.
func (c *Cache) Clear(ctx context.Context, expiredOnly bool) error {
	var err error
	if expiredOnly {
		_, err = c.db.ExecContext(ctx,
			`DELETE FROM cache_entries WHERE ? - created_at >= ttl_seconds`, c.now().Unix())
	} else {
		_, err = c.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	}
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
