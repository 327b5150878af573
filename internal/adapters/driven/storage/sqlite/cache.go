// Package sqlite provides a SQLite-backed cache for upstream API
// responses.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/eregs/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ResponseCache = (*Cache)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	endpoint   TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_expires ON responses(expires_at);
`

// Cache stores upstream response bodies keyed by endpoint path, each
// with its own expiry. Expired rows are treated as absent on read and
// reaped by Purge.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache creates a response cache at dataDir/cache.db, creating the
// directory if needed. If dataDir is empty, defaults to ./cache_data.
func NewCache(dataDir string) (*Cache, error) {
	if dataDir == "" {
		dataDir = "cache_data"
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// WAL mode so reads never block the writer
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached body for an endpoint. Entries past their
// expiry report ok=false.
func (c *Cache) Get(ctx context.Context, endpoint string) ([]byte, bool, error) {
	var (
		body      []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT body, expires_at FROM responses WHERE endpoint = ?`, endpoint,
	).Scan(&body, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if time.Now().Unix() >= expiresAt {
		return nil, false, nil
	}
	return body, true, nil
}

// Set stores a response body with the given time to live, replacing any
// previous entry for the endpoint.
func (c *Cache) Set(ctx context.Context, endpoint string, body []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).Unix()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO responses (endpoint, body, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET body = excluded.body, expires_at = excluded.expires_at`,
		endpoint, body, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge removes expired entries.
func (c *Cache) Purge(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM responses WHERE expires_at <= ?`, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	return nil
}
