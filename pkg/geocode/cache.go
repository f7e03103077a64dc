package geocode

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const cacheMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	query_hash   TEXT PRIMARY KEY,
	query        TEXT NOT NULL,
	latitude     REAL NOT NULL DEFAULT 0,
	longitude    REAL NOT NULL DEFAULT 0,
	display_name TEXT NOT NULL DEFAULT '',
	matched      INTEGER NOT NULL,
	cached_at    INTEGER NOT NULL,
	expires_at   INTEGER
);

CREATE INDEX IF NOT EXISTS idx_geocode_cache_expires_at ON geocode_cache(expires_at);
`

// Cache persists geocode results (matches and non-matches) in SQLite.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenCache opens a SQLite cache at dsn and applies the schema. A ttl of zero
// keeps entries forever.
func OpenCache(ctx context.Context, dsn string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: open cache")
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "geocode: cache exec %s", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, cacheMigration); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "geocode: migrate cache")
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey returns SHA-256 hex of the normalized query for cache lookup.
func cacheKey(query string) string {
	h := sha256.Sum256([]byte(strings.ToLower(normalizeQuery(query))))
	return fmt.Sprintf("%x", h)
}

// Get returns the cached result for query, or nil if absent or expired.
func (c *Cache) Get(ctx context.Context, query string) (*Result, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, display_name, matched FROM geocode_cache
		 WHERE query_hash = ? AND (expires_at IS NULL OR expires_at > ?)`,
		cacheKey(query), c.now().Unix(),
	)

	var r Result
	if err := row.Scan(&r.Latitude, &r.Longitude, &r.DisplayName, &r.Matched); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "geocode: read cache")
	}
	r.Source = "cache"
	return &r, nil
}

// Put stores result for query, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, query string, result *Result) error {
	now := c.now()
	var expiresAt any
	if c.ttl > 0 {
		expiresAt = now.Add(c.ttl).Unix()
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO geocode_cache (query_hash, query, latitude, longitude, display_name, matched, cached_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (query_hash) DO UPDATE SET
			query = excluded.query,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			matched = excluded.matched,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at`,
		cacheKey(query), normalizeQuery(query), result.Latitude, result.Longitude,
		result.DisplayName, result.Matched, now.Unix(), expiresAt,
	)
	return eris.Wrap(err, "geocode: write cache")
}

// Prune deletes expired entries and returns how many were removed.
func (c *Cache) Prune(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM geocode_cache WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		c.now().Unix(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "geocode: prune cache")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "geocode: prune cache rows affected")
	}
	return int(n), nil
}

// CachedClient wraps a Client with a Cache. Cache failures are logged and
// fall through to the wrapped client; geocoder errors are never cached.
type CachedClient struct {
	inner Client
	cache *Cache
}

// NewCachedClient returns a Client that consults cache before inner.
func NewCachedClient(inner Client, cache *Cache) *CachedClient {
	return &CachedClient{inner: inner, cache: cache}
}

// Geocode implements Client.
func (c *CachedClient) Geocode(ctx context.Context, query string) (*Result, error) {
	cached, err := c.cache.Get(ctx, query)
	if err != nil {
		zap.L().Warn("geocode cache read failed", zap.String("query", query), zap.Error(err))
	}
	if cached != nil {
		zap.L().Debug("geocode cache hit", zap.String("query", query), zap.Bool("matched", cached.Matched))
		return cached, nil
	}

	result, err := c.inner.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, query, result); err != nil {
		zap.L().Warn("geocode cache write failed", zap.String("query", query), zap.Error(err))
	}
	return result, nil
}
