// Package catalog is an embedded, file-backed named-version catalog: a
// small SQLite table mapping a human-assigned name ("nightly-2026-07-30")
// to the version/content index pair that realizes it, so callers don't have
// to track raw hashes themselves. A single-file SQLite database in WAL
// mode, with upsert-by-primary-key writes.
package catalog

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

// Record is one named version.
type Record struct {
	Name          string
	VersionHash   uint64
	ContentHash   uint64
	AssetCount    uint32
	ChunkCount    uint32
	TotalSize     uint64
	CreatedAt     time.Time
}

// Catalog is a SQLite-backed store of named versions.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if absent) a catalog database at path.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("catalog: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: set journal_mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS versions (
			name         TEXT PRIMARY KEY,
			version_hash TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			asset_count  INTEGER NOT NULL,
			chunk_count  INTEGER NOT NULL,
			total_size   INTEGER NOT NULL,
			created_at   TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Ping verifies the database connection is alive, for use by health checks.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Put records (or replaces) the version known as name.
func (c *Catalog) Put(ctx context.Context, r Record) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO versions (name, version_hash, content_hash, asset_count, chunk_count, total_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			version_hash = excluded.version_hash,
			content_hash = excluded.content_hash,
			asset_count  = excluded.asset_count,
			chunk_count  = excluded.chunk_count,
			total_size   = excluded.total_size,
			created_at   = excluded.created_at
	`, r.Name, hex64(r.VersionHash), hex64(r.ContentHash), r.AssetCount, r.ChunkCount, r.TotalSize, r.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("catalog: put %q: %w", r.Name, err)
	}
	return nil
}

// Get returns the record for name, or (nil, nil) if it isn't present.
func (c *Catalog) Get(ctx context.Context, name string) (*Record, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT name, version_hash, content_hash, asset_count, chunk_count, total_size, created_at
		FROM versions WHERE name = ?
	`, name)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get %q: %w", name, err)
	}
	return r, nil
}

// List returns every named version, ordered by name.
func (c *Catalog) List(ctx context.Context) ([]Record, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name, version_hash, content_hash, asset_count, chunk_count, total_size, created_at
		FROM versions ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// Delete removes name from the catalog; deleting an absent name is a no-op.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM versions WHERE name = ?", name); err != nil {
		return fmt.Errorf("catalog: delete %q: %w", name, err)
	}
	return nil
}

func scanRecord(row interface{ Scan(...any) error }) (*Record, error) {
	var r Record
	var versionHash, contentHash, createdAt string
	if err := row.Scan(&r.Name, &versionHash, &contentHash, &r.AssetCount, &r.ChunkCount, &r.TotalSize, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if r.VersionHash, err = parseHex64(versionHash); err != nil {
		return nil, fmt.Errorf("parse version_hash: %w", err)
	}
	if r.ContentHash, err = parseHex64(contentHash); err != nil {
		return nil, fmt.Errorf("parse content_hash: %w", err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &r, nil
}

func hex64(v uint64) string {
	return fmt.Sprintf("%016x", v)
}

func parseHex64(s string) (uint64, error) {
	var v uint64
	_, err := fmt.Sscanf(s, "%016x", &v)
	return v, err
}
