// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const cacheFile = "citations.db"

// Cache memoizes resolved citation text on disk so repeated CLI runs do
// not hit the content negotiation service again for the same DOI. It is a
// cache for the external service only; the recording engine's own state
// stays in memory.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates the cache database at dir/citations.db,
// creating dir and the schema as needed.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, cacheFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS citations (
		doi        TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached citation text for doi and whether it was present.
func (c *Cache) Get(doi string) (string, bool, error) {
	var text string
	err := c.db.QueryRow(`SELECT text FROM citations WHERE doi = ?`, doi).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cache entry: %w", err)
	}
	return text, true, nil
}

// Put stores or replaces the citation text for doi.
func (c *Cache) Put(doi, text string) error {
	_, err := c.db.Exec(
		`INSERT INTO citations (doi, text, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(doi) DO UPDATE SET text = excluded.text, fetched_at = excluded.fetched_at`,
		doi, text, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}
