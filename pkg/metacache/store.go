// Package metacache caches extracted publication metadata in a local SQLite
// database so unchanged files are not reopened on every catalog scan.
package metacache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/myoung/opds-shelf/pkg/catalog"
)

const schema = `
	CREATE TABLE IF NOT EXISTS file_metadata (
		path TEXT NOT NULL PRIMARY KEY,
		mtime INTEGER NOT NULL,
		metadata TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// Store is a metadata cache backed by a SQLite file. Entries are keyed by
// file path and invalidated when the file's mtime changes.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("Failed to close cache database", "error", closeErr)
			}
			return nil, fmt.Errorf("failed to configure cache database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close cache database", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the cache database file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached metadata for path, if present and still matching
// the given mtime.
func (s *Store) Get(path string, mtime time.Time) (catalog.Metadata, bool, error) {
	var meta catalog.Metadata

	var stored int64
	var encoded string
	err := s.db.QueryRow(
		`SELECT mtime, metadata FROM file_metadata WHERE path = ?`, path,
	).Scan(&stored, &encoded)
	if err == sql.ErrNoRows {
		return meta, false, nil
	}
	if err != nil {
		return meta, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if stored != mtime.Unix() {
		return meta, false, nil
	}
	if err := json.Unmarshal([]byte(encoded), &meta); err != nil {
		// A corrupt entry is treated as a miss and overwritten on Put.
		slog.Warn("Dropping unreadable cache entry", "path", path, "error", err)
		return catalog.Metadata{}, false, nil
	}
	return meta, true, nil
}

// Put stores metadata for path at the given mtime, replacing any previous
// entry.
func (s *Store) Put(path string, mtime time.Time, meta catalog.Metadata) error {
	encoded, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO file_metadata (path, mtime, metadata, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)`,
		path, mtime.Unix(), string(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Prune removes entries whose path is not in keep. It returns the number of
// removed rows.
func (s *Store) Prune(keep map[string]bool) (int64, error) {
	rows, err := s.db.Query(`SELECT path FROM file_metadata`)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return 0, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		if !keep[path] {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to list cache entries: %w", err)
	}

	var removed int64
	for _, path := range stale {
		res, err := s.db.Exec(`DELETE FROM file_metadata WHERE path = ?`, path)
		if err != nil {
			return removed, fmt.Errorf("failed to delete cache entry: %w", err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	if removed > 0 {
		slog.Debug("Pruned stale cache entries", "count", removed)
	}
	return removed, nil
}
