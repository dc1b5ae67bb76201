// Package database maintains an optional on-disk cache of computed
// fingerprints, so re-runs over a large collection skip hashing files
// that have not changed. The similarity index itself is never
// persisted; it is rebuilt in memory on every invocation.
package database

import (
	"database/sql"
	"fmt"
	"time"

	"similarimages/logging"

	_ "github.com/mattn/go-sqlite3"
)

// InitCache opens the cache database, creating the schema if needed.
func InitCache(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS fingerprints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		hash_size INTEGER NOT NULL,
		hash_hex TEXT NOT NULL,
		size INTEGER,
		modified_at TEXT,
		created_at TEXT,
		UNIQUE(path, algorithm, hash_size)
	);
	CREATE INDEX IF NOT EXISTS idx_fingerprint_path ON fingerprints(path);
	CREATE INDEX IF NOT EXISTS idx_fingerprint_hash ON fingerprints(hash_hex);`

	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create cache schema: %v", err)
	}

	logging.DebugLog("Fingerprint cache ready at %s", dbPath)
	return db, nil
}

// Lookup returns the cached hash for a file, or ok=false when the file
// is not cached or has changed since it was hashed. Staleness is
// decided by modification time and size.
func Lookup(db *sql.DB, path, algorithm string, hashSize int, modifiedAt string, size int64) (string, bool, error) {
	var hashHex, storedModTime string
	var storedSize int64

	err := db.QueryRow(
		"SELECT hash_hex, modified_at, size FROM fingerprints WHERE path = ? AND algorithm = ? AND hash_size = ?",
		path, algorithm, hashSize,
	).Scan(&hashHex, &storedModTime, &storedSize)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache lookup error for %s: %v", path, err)
	}

	if storedModTime != modifiedAt || storedSize != size {
		logging.DebugLog("Cache entry stale for %s (modified)", path)
		return "", false, nil
	}
	return hashHex, true, nil
}

// StoreFingerprint inserts or replaces the cached hash for a file.
func StoreFingerprint(db *sql.DB, path, algorithm string, hashSize int, hashHex, modifiedAt string, size int64) error {
	stmt, err := db.Prepare(`
		INSERT OR REPLACE INTO fingerprints (
			path, algorithm, hash_size, hash_hex, size, modified_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("cannot prepare cache statement for %s: %v", path, err)
	}
	defer stmt.Close()

	now := time.Now().Format(time.RFC3339)
	if _, err := stmt.Exec(path, algorithm, hashSize, hashHex, size, modifiedAt, now); err != nil {
		return fmt.Errorf("cannot cache fingerprint for %s: %v", path, err)
	}
	return nil
}

// CacheStats contains statistics about the cache contents.
type CacheStats struct {
	TotalFingerprints int
	UniqueHashes      int
}

// GetCacheStats reports how many fingerprints are cached for an
// algorithm, and how many distinct hash values they carry.
func GetCacheStats(db *sql.DB, algorithm string) (*CacheStats, error) {
	var stats CacheStats

	err := db.QueryRow("SELECT COUNT(*) FROM fingerprints WHERE algorithm = ?", algorithm).
		Scan(&stats.TotalFingerprints)
	if err != nil {
		return nil, fmt.Errorf("failed to count cached fingerprints: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(DISTINCT hash_hex) FROM fingerprints WHERE algorithm = ?", algorithm).
		Scan(&stats.UniqueHashes)
	if err != nil {
		return nil, fmt.Errorf("failed to count unique hashes: %v", err)
	}

	return &stats, nil
}
