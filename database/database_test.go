package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	db, err := InitCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	err = StoreFingerprint(db, "/photos/a.png", "phash", 8, "00000000000000ff", "2026-08-30T10:00:00Z", 1234)
	require.NoError(t, err)

	hashHex, ok, err := Lookup(db, "/photos/a.png", "phash", 8, "2026-08-30T10:00:00Z", 1234)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "00000000000000ff", hashHex)
}

func TestLookupMissesUnknownPath(t *testing.T) {
	db, err := InitCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	_, ok, err := Lookup(db, "/photos/missing.png", "phash", 8, "2026-08-30T10:00:00Z", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupMissesStaleEntry(t *testing.T) {
	db, err := InitCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreFingerprint(db, "/photos/a.png", "phash", 8, "00ff", "2026-08-30T10:00:00Z", 1234))

	// Changed modification time.
	_, ok, err := Lookup(db, "/photos/a.png", "phash", 8, "2026-08-30T11:00:00Z", 1234)
	require.NoError(t, err)
	assert.False(t, ok)

	// Changed size.
	_, ok, err = Lookup(db, "/photos/a.png", "phash", 8, "2026-08-30T10:00:00Z", 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupIsKeyedByAlgorithmAndSize(t *testing.T) {
	db, err := InitCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreFingerprint(db, "/photos/a.png", "phash", 8, "00ff", "2026-08-30T10:00:00Z", 1))

	_, ok, err := Lookup(db, "/photos/a.png", "ahash", 8, "2026-08-30T10:00:00Z", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = Lookup(db, "/photos/a.png", "phash", 16, "2026-08-30T10:00:00Z", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreFingerprintReplaces(t *testing.T) {
	db, err := InitCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreFingerprint(db, "/photos/a.png", "phash", 8, "0001", "2026-08-30T10:00:00Z", 1))
	require.NoError(t, StoreFingerprint(db, "/photos/a.png", "phash", 8, "0002", "2026-08-30T12:00:00Z", 2))

	hashHex, ok, err := Lookup(db, "/photos/a.png", "phash", 8, "2026-08-30T12:00:00Z", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "0002", hashHex)

	stats, err := GetCacheStats(db, "phash")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFingerprints)
}

func TestGetCacheStats(t *testing.T) {
	db, err := InitCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, StoreFingerprint(db, "/photos/a.png", "phash", 8, "aa", "t", 1))
	require.NoError(t, StoreFingerprint(db, "/photos/b.png", "phash", 8, "aa", "t", 1))
	require.NoError(t, StoreFingerprint(db, "/photos/c.png", "phash", 8, "bb", "t", 1))

	stats, err := GetCacheStats(db, "phash")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalFingerprints)
	assert.Equal(t, 2, stats.UniqueHashes)
}
