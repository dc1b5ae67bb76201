package scanner

import (
	"sync"
	"time"

	"similarimages/hashing"
)

// Options defines the parameters for one similarity run.
type Options struct {
	ExistingPath string
	NewPath      string // optional; self-comparison when empty
	Sensitivity  float64
	HashSize     int
	Hasher       hashing.Hasher
	MaxWorkers   int
	DebugMode    bool
	CachePath    string // optional fingerprint cache database
	ForceRefresh bool   // rehash even when a fresh cache entry exists
	Quiet        bool   // suppress progress output
}

// FingerprintResult holds the outcome of fingerprinting one image.
type FingerprintResult struct {
	Path     string
	Success  bool
	CacheHit bool
	Error    error
}

// RunStats summarizes a completed run. Decode and hash failures are
// recoverable: the affected files are skipped and counted here rather
// than aborting the run.
type RunStats struct {
	TotalImages  int
	Processed    int
	CacheHits    int
	DecodeErrors int
	HashErrors   int
}

// ProgressTracker tracks progress of the fingerprinting stage.
type ProgressTracker struct {
	processed    int
	errors       int
	cacheHits    int
	decodeErrors int
	hashErrors   int
	ticker       *time.Ticker
	done         chan bool
	finished     chan bool
	mu           sync.Mutex
	totalFiles   int
	quiet        bool
}
