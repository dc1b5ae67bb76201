// Package scanner orchestrates the batch pipeline: discover images,
// fingerprint them in parallel, build the similarity index over the
// frozen store, and aggregate matches.
package scanner

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"similarimages/database"
	"similarimages/hashing"
	"similarimages/index"
	"similarimages/logging"
	"similarimages/matcher"
	"similarimages/signalhandler"
	"similarimages/store"
	"similarimages/types"
)

// ListImages walks the directory subtree under root and returns the
// paths carrying a recognized image extension, in walk order. Entries
// that cannot be accessed are skipped.
func ListImages(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access image folder %s: %v", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	var paths []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			if err != nil {
				logging.LogWarning("Error accessing path %s: %v", path, err)
			}
			return nil
		}
		if hashing.IsImageFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, nil
}

// FindSimilarImages runs the full pipeline and returns the directional
// match map plus run statistics. When NewPath is set, both collections
// are indexed together and only the new set is queried; otherwise the
// existing collection is compared against itself.
//
// Per-image decode and hash failures are skipped and counted in the
// stats. Configuration and dimension errors abort the run before any
// result is produced.
func FindSimilarImages(opts Options) (matcher.MatchMap, *RunStats, error) {
	if opts.Sensitivity < 0 {
		return nil, nil, &types.ConfigurationError{
			Reason: fmt.Sprintf("sensitivity must not be negative, got %v", opts.Sensitivity),
		}
	}

	fingerprinter, err := hashing.NewFingerprinter(hashing.Config{
		HashSize: opts.HashSize,
		Hasher:   opts.Hasher,
	})
	if err != nil {
		return nil, nil, err
	}

	var cache *sql.DB
	if opts.CachePath != "" {
		cache, err = database.InitCache(opts.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open fingerprint cache: %v", err)
		}
		defer cache.Close()
	}

	existing, err := ListImages(opts.ExistingPath)
	if err != nil {
		return nil, nil, err
	}

	var newImages []string
	if opts.NewPath != "" {
		newImages, err = ListImages(opts.NewPath)
		if err != nil {
			return nil, nil, err
		}
	}

	if opts.DebugMode {
		logging.DebugLog("Comparing %d existing and %d new images at sensitivity %v with %s",
			len(existing), len(newImages), opts.Sensitivity, fingerprinter.Algorithm())
	}

	// One store for both sets; a path present in both collapses to a
	// single fingerprint via last-write-wins.
	st := store.NewStore()
	allPaths := append(append([]string{}, existing...), newImages...)

	stats, err := fingerprintAll(st, fingerprinter, cache, allPaths, opts)
	if err != nil {
		return nil, nil, err
	}

	items := st.All()
	tree, err := index.Build(items)
	if err != nil {
		return nil, nil, err
	}
	logging.DebugLog("Built similarity index over %d fingerprints (%d bits)", tree.Len(), tree.Dim())

	queryPaths := existing
	if opts.NewPath != "" {
		queryPaths = newImages
	}
	var queries []types.Fingerprint
	for _, path := range queryPaths {
		if fp, ok := st.Get(path); ok {
			queries = append(queries, fp)
		}
	}

	matches, err := matcher.FindSimilar(tree, items, queries, opts.Sensitivity)
	if err != nil {
		return nil, nil, err
	}

	return matches, stats, nil
}

// fingerprintAll hashes every path concurrently into the store, in the
// semaphore-bounded worker pool pattern. Recoverable per-image errors
// land in the stats; the first fatal error aborts.
func fingerprintAll(st *store.Store, fingerprinter *hashing.Fingerprinter, cache *sql.DB, paths []string, opts Options) (*RunStats, error) {
	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = signalhandler.GetOptimalProcs()
	}

	var wg sync.WaitGroup
	resultsChan := make(chan FingerprintResult, 100)
	semaphore := make(chan struct{}, maxWorkers)

	tracker := setupProgressTracker(len(paths), resultsChan, opts.Quiet)

	var fatalMu sync.Mutex
	var fatalErr error

	for _, path := range paths {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(p string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := fingerprintOne(st, fingerprinter, cache, p, opts.ForceRefresh)
			if result.Error != nil && isFatal(result.Error) {
				fatalMu.Lock()
				if fatalErr == nil {
					fatalErr = result.Error
				}
				fatalMu.Unlock()
			}
			resultsChan <- result
		}(path)
	}

	wg.Wait()
	close(resultsChan)
	tracker.wait()
	tracker.stop()
	if !opts.Quiet && len(paths) > 0 {
		fmt.Println()
	}

	if fatalErr != nil {
		return nil, fatalErr
	}

	stats := tracker.stats()
	return &stats, nil
}

// fingerprintOne fingerprints a single image, consulting the cache
// first when one is configured and forceRefresh is off.
func fingerprintOne(st *store.Store, fingerprinter *hashing.Fingerprinter, cache *sql.DB, path string, forceRefresh bool) FingerprintResult {
	result := FingerprintResult{Path: path}

	var modTime string
	var size int64
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime().UTC().Format(time.RFC3339)
		size = info.Size()
	}

	if cache != nil && modTime != "" && !forceRefresh {
		hexStr, ok, err := database.Lookup(cache, path, fingerprinter.Algorithm(), fingerprinter.HashSize(), modTime, size)
		if err != nil {
			logging.LogWarning("Cache lookup failed for %s: %v", path, err)
		} else if ok {
			fp, err := fingerprinter.FromHex(path, hexStr)
			if err == nil {
				if err := st.Add(fp); err != nil {
					result.Error = err
					return result
				}
				result.Success = true
				result.CacheHit = true
				return result
			}
			logging.LogWarning("Discarding unusable cache entry for %s: %v", path, err)
		}
	}

	fp, err := fingerprinter.Fingerprint(path)
	if err != nil {
		result.Error = err
		return result
	}

	if err := st.Add(fp); err != nil {
		result.Error = err
		return result
	}

	if cache != nil && modTime != "" {
		if err := database.StoreFingerprint(cache, path, fp.Algorithm, fingerprinter.HashSize(), fp.HashHex, modTime, size); err != nil {
			logging.LogWarning("Cannot cache fingerprint for %s: %v", path, err)
		}
	}

	result.Success = true
	return result
}

// isFatal reports whether an error must abort the whole run rather
// than skip one image.
func isFatal(err error) bool {
	var cfgErr *types.ConfigurationError
	var dimErr *types.DimensionMismatchError
	return errors.As(err, &cfgErr) || errors.As(err, &dimErr)
}

// WarmCache fingerprints every image under root into the cache database
// without running a similarity query, so a later run starts hot. With
// forceRefresh set, existing cache entries are rehashed and replaced.
func WarmCache(root, cachePath string, hashSize int, hasher hashing.Hasher, maxWorkers int, forceRefresh, quiet bool) (*RunStats, error) {
	if cachePath == "" {
		return nil, &types.ConfigurationError{Reason: "cache path is required"}
	}

	fingerprinter, err := hashing.NewFingerprinter(hashing.Config{HashSize: hashSize, Hasher: hasher})
	if err != nil {
		return nil, err
	}

	cache, err := database.InitCache(cachePath)
	if err != nil {
		return nil, fmt.Errorf("cannot open fingerprint cache: %v", err)
	}
	defer cache.Close()

	paths, err := ListImages(root)
	if err != nil {
		return nil, err
	}

	st := store.NewStore()
	return fingerprintAll(st, fingerprinter, cache, paths, Options{MaxWorkers: maxWorkers, ForceRefresh: forceRefresh, Quiet: quiet})
}
