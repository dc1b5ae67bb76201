package scanner

import (
	"errors"
	"fmt"
	"time"

	"similarimages/logging"
	"similarimages/types"
)

// setupProgressTracker starts the display and result-collection
// goroutines for the fingerprinting stage.
func setupProgressTracker(totalFiles int, resultsChan chan FingerprintResult, quiet bool) *ProgressTracker {
	tracker := &ProgressTracker{
		ticker:     time.NewTicker(500 * time.Millisecond),
		done:       make(chan bool),
		finished:   make(chan bool),
		totalFiles: totalFiles,
		quiet:      quiet,
	}

	go tracker.displayProgress()
	go tracker.processResults(resultsChan)

	return tracker
}

// displayProgress shows the progress periodically
func (p *ProgressTracker) displayProgress() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			if p.quiet {
				continue
			}
			p.mu.Lock()
			if p.errors > 0 {
				fmt.Printf("\rFingerprinting: %d/%d (Errors: %d, Cached: %d)",
					p.processed, p.totalFiles, p.errors, p.cacheHits)
			} else {
				fmt.Printf("\rFingerprinting: %d/%d (Cached: %d)",
					p.processed, p.totalFiles, p.cacheHits)
			}
			p.mu.Unlock()
		}
	}
}

// processResults updates the tracker state based on per-image results
func (p *ProgressTracker) processResults(resultsChan chan FingerprintResult) {
	for result := range resultsChan {
		p.mu.Lock()
		p.processed++

		if result.CacheHit {
			p.cacheHits++
		}

		if !result.Success {
			p.errors++

			var decodeErr *types.DecodeError
			var hashErr *types.HashError
			switch {
			case errors.As(result.Error, &decodeErr):
				p.decodeErrors++
			case errors.As(result.Error, &hashErr):
				p.hashErrors++
			}

			if result.Error != nil {
				logging.LogFingerprinted(result.Path, false, result.Error.Error())
			}
		} else {
			logging.LogFingerprinted(result.Path, true, "")
		}

		p.mu.Unlock()
	}
	p.finished <- true
}

// wait blocks until every result has been consumed. Call after the
// results channel is closed.
func (p *ProgressTracker) wait() {
	<-p.finished
}

// stop ends the progress tracking
func (p *ProgressTracker) stop() {
	p.ticker.Stop()
	p.done <- true
}

// stats returns the counters collected so far.
func (p *ProgressTracker) stats() RunStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return RunStats{
		TotalImages:  p.totalFiles,
		Processed:    p.processed,
		CacheHits:    p.cacheHits,
		DecodeErrors: p.decodeErrors,
		HashErrors:   p.hashErrors,
	}
}
