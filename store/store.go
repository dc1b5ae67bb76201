// Package store collects the fingerprints of one run, keyed by source
// identifier, in a stable order the similarity index can assign
// positional ids from.
package store

import (
	"fmt"
	"sync"

	"similarimages/types"
)

// Store is a sourceId-keyed fingerprint collection. Adding an id twice
// replaces the earlier entry (last write wins) without disturbing its
// position, so a path appearing in both the existing and the new image
// sets is never double-counted. Safe for concurrent Add during the
// fingerprinting stage.
type Store struct {
	mu    sync.Mutex
	byID  map[string]int
	items []types.Fingerprint
	width int
}

// NewStore returns an empty store. The first fingerprint added fixes
// the vector width for the rest of the run.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Add inserts or replaces the fingerprint under its SourceID. A vector
// width differing from earlier entries is a *types.ConfigurationError:
// an index over mixed widths would silently produce wrong distances.
func (s *Store) Add(fp types.Fingerprint) error {
	if fp.SourceID == "" {
		return fmt.Errorf("fingerprint has no source id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.width == 0 {
		s.width = fp.Bits.Len()
	} else if fp.Bits.Len() != s.width {
		return &types.ConfigurationError{
			Reason: fmt.Sprintf("mixed hash widths in one run: store has %d-bit fingerprints, %s has %d",
				s.width, fp.SourceID, fp.Bits.Len()),
		}
	}

	if pos, ok := s.byID[fp.SourceID]; ok {
		s.items[pos] = fp
		return nil
	}
	s.byID[fp.SourceID] = len(s.items)
	s.items = append(s.items, fp)
	return nil
}

// Get returns the fingerprint stored under the given source id.
func (s *Store) Get(sourceID string) (types.Fingerprint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.byID[sourceID]
	if !ok {
		return types.Fingerprint{}, false
	}
	return s.items[pos], true
}

// All returns a snapshot of the fingerprints in insertion order. The
// slice's positions are the ids the similarity index hands back.
func (s *Store) All() []types.Fingerprint {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Fingerprint, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of stored fingerprints.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Width returns the fixed vector width, or 0 for an empty store.
func (s *Store) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}
