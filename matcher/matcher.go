// Package matcher runs radius queries for a query set against a built
// similarity index and reduces the raw hits to a deduplicated set of
// unordered pairs.
package matcher

import (
	"sort"

	"similarimages/index"
	"similarimages/types"
)

// MatchMap maps a query's source id to the fingerprints found within
// the threshold, ordered by source id. Self-matches are already
// excluded.
type MatchMap map[string][]types.Fingerprint

// FindSimilar queries the index for every fingerprint in queries and
// collects the matches. indexed must be the exact snapshot the index
// was built from, since hits are resolved positionally.
//
// A hit is dropped when it identifies the same image as the query per
// the (algorithm, canonical path) identity contract — in
// self-comparison mode every query is a member of the indexed set and
// always matches itself at distance zero, at any threshold.
func FindSimilar(tree *index.KDTree, indexed []types.Fingerprint, queries []types.Fingerprint, threshold float64) (MatchMap, error) {
	result := make(MatchMap)

	for _, q := range queries {
		ids, err := tree.QueryRadius(q.Bits, threshold)
		if err != nil {
			return nil, err
		}

		var matches []types.Fingerprint
		for _, id := range ids {
			hit := indexed[id]
			if hit.SameImage(q) {
				continue
			}
			matches = append(matches, hit)
		}
		if len(matches) == 0 {
			continue
		}
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].SourceID < matches[j].SourceID
		})
		result[q.SourceID] = matches
	}

	return result, nil
}

// Pairs flattens a match map into a deduplicated, sorted set of
// unordered pairs. Radius search is symmetric, so in self-comparison
// mode A matching B implies B matching A; the canonical pair
// representation collapses both directions into one entry.
func Pairs(matches MatchMap) []types.MatchPair {
	seen := make(map[types.MatchPair]struct{})
	for base, similar := range matches {
		for _, m := range similar {
			seen[types.NewMatchPair(base, m.SourceID)] = struct{}{}
		}
	}

	pairs := make([]types.MatchPair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Left != pairs[j].Left {
			return pairs[i].Left < pairs[j].Left
		}
		return pairs[i].Right < pairs[j].Right
	})
	return pairs
}
