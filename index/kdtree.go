// Package index provides a static spatial index over fingerprint bit
// vectors, supporting radius queries without an O(n^2) all-pairs scan.
package index

import (
	"fmt"
	"sort"

	"similarimages/types"
)

// leafSize is the bucket size below which subtrees are not split
// further; leaf candidates are verified with an exact distance check.
const leafSize = 8

// KDTree is a k-d tree over N-dimensional binary space: every
// fingerprint is a point with coordinates in {0,1}. Distances are
// Euclidean over those coordinates, which for binary points equals the
// square root of the number of differing bits. A radius query with
// radius r therefore admits up to floor(r*r) differing bits, matching
// the behavior of a general-purpose spatial index over 0/1 vectors.
//
// The tree is immutable after Build and reflects exactly the snapshot
// it was built from; entries are positional, so identical bit patterns
// from different source images stay distinguishable.
type KDTree struct {
	dim    int
	points []types.BitVector
	root   *node
}

type node struct {
	axis  int // splitting coordinate; -1 marks a leaf
	left  *node
	right *node
	ids   []int // leaf bucket
}

// Build constructs the index over the fingerprints in order. Positions
// in the input slice become the ids returned by QueryRadius. Mixed
// vector widths are a *types.ConfigurationError.
func Build(fingerprints []types.Fingerprint) (*KDTree, error) {
	points := make([]types.BitVector, len(fingerprints))
	dim := 0
	for i, fp := range fingerprints {
		if dim == 0 {
			dim = fp.Bits.Len()
		} else if fp.Bits.Len() != dim {
			return nil, &types.ConfigurationError{
				Reason: fmt.Sprintf("cannot index mixed widths: %d-bit and %d-bit fingerprints", dim, fp.Bits.Len()),
			}
		}
		points[i] = fp.Bits
	}

	t := &KDTree{dim: dim, points: points}
	if len(points) > 0 {
		ids := make([]int, len(points))
		for i := range ids {
			ids[i] = i
		}
		t.root = t.split(ids)
	}
	return t, nil
}

// split picks the coordinate whose 0/1 counts are most balanced among
// the given points and partitions on it. Coordinates already split
// higher in the tree are uniform here and never picked again, so the
// recursion depth is bounded by the dimensionality. Points identical in
// every coordinate end up in one leaf regardless of bucket size.
func (t *KDTree) split(ids []int) *node {
	if len(ids) <= leafSize {
		return &node{axis: -1, ids: ids}
	}

	bestAxis, bestBalance := -1, len(ids)+1
	for axis := 0; axis < t.dim; axis++ {
		ones := 0
		for _, id := range ids {
			ones += t.points[id].Bit(axis)
		}
		if ones == 0 || ones == len(ids) {
			continue
		}
		balance := 2*ones - len(ids)
		if balance < 0 {
			balance = -balance
		}
		if balance < bestBalance {
			bestAxis, bestBalance = axis, balance
		}
	}
	if bestAxis < 0 {
		// Degenerate: all remaining points share one bit pattern.
		return &node{axis: -1, ids: ids}
	}

	var zeros, ones []int
	for _, id := range ids {
		if t.points[id].Bit(bestAxis) == 0 {
			zeros = append(zeros, id)
		} else {
			ones = append(ones, id)
		}
	}
	return &node{
		axis:  bestAxis,
		left:  t.split(zeros),
		right: t.split(ones),
	}
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int { return len(t.points) }

// Dim returns the fixed dimensionality, or 0 for an empty index.
func (t *KDTree) Dim() int { return t.dim }

// QueryRadius returns the ids of all indexed points whose Euclidean
// distance to the query point is at most radius, in ascending id order.
// A query of different dimensionality than the index is a
// *types.DimensionMismatchError.
func (t *KDTree) QueryRadius(point types.BitVector, radius float64) ([]int, error) {
	if radius < 0 {
		return nil, &types.ConfigurationError{Reason: fmt.Sprintf("negative query radius %v", radius)}
	}
	if len(t.points) == 0 {
		return nil, nil
	}
	if point.Len() != t.dim {
		return nil, &types.DimensionMismatchError{Want: t.dim, Got: point.Len()}
	}

	// dist = sqrt(differing bits), so dist <= radius iff the bit
	// difference count is at most floor(radius^2). The epsilon keeps
	// exact integer radii from flooring down.
	maxDiff := int(radius*radius + 1e-9)

	var ids []int
	t.walk(t.root, point, 0, maxDiff, &ids)
	sort.Ints(ids)
	return ids, nil
}

// walk descends the tree, pruning subtrees whose split decisions
// already commit more bit differences than the budget allows. committed
// is the count of split coordinates on the path where the subtree lies
// on the opposite side of the query.
func (t *KDTree) walk(n *node, point types.BitVector, committed, maxDiff int, out *[]int) {
	if n.axis < 0 {
		for _, id := range n.ids {
			diff, err := t.points[id].Hamming(point)
			if err == nil && diff <= maxDiff {
				*out = append(*out, id)
			}
		}
		return
	}

	near, far := n.left, n.right
	if point.Bit(n.axis) == 1 {
		near, far = far, near
	}
	t.walk(near, point, committed, maxDiff, out)
	if committed+1 <= maxDiff {
		t.walk(far, point, committed+1, maxDiff, out)
	}
}
