package hashing

import (
	"fmt"
	"image"

	"similarimages/types"
)

// Hasher is the perceptual-hash capability consumed by the
// Fingerprinter. Implementations must be deterministic for identical
// pixel data and produce a fixed output width for a fixed hashSize.
// The result is a hexadecimal string; bit ordering is
// most-significant-bit first when expanded to a vector.
type Hasher interface {
	// Name identifies the algorithm; it becomes the fingerprint's
	// algorithm tag and participates in identity comparison.
	Name() string

	// Compute hashes a decoded image at the given hash size. The
	// result has exactly hashSize * types.BitsPerUnit bits.
	Compute(img image.Image, hashSize int) (string, error)
}

// sizeValidator is implemented by hashers with a constrained hash size,
// so a bad configuration is rejected before any image is touched.
type sizeValidator interface {
	ValidateSize(hashSize int) error
}

// HasherForName resolves a hasher by its CLI name.
func HasherForName(name string) (Hasher, error) {
	switch name {
	case "phash":
		return PHashHasher{}, nil
	case "ahash":
		return AverageHasher{}, nil
	case "dct":
		return DCTHasher{}, nil
	default:
		return nil, &types.ConfigurationError{
			Reason: fmt.Sprintf("unknown hasher %q (supported: phash, ahash, dct)", name),
		}
	}
}
