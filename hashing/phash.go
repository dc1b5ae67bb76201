package hashing

import (
	"fmt"
	"image"

	"github.com/artyom/phash"
	"github.com/disintegration/imaging"

	"similarimages/types"
)

// phashSize is the only hash size the phash library supports; its
// output is a fixed 64-bit value.
const phashSize = 8

// PHashHasher wraps the phash library's perceptual hash. It is the
// default hasher and produces a 64-bit fingerprint.
type PHashHasher struct{}

func (PHashHasher) Name() string { return "phash" }

// ValidateSize rejects any size the fixed-width library cannot honor.
func (PHashHasher) ValidateSize(hashSize int) error {
	if hashSize != phashSize {
		return &types.ConfigurationError{
			Reason: fmt.Sprintf("phash supports hash size %d only, got %d", phashSize, hashSize),
		}
	}
	return nil
}

func (PHashHasher) Compute(img image.Image, hashSize int) (string, error) {
	if err := (PHashHasher{}).ValidateSize(hashSize); err != nil {
		return "", err
	}

	h, err := phash.Get(img, func(img image.Image, w, h int) image.Image {
		return imaging.Resize(img, w, h, imaging.Lanczos)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h), nil
}
