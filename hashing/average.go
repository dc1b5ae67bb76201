package hashing

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"similarimages/types"
)

// AverageHasher computes a simple average hash: the image is reduced to
// a small grayscale grid and each cell contributes one bit, set when the
// cell is at least as bright as the grid mean.
type AverageHasher struct{}

func (AverageHasher) Name() string { return "ahash" }

// Compute returns the hash as a hexadecimal string of exactly
// hashSize * types.BitsPerUnit bits.
func (AverageHasher) Compute(img image.Image, hashSize int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("cannot compute hash for empty image")
	}

	cols, rows := hashSize, types.BitsPerUnit
	gray := grayGrid(img, cols, rows)

	// Mean pixel value over the grid.
	var sum uint64
	for _, p := range gray {
		sum += uint64(p)
	}
	threshold := float64(sum) / float64(len(gray))

	bitvals := make([]int, 0, len(gray))
	for _, p := range gray {
		if float64(p) >= threshold {
			bitvals = append(bitvals, 1)
		} else {
			bitvals = append(bitvals, 0)
		}
	}

	return types.NewBitVectorFromBits(bitvals).Hex(), nil
}

// grayGrid resizes the image to cols x rows and returns its grayscale
// pixel values in row-major order, MSB cell first.
func grayGrid(img image.Image, cols, rows int) []uint8 {
	resized := imaging.Grayscale(imaging.Resize(img, cols, rows, imaging.Linear))

	grid := make([]uint8, 0, cols*rows)
	bounds := resized.Bounds()
	for y := bounds.Min.Y; y < bounds.Min.Y+rows; y++ {
		for x := bounds.Min.X; x < bounds.Min.X+cols; x++ {
			g := color.GrayModel.Convert(resized.At(x, y)).(color.Gray)
			grid = append(grid, g.Y)
		}
	}
	return grid
}
