package hashing

import (
	"fmt"
	"image"
	"math"
	"sort"

	"similarimages/types"
)

// dctSize is the side of the grid the image is reduced to before the
// transform. The hash keeps only the low-frequency corner.
const dctSize = 32

// DCTHasher computes a DCT-based perceptual hash: the image is reduced
// to a 32x32 grayscale grid, transformed with a type-II DCT, and the
// low-frequency block is thresholded against its median. More robust to
// resizing and recompression than the plain average hash.
type DCTHasher struct{}

func (DCTHasher) Name() string { return "dct" }

// Compute returns the hash as a hexadecimal string of exactly
// hashSize * types.BitsPerUnit bits.
func (DCTHasher) Compute(img image.Image, hashSize int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("cannot compute hash for empty image")
	}
	if hashSize > dctSize {
		return "", fmt.Errorf("hash size %d exceeds DCT grid size %d", hashSize, dctSize)
	}

	gray := grayGrid(img, dctSize, dctSize)

	pixels := make([][]float64, dctSize)
	for y := range pixels {
		row := make([]float64, dctSize)
		for x := range row {
			row[x] = float64(gray[y*dctSize+x])
		}
		pixels[y] = row
	}

	freq := applyDCT(pixels)

	// Low-frequency block: hashSize coefficients per row over
	// BitsPerUnit rows.
	cols, rows := hashSize, types.BitsPerUnit
	block := make([]float64, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			block = append(block, freq[y][x])
		}
	}

	median := calculateMedian(block)

	bitvals := make([]int, 0, len(block))
	for _, val := range block {
		if val >= median {
			bitvals = append(bitvals, 1)
		} else {
			bitvals = append(bitvals, 0)
		}
	}

	return types.NewBitVectorFromBits(bitvals).Hex(), nil
}

// applyDCT applies a type-II Discrete Cosine Transform to a square
// matrix.
func applyDCT(img [][]float64) [][]float64 {
	rows, cols := len(img), len(img[0])
	result := make([][]float64, rows)

	for u := 0; u < rows; u++ {
		result[u] = make([]float64, cols)
		for v := 0; v < cols; v++ {
			sum := 0.0
			for i := 0; i < rows; i++ {
				cosU := math.Cos(math.Pi * float64(u) * (2*float64(i) + 1) / (2 * float64(rows)))
				for j := 0; j < cols; j++ {
					cosV := math.Cos(math.Pi * float64(v) * (2*float64(j) + 1) / (2 * float64(cols)))
					sum += img[i][j] * cosU * cosV
				}
			}

			scaleU := 1.0
			if u == 0 {
				scaleU = 1.0 / math.Sqrt2
			}
			scaleV := 1.0
			if v == 0 {
				scaleV = 1.0 / math.Sqrt2
			}

			result[u][v] = sum * (2.0 * scaleU * scaleV) / math.Sqrt(float64(rows*cols))
		}
	}

	return result
}

// calculateMedian returns the median of the values without modifying
// the input slice.
func calculateMedian(values []float64) float64 {
	valuesCopy := make([]float64, len(values))
	copy(valuesCopy, values)
	sort.Float64s(valuesCopy)

	length := len(valuesCopy)
	switch {
	case length == 0:
		return 0
	case length%2 == 0:
		return (valuesCopy[length/2-1] + valuesCopy[length/2]) / 2
	default:
		return valuesCopy[length/2]
	}
}
