package types

import (
	"encoding/hex"
	"fmt"
	"math/bits"
	"path/filepath"
)

// BitsPerUnit is the number of fingerprint bits contributed by each unit
// of the configured hash size. A hash size of 8 yields a 64-bit vector.
const BitsPerUnit = 8

// BitVector is a fixed-length sequence of bits packed MSB-first into
// bytes. It is immutable once constructed; all vectors produced within
// a single run share the same length.
type BitVector struct {
	data []byte
	n    int
}

// NewBitVectorFromHex builds an n-bit vector from a hexadecimal hash
// string, zero-padding on the left so that leading zero bits are
// preserved. A hash wider than n bits is rejected rather than
// truncated, since silent truncation would corrupt the distance metric.
func NewBitVectorFromHex(hexStr string, n int) (BitVector, error) {
	if n <= 0 {
		return BitVector{}, fmt.Errorf("invalid bit vector length %d", n)
	}
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return BitVector{}, fmt.Errorf("invalid hash hex %q: %v", hexStr, err)
	}

	// Strip leading zero bytes before the width check so that a
	// zero-padded hex rendering of a small value still fits.
	for len(raw) > 0 && raw[0] == 0 {
		raw = raw[1:]
	}

	byteLen := (n + 7) / 8
	if len(raw) > byteLen {
		return BitVector{}, fmt.Errorf("hash value has %d bits, exceeds vector width %d", len(raw)*8, n)
	}
	if len(raw) == byteLen && n%8 != 0 && raw[0]>>uint(n%8) != 0 {
		return BitVector{}, fmt.Errorf("hash value does not fit in %d bits", n)
	}

	data := make([]byte, byteLen)
	copy(data[byteLen-len(raw):], raw)
	return BitVector{data: data, n: n}, nil
}

// NewBitVectorFromBits builds a vector directly from a 0/1 slice,
// most-significant bit first. Used by hashers that produce their bits
// one grid cell at a time.
func NewBitVectorFromBits(bitvals []int) BitVector {
	n := len(bitvals)
	data := make([]byte, (n+7)/8)
	// Bit 0 of the slice is the MSB of the vector; align to the end of
	// the packed representation the way the hex constructor does.
	offset := len(data)*8 - n
	for i, b := range bitvals {
		if b != 0 {
			pos := offset + i
			data[pos/8] |= 1 << uint(7-pos%8)
		}
	}
	return BitVector{data: data, n: n}
}

// Len returns the number of bits in the vector.
func (v BitVector) Len() int {
	return v.n
}

// Bit returns the bit at position i, with position 0 being the
// most-significant bit of the fingerprint.
func (v BitVector) Bit(i int) int {
	pos := len(v.data)*8 - v.n + i
	if v.data[pos/8]&(1<<uint(7-pos%8)) != 0 {
		return 1
	}
	return 0
}

// Hamming returns the number of differing bits between two vectors of
// equal length.
func (v BitVector) Hamming(other BitVector) (int, error) {
	if v.n != other.n {
		return 0, &DimensionMismatchError{Want: v.n, Got: other.n}
	}
	diff := 0
	for i := range v.data {
		diff += bits.OnesCount8(v.data[i] ^ other.data[i])
	}
	return diff, nil
}

// Equal reports whether two vectors have identical length and bits.
func (v BitVector) Equal(other BitVector) bool {
	if v.n != other.n {
		return false
	}
	for i := range v.data {
		if v.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Hex returns the vector as a lowercase hexadecimal string.
func (v BitVector) Hex() string {
	return hex.EncodeToString(v.data)
}

func (v BitVector) String() string {
	return v.Hex()
}

// Fingerprint holds the perceptual hash of a single source image.
// Identity is the (Algorithm, CanonicalPath) pair; the hash value never
// participates in identity comparison.
type Fingerprint struct {
	SourceID      string    `json:"source_id"`
	CanonicalPath string    `json:"canonical_path"`
	Algorithm     string    `json:"algorithm"`
	Bits          BitVector `json:"-"`
	HashHex       string    `json:"hash"`
}

// SameImage reports whether two fingerprints identify the same
// underlying image file: same hashing algorithm and same resolved path.
func (f Fingerprint) SameImage(other Fingerprint) bool {
	return f.Algorithm == other.Algorithm && f.CanonicalPath == other.CanonicalPath
}

// CanonicalizePath resolves symlinks and relative segments to a unique
// absolute form. Falls back to the absolute form of the raw path when
// resolution fails (e.g. a dangling symlink).
func CanonicalizePath(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return resolved
	}
	return abs
}

// MatchPair is an unordered pair of distinct source identifiers found
// within the similarity threshold of each other. The two sides are kept
// in lexicographic order so that {A,B} and {B,A} are the same value.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// NewMatchPair builds the canonical representation of an unordered pair.
func NewMatchPair(a, b string) MatchPair {
	if b < a {
		a, b = b, a
	}
	return MatchPair{Left: a, Right: b}
}
