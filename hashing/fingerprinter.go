package hashing

import (
	"errors"
	"fmt"

	"similarimages/types"
)

// DefaultHashSize is the hash size used when none is configured,
// matching the 64-bit fingerprints of the default phash hasher.
const DefaultHashSize = 8

// Config fixes the hashing parameters for a run. The hash size must be
// set before any fingerprint in a batch is produced; all fingerprints
// of a run share one width.
type Config struct {
	HashSize int
	Hasher   Hasher
}

// Fingerprinter produces fingerprints from image files. It is the only
// component that invokes the hash collaborator.
type Fingerprinter struct {
	hasher   Hasher
	hashSize int
	width    int
}

// NewFingerprinter validates the configuration and returns a
// fingerprinter. Zero-value fields get defaults (phash at size 8).
func NewFingerprinter(cfg Config) (*Fingerprinter, error) {
	if cfg.Hasher == nil {
		cfg.Hasher = PHashHasher{}
	}
	if cfg.HashSize == 0 {
		cfg.HashSize = DefaultHashSize
	}
	if cfg.HashSize < 2 || cfg.HashSize > dctSize {
		return nil, &types.ConfigurationError{
			Reason: fmt.Sprintf("hash size must be between 2 and %d, got %d", dctSize, cfg.HashSize),
		}
	}
	if v, ok := cfg.Hasher.(sizeValidator); ok {
		if err := v.ValidateSize(cfg.HashSize); err != nil {
			return nil, err
		}
	}
	return &Fingerprinter{
		hasher:   cfg.Hasher,
		hashSize: cfg.HashSize,
		width:    cfg.HashSize * types.BitsPerUnit,
	}, nil
}

// Width returns the fixed fingerprint width in bits.
func (f *Fingerprinter) Width() int { return f.width }

// Algorithm returns the tag of the configured hasher.
func (f *Fingerprinter) Algorithm() string { return f.hasher.Name() }

// HashSize returns the configured hash size.
func (f *Fingerprinter) HashSize() int { return f.hashSize }

// Fingerprint decodes the image at path and hashes it. Decode failures
// come back as *types.DecodeError and hasher failures as
// *types.HashError, both recoverable; a *types.ConfigurationError from
// the hasher passes through untouched so callers can abort.
func (f *Fingerprinter) Fingerprint(path string) (types.Fingerprint, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return types.Fingerprint{}, err
	}

	hexStr, err := f.hasher.Compute(img, f.hashSize)
	if err != nil {
		var cfgErr *types.ConfigurationError
		if errors.As(err, &cfgErr) {
			return types.Fingerprint{}, err
		}
		return types.Fingerprint{}, &types.HashError{Path: path, Err: err}
	}

	return f.FromHex(path, hexStr)
}

// FromHex builds a fingerprint from a previously computed hash string,
// e.g. a cache hit, without touching the image file's pixels. The hash
// is expanded to the run's fixed width with leading zeros preserved.
func (f *Fingerprinter) FromHex(path, hexStr string) (types.Fingerprint, error) {
	bits, err := types.NewBitVectorFromHex(hexStr, f.width)
	if err != nil {
		return types.Fingerprint{}, &types.HashError{Path: path, Err: err}
	}
	return types.Fingerprint{
		SourceID:      path,
		CanonicalPath: types.CanonicalizePath(path),
		Algorithm:     f.hasher.Name(),
		Bits:          bits,
		HashHex:       bits.Hex(),
	}, nil
}
