package types

import "fmt"

// DecodeError reports an input file that carries an image extension but
// cannot be opened or decoded. Recoverable: the scanner skips the file
// and keeps going.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// HashError reports a hashing failure on a successfully decoded image.
// Recoverable, same skip-and-report policy as DecodeError.
type HashError struct {
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("cannot hash image %s: %v", e.Path, e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid or inconsistent run
// configuration, such as mixing hash widths or an out-of-range
// sensitivity. Fatal: the run must abort before any index is built.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// DimensionMismatchError reports a query vector whose length disagrees
// with the fixed dimensionality of the index. Fatal: it indicates a
// configuration bug and is never silently coerced.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: index has %d bits, got %d", e.Want, e.Got)
}
