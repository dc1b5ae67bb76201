package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"similarimages/hashing"
	"similarimages/types"
)

// DefaultSensitivity is the radius used when none is given; on a 64-bit
// hash it admits pairs differing in up to 16 bits.
const DefaultSensitivity = 4

// MaxSensitivity bounds the --sensitivity flag; anything larger matches
// essentially everything on a 64-bit hash.
const MaxSensitivity = 10

// ParseArguments converts command-line arguments into a map of flags and values
func ParseArguments() map[string]string {
	args := make(map[string]string)

	// First, identify the command (find/scan)
	command := ""
	commandIndex := -1
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "find" || os.Args[i] == "scan" {
			command = os.Args[i]
			commandIndex = i
			break
		}
	}

	if command != "" {
		args["command"] = command
	}

	// Process all arguments, skipping the command
	for i := 1; i < len(os.Args); i++ {
		if i == commandIndex {
			continue
		}

		arg := os.Args[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Check if this is a boolean flag (no value)
			if i+1 >= len(os.Args) || strings.HasPrefix(os.Args[i+1], "--") {
				args[flagName] = "true"
			} else {
				// The next argument is the value
				args[flagName] = os.Args[i+1]
				i++ // Skip the value in the next iteration
			}
		}
	}

	return args
}

// GetDefaultCachePath returns the default path for the fingerprint cache
func GetDefaultCachePath() string {
	exePath, err := os.Executable()
	if err != nil {
		// Fallback to current directory if executable path can't be determined
		return "fingerprints.db"
	}
	return filepath.Join(filepath.Dir(exePath), "fingerprints.db")
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage() {
	fmt.Printf("Search for visually similar images (%s) in a given path\n\n",
		strings.Join(hashing.RecognizedExtensions(), ", "))
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s find --path=PATH [--test-path=PATH] [--sensitivity=N] [--hasher=NAME] [--html[=PATH]] [--json=PATH] [--cache=PATH] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("  %s scan --folder=PATH [--cache=PATH] [--hasher=NAME] [--workers=N] [--force] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  --path        : Folder containing images to test for similarity\n")
	fmt.Printf("  --test-path   : If given, these images are tested against the PATH images;\n")
	fmt.Printf("                  otherwise PATH images are tested against themselves\n")
	fmt.Printf("  --sensitivity : Similarity radius, 0-%d (lower is stricter, default: %d)\n", MaxSensitivity, DefaultSensitivity)
	fmt.Printf("  --hasher      : Perceptual hash algorithm: phash, ahash, dct (default: phash)\n")
	fmt.Printf("  --hash-size   : Hash size; the fingerprint has hash-size x %d bits (default: 8)\n", types.BitsPerUnit)
	fmt.Printf("  --html        : Write an HTML report, optionally to the given path\n")
	fmt.Printf("  --json        : Write the pair set as JSON to the given path\n")
	fmt.Printf("  --cache       : Fingerprint cache database (default for scan: %s)\n", GetDefaultCachePath())
	fmt.Printf("  --folder      : Folder to pre-fingerprint into the cache\n")
	fmt.Printf("  --workers     : Parallel fingerprinting workers (default: auto)\n")
	fmt.Printf("  --force       : Rehash images even when the cache entry is still fresh\n")
	fmt.Printf("  --debug       : Enable debug mode (logs detailed information)\n")
	fmt.Printf("  --logfile     : Specify custom log file path (default: similarimages.log)\n")
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  %s find --path=/photos --sensitivity=4 --html\n", os.Args[0])
	fmt.Printf("  %s find --path=/photos --test-path=/incoming --json=pairs.json\n", os.Args[0])
	fmt.Printf("  %s scan --folder=/photos --cache=fingerprints.db\n", os.Args[0])
}

// ParseSensitivity parses and validates the sensitivity value from string
func ParseSensitivity(s string) (float64, error) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 || value > MaxSensitivity {
		return 0, &types.ConfigurationError{
			Reason: fmt.Sprintf("invalid sensitivity %q, must be between 0 and %d", s, MaxSensitivity),
		}
	}
	return value, nil
}

// ParseHashSize parses and validates the hash size value from string
func ParseHashSize(s string) (int, error) {
	value, err := strconv.Atoi(s)
	if err != nil || value < 2 {
		return 0, &types.ConfigurationError{
			Reason: fmt.Sprintf("invalid hash size %q", s),
		}
	}
	return value, nil
}
