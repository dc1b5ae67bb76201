package hashing

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"similarimages/types"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// recognizedExtensions lists the image formats the pipeline accepts.
// Decoders for each are registered with image.Decode via the blank
// imports above.
var recognizedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".gif":  true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImageFile reports whether the path carries a recognized image
// extension. The check is case-insensitive.
func IsImageFile(path string) bool {
	return recognizedExtensions[strings.ToLower(filepath.Ext(path))]
}

// RecognizedExtensions returns the accepted extension set, sorted, for
// display in usage text.
func RecognizedExtensions() []string {
	exts := make([]string, 0, len(recognizedExtensions))
	for ext := range recognizedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DecodeImage opens and decodes an image file. Failures come back as a
// *types.DecodeError so callers can apply the skip-and-report policy.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &types.DecodeError{Path: path, Err: err}
	}
	if img == nil {
		return nil, &types.DecodeError{Path: path, Err: fmt.Errorf("decoder %s returned no image", format)}
	}
	return img, nil
}
