package hashing

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"similarimages/types"
)

// twoTone builds a grayscale image whose left quarter is black and the
// rest white, giving the hashers an unambiguous structure.
func twoTone(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= w/4 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// inverted flips the two-tone pattern: left quarter white, rest black.
func inverted(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/4; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestHashersAreDeterministic(t *testing.T) {
	img := twoTone(64, 64)

	for _, hasher := range []Hasher{AverageHasher{}, DCTHasher{}, PHashHasher{}} {
		first, err := hasher.Compute(img, DefaultHashSize)
		require.NoError(t, err, hasher.Name())
		second, err := hasher.Compute(img, DefaultHashSize)
		require.NoError(t, err, hasher.Name())

		assert.Equal(t, first, second, hasher.Name())
		// 64 bits = 16 hex characters, leading zeros included.
		assert.Len(t, first, 16, hasher.Name())
	}
}

func TestAverageHashSurvivesRescaling(t *testing.T) {
	small, err := AverageHasher{}.Compute(twoTone(64, 64), DefaultHashSize)
	require.NoError(t, err)
	large, err := AverageHasher{}.Compute(twoTone(256, 256), DefaultHashSize)
	require.NoError(t, err)

	a, err := types.NewBitVectorFromHex(small, 64)
	require.NoError(t, err)
	b, err := types.NewBitVectorFromHex(large, 64)
	require.NoError(t, err)

	diff, err := a.Hamming(b)
	require.NoError(t, err)
	assert.LessOrEqual(t, diff, 8, "rescaled image should hash close to the original")
}

func TestAverageHashSeparatesDistinctImages(t *testing.T) {
	a, err := AverageHasher{}.Compute(twoTone(64, 64), DefaultHashSize)
	require.NoError(t, err)
	b, err := AverageHasher{}.Compute(inverted(64, 64), DefaultHashSize)
	require.NoError(t, err)

	va, err := types.NewBitVectorFromHex(a, 64)
	require.NoError(t, err)
	vb, err := types.NewBitVectorFromHex(b, 64)
	require.NoError(t, err)

	diff, err := va.Hamming(vb)
	require.NoError(t, err)
	assert.Greater(t, diff, 16, "opposite patterns should be far apart")
}

func TestPHashRejectsUnsupportedSize(t *testing.T) {
	_, err := PHashHasher{}.Compute(twoTone(64, 64), 16)
	var cfgErr *types.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewFingerprinter(Config{HashSize: 16, Hasher: PHashHasher{}})
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewFingerprinterValidatesHashSize(t *testing.T) {
	var cfgErr *types.ConfigurationError

	_, err := NewFingerprinter(Config{HashSize: 1, Hasher: AverageHasher{}})
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewFingerprinter(Config{HashSize: 64, Hasher: AverageHasher{}})
	assert.ErrorAs(t, err, &cfgErr)

	f, err := NewFingerprinter(Config{})
	require.NoError(t, err)
	assert.Equal(t, 64, f.Width())
	assert.Equal(t, "phash", f.Algorithm())
}

func TestFingerprintSameFileIsDistanceZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path, twoTone(64, 64))

	f, err := NewFingerprinter(Config{Hasher: AverageHasher{}})
	require.NoError(t, err)

	first, err := f.Fingerprint(path)
	require.NoError(t, err)
	second, err := f.Fingerprint(path)
	require.NoError(t, err)

	diff, err := first.Bits.Hamming(second.Bits)
	require.NoError(t, err)
	assert.Equal(t, 0, diff)
	assert.True(t, first.SameImage(second))
	assert.Equal(t, 64, first.Bits.Len())
}

func TestFingerprintUndecodableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("this is not a png"), 0644))

	f, err := NewFingerprinter(Config{Hasher: AverageHasher{}})
	require.NoError(t, err)

	_, err = f.Fingerprint(path)
	var decodeErr *types.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, path, decodeErr.Path)
}

func TestFromHexPadsToRunWidth(t *testing.T) {
	f, err := NewFingerprinter(Config{Hasher: AverageHasher{}})
	require.NoError(t, err)

	fp, err := f.FromHex("/photos/a.png", "1")
	require.NoError(t, err)
	assert.Equal(t, 64, fp.Bits.Len())
	assert.Equal(t, "0000000000000001", fp.HashHex)
}

func TestHasherForName(t *testing.T) {
	for _, name := range []string{"phash", "ahash", "dct"} {
		h, err := HasherForName(name)
		require.NoError(t, err)
		assert.Equal(t, name, h.Name())
	}

	_, err := HasherForName("md5")
	var cfgErr *types.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("photo.jpg"))
	assert.True(t, IsImageFile("PHOTO.JPG"))
	assert.True(t, IsImageFile("scan.tiff"))
	assert.False(t, IsImageFile("notes.txt"))
	assert.False(t, IsImageFile("archive.zip"))
}
