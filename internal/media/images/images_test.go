package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkshelf/inkshelf-server/internal/errors"
)

// testPNG encodes a small solid-color PNG for use as upload data.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess(t *testing.T) {
	data := testPNG(t, 10, 20)

	result, err := Process(data, "cover.png")
	require.NoError(t, err)

	assert.Equal(t, "png", result.Ext)
	assert.Equal(t, "image/png", result.MimeType)
	assert.Equal(t, ContentHash(data), result.Hash)
	assert.Len(t, result.Hash, 32)
	assert.Equal(t, 10, result.Width)
	assert.Equal(t, 20, result.Height)
	assert.NotEmpty(t, result.BlurHash)
}

func TestProcessUppercaseExtension(t *testing.T) {
	result, err := Process(testPNG(t, 4, 4), "Cover.PNG")
	require.NoError(t, err)
	assert.Equal(t, "png", result.Ext)
}

func TestProcessRejectsDisallowedExtension(t *testing.T) {
	for _, filename := range []string{"payload.exe", "cover.webp", "cover.svg", "noext"} {
		_, err := Process(testPNG(t, 4, 4), filename)
		require.Error(t, err, filename)
		assert.True(t, errors.Is(err, errors.ErrUnsupportedMedia), "expected unsupported media for %s", filename)
	}
}

func TestProcessRejectsEmptyData(t *testing.T) {
	_, err := Process(nil, "cover.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestProcessRejectsUndecodableData(t *testing.T) {
	_, err := Process([]byte("not an image at all"), "cover.png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestContentHashStable(t *testing.T) {
	data := testPNG(t, 8, 8)
	assert.Equal(t, ContentHash(data), ContentHash(data))
	assert.NotEqual(t, ContentHash(data), ContentHash(testPNG(t, 9, 9)))
}

func TestComputeBlurHashLargeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 450))
	hash, err := ComputeBlurHash(img)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
}

func TestMimeForExt(t *testing.T) {
	assert.Equal(t, "image/jpeg", MimeForExt("jpg"))
	assert.Equal(t, "image/jpeg", MimeForExt("jpeg"))
	assert.Equal(t, "image/gif", MimeForExt("gif"))
	assert.Equal(t, "application/octet-stream", MimeForExt("bin"))
}
