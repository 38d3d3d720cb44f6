package photos

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testImagePNG encodes a solid-color PNG of the given size.
func testImagePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	t.Run("small image passes through at original size", func(t *testing.T) {
		data, img, err := Normalize(testImagePNG(t, 640, 480))
		require.NoError(t, err)
		require.NotNil(t, img)

		assert.Equal(t, 640, img.Bounds().Dx())
		assert.Equal(t, 480, img.Bounds().Dy())

		// Output is always JPEG regardless of input format.
		decoded, format, err := image.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)
		assert.Equal(t, 640, decoded.Bounds().Dx())
	})

	t.Run("large image downscaled to longest edge", func(t *testing.T) {
		_, img, err := Normalize(testImagePNG(t, 2400, 1200))
		require.NoError(t, err)

		assert.Equal(t, maxEdge, img.Bounds().Dx())
		assert.Equal(t, maxEdge/2, img.Bounds().Dy())
	})

	t.Run("portrait image scales by height", func(t *testing.T) {
		_, img, err := Normalize(testImagePNG(t, 600, 2400))
		require.NoError(t, err)

		assert.Equal(t, maxEdge, img.Bounds().Dy())
		assert.Equal(t, maxEdge/4, img.Bounds().Dx())
	})

	t.Run("jpeg input accepted", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 100, 100))
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, src, nil))

		_, img, err := Normalize(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 100, img.Bounds().Dx())
	})

	t.Run("garbage input rejected", func(t *testing.T) {
		_, _, err := Normalize([]byte("not an image"))
		assert.Error(t, err)
	})
}

func TestComputeBlurHash(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 80, B: 160, A: 255})
		}
	}

	hash, err := ComputeBlurHash(img)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Same image hashes identically.
	again, err := ComputeBlurHash(img)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}
