package photos

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
)

// blurHashSize is the thumbnail edge used for BlurHash computation.
// BlurHash is a low-resolution placeholder; a small thumbnail produces a
// near-identical hash in a fraction of the time.
const blurHashSize = 64

// ComputeBlurHash generates a BlurHash placeholder string for a photo.
// Uses 4x3 components, a good balance of hash length and detail for
// product shots.
func ComputeBlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, thumbnailFor(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// thumbnailFor shrinks an image to at most blurHashSize on each edge using
// nearest-neighbor sampling, which is fast and sufficient for BlurHash.
func thumbnailFor(img image.Image) image.Image {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= blurHashSize && srcH <= blurHashSize {
		return img
	}

	var dstW, dstH int
	if srcW > srcH {
		dstW = blurHashSize
		dstH = max((srcH*blurHashSize)/srcW, 1)
	} else {
		dstH = blurHashSize
		dstW = max((srcW*blurHashSize)/srcH, 1)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xRatio := float64(srcW) / float64(dstW)
	yRatio := float64(srcH) / float64(dstH)
	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			srcX := int(float64(x) * xRatio)
			srcY := int(float64(y) * yRatio)
			dst.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}
	return dst
}
