package photos

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// maxEdge is the longest output edge; anything larger is downscaled.
	maxEdge = 1200

	// jpegQuality balances page weight against artifacting on product shots.
	jpegQuality = 88
)

// Normalize decodes raw image bytes in any supported format and re-encodes
// them as a JPEG no larger than maxEdge on its longest side. The processed
// image is returned alongside the encoded bytes so callers can derive
// placeholder hashes without a second decode.
func Normalize(data []byte) ([]byte, image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("decode image: %w", err)
	}

	img = downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, nil, fmt.Errorf("encode jpeg (from %s): %w", format, err)
	}

	return buf.Bytes(), img, nil
}

// downscale resizes an image so its longest edge is at most maxEdge,
// preserving aspect ratio. Smaller images pass through untouched.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := max(w, h)
	if longest <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longest)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
