package images

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
)

// blurHashSize is the longest side of the thumbnail the hash is computed from.
const blurHashSize = 64

// ComputeBlurHash generates a BlurHash string for a decoded image.
// Uses 4x3 components, which keeps the hash around 20-30 characters.
func ComputeBlurHash(img image.Image) (string, error) {
	thumbnail := resizeForBlurHash(img)

	hash, err := blurhash.Encode(4, 3, thumbnail)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}

	return hash, nil
}

// resizeForBlurHash fits img into a blurHashSize square, keeping its aspect
// ratio. Each side stays at least one pixel.
func resizeForBlurHash(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= blurHashSize && h <= blurHashSize {
		return img
	}

	longest := max(w, h)
	thumbW := max(w*blurHashSize/longest, 1)
	thumbH := max(h*blurHashSize/longest, 1)

	thumb := image.NewRGBA(image.Rect(0, 0, thumbW, thumbH))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), img, b, draw.Src, nil)
	return thumb
}
