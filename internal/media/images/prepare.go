// Package images turns uploaded image bytes into storable records: the MIME
// type is sniffed, dimensions are read and a BlurHash placeholder computed.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

// MaxSize is the largest image accepted, in bytes.
const MaxSize = 10 << 20

var supportedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// Prepare validates data as an image and returns an unsaved record with its
// type, dimensions, size and BlurHash filled in. The blob is kept as given.
func Prepare(data []byte) (*domain.Image, error) {
	if len(data) == 0 {
		return nil, domainerrors.Validation("image is empty")
	}
	if len(data) > MaxSize {
		return nil, domainerrors.ValidationWithDetails("image too large", map[string]any{
			"size": len(data),
			"max":  MaxSize,
		})
	}

	mime := mimetype.Detect(data)
	if !slices.ContainsFunc(supportedTypes, mime.Is) {
		return nil, domainerrors.ValidationWithDetails("unsupported image type", map[string]any{
			"type":      mime.String(),
			"supported": supportedTypes,
		})
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.Validation(fmt.Sprintf("unreadable %s image: %v", mime.String(), err))
	}

	img := &domain.Image{
		Blob:   data,
		Type:   mime.String(),
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   int64(len(data)),
	}

	// A missing placeholder is not fatal.
	if decoded, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		if hash, err := ComputeBlurHash(decoded); err == nil {
			img.BlurHash = hash
		}
	}

	return img, nil
}

// PrepareFile reads path and passes its contents to Prepare.
func PrepareFile(path string) (*domain.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.Size() > MaxSize {
		return nil, domainerrors.ValidationWithDetails("image too large", map[string]any{
			"size": info.Size(),
			"max":  MaxSize,
		})
	}

	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return Prepare(data)
}
