package store

import (
	"context"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/id"
)

// CreateImage assigns a fresh id to img and stores it.
func (s *Store) CreateImage(ctx context.Context, img *domain.Image) error {
	if img.Size == 0 {
		img.Size = int64(len(img.Blob))
	}
	return createWithFreshID(ctx, s.Images, id.PrefixImage, &img.ID, img)
}

// GetImage resolves a weak image reference. A missing image yields (nil, nil):
// owners keep dangling ids and render them as "no image".
func (s *Store) GetImage(ctx context.Context, imageID string) (*domain.Image, error) {
	if imageID == "" {
		return nil, nil
	}
	img, err := s.Images.Get(ctx, imageID)
	if isNotFound(err) {
		return nil, nil
	}
	return img, err
}

// ListImages returns every image.
func (s *Store) ListImages(ctx context.Context) ([]domain.Image, error) {
	return s.Images.All(ctx)
}

// DeleteImage removes an image. Books and logs pointing at it are not touched.
func (s *Store) DeleteImage(ctx context.Context, imageID string) error {
	return s.Images.Delete(ctx, imageID)
}
