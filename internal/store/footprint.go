package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// Footprint is the approximate storage used by the collections, in bytes.
type Footprint struct {
	ImagesBytes int64 `json:"imagesBytes"`
	DataBytes   int64 `json:"dataBytes"`
	TotalBytes  int64 `json:"totalBytes"`
}

// StorageFootprint sums image sizes and the serialized size of books, plans and logs.
func (s *Store) StorageFootprint(ctx context.Context) (*Footprint, error) {
	var fp Footprint

	for img, err := range s.Images.List(ctx) {
		if err != nil {
			return nil, err
		}
		fp.ImagesBytes += img.Size
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.ListLogs(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(struct {
		Logs  []domain.LogEntry `json:"logs"`
		Books []domain.Book     `json:"books"`
		Plans []domain.Plan     `json:"plans"`
	}{logs, books, plans})
	if err != nil {
		return nil, fmt.Errorf("marshal collections: %w", err)
	}

	fp.DataBytes = int64(len(data))
	fp.TotalBytes = fp.ImagesBytes + fp.DataBytes
	return &fp, nil
}
