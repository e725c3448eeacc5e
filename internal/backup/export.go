package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vincent-petithory/dataurl"
)

// Export reads every collection and the current preferences into a Document.
func (s *Service) Export(ctx context.Context) (*Document, error) {
	start := time.Now()

	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("export books: %w", err)
	}
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("export plans: %w", err)
	}
	logs, err := s.repo.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("export logs: %w", err)
	}
	images, err := s.repo.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("export images: %w", err)
	}

	prefs := s.state.Preferences()
	doc := &Document{
		Version:    FormatVersion,
		ExportedAt: s.now().UTC(),
		Prefs:      &prefs,
		Books:      books,
		Plans:      plans,
		Logs:       logs,
		Images:     make([]ImageData, 0, len(images)),
	}

	for _, img := range images {
		doc.Images = append(doc.Images, ImageData{
			ID:       img.ID,
			Type:     img.Type,
			Data:     dataurl.New(img.Blob, mediaType(img.Type)).String(),
			Width:    img.Width,
			Height:   img.Height,
			Size:     img.Size,
			BlurHash: img.BlurHash,
		})
	}

	counts := doc.Counts()
	s.logger.Info("backup exported",
		"books", counts.Books,
		"plans", counts.Plans,
		"logs", counts.Logs,
		"images", counts.Images,
		"duration", time.Since(start))

	return doc, nil
}

// WriteTo exports and writes the document as indented JSON.
func (s *Service) WriteTo(ctx context.Context, w io.Writer) (*Document, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return doc, nil
}

// WriteFile exports to path. The file is written under a temporary name and
// renamed into place, so a failed export never leaves a truncated backup.
func (s *Service) WriteFile(ctx context.Context, path string) (*Document, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	defer os.Remove(tmpPath) // Clean up on failure
	defer f.Close()

	doc, err := s.WriteTo(ctx, f)
	if err != nil {
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("rename backup: %w", err)
	}
	return doc, nil
}

// mediaType falls back to a generic binary type when the stored MIME type is unusable.
// Parameters such as charset are dropped.
func mediaType(t string) string {
	t, _, _ = strings.Cut(t, ";")
	t = strings.TrimSpace(t)
	if strings.Count(t, "/") != 1 || strings.HasPrefix(t, "/") || strings.HasSuffix(t, "/") {
		return "application/octet-stream"
	}
	return t
}
