package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/vincent-petithory/dataurl"

	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

// Mode decides what happens to existing data on import.
type Mode string

const (
	// ModeMerge keeps existing data. Books whose title already exists and
	// plans whose date already has one are skipped; logs are always appended.
	ModeMerge Mode = "merge"

	// ModeOverwrite clears every collection before importing.
	ModeOverwrite Mode = "overwrite"
)

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMerge, ModeOverwrite:
		return Mode(s), nil
	default:
		return "", domainerrors.Validation(fmt.Sprintf("unknown import mode %q (want merge or overwrite)", s))
	}
}

// Result reports what an import wrote.
type Result struct {
	Mode     Mode
	Imported Counts
	Skipped  Counts
	Errors   []ItemError
	Duration time.Duration
}

// ItemError is a single record that could not be imported. The import went on without it.
type ItemError struct {
	Kind  string `json:"kind"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// PartialImportError is returned when the store failed part-way through an
// import. Records written before the failure stay written.
type PartialImportError struct {
	Stage    string
	Imported Counts
	Err      error
}

func (e *PartialImportError) Error() string {
	return fmt.Sprintf("import stopped while writing %s (imported %d images, %d books, %d plans, %d logs): %v",
		e.Stage, e.Imported.Images, e.Imported.Books, e.Imported.Plans, e.Imported.Logs, e.Err)
}

func (e *PartialImportError) Unwrap() error {
	return e.Err
}

// importer carries the id remapping for one import run.
type importer struct {
	*Service
	mode     Mode
	result   *Result
	imageIDs map[string]string
	bookIDs  map[string]string
}

// Import writes doc into the store, then reloads the state container and
// applies the document's preferences.
//
// Images are imported first and always get new ids; books, plans and logs
// keep their ids unless taken. References in later records are rewritten to
// the ids actually stored. In merge mode a skipped book's logs are pointed at
// the existing book with the same title.
func (s *Service) Import(ctx context.Context, doc *Document, mode Mode) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}

	start := time.Now()
	s.logger.Info("starting import", "mode", mode, "version", doc.Version,
		"books", len(doc.Books), "plans", len(doc.Plans), "logs", len(doc.Logs), "images", len(doc.Images))

	imp := &importer{
		Service:  s,
		mode:     mode,
		result:   &Result{Mode: mode},
		imageIDs: make(map[string]string),
		bookIDs:  make(map[string]string),
	}

	if mode == ModeOverwrite {
		if err := s.repo.ClearAll(ctx); err != nil {
			return nil, imp.partial("existing data", err)
		}
	}

	steps := []struct {
		name string
		fn   func(context.Context, *Document) error
	}{
		{"images", imp.importImages},
		{"books", imp.importBooks},
		{"plans", imp.importPlans},
		{"logs", imp.importLogs},
	}
	for _, step := range steps {
		if err := step.fn(ctx, doc); err != nil {
			return nil, imp.partial(step.name, err)
		}
	}

	if doc.Prefs != nil {
		if _, err := s.state.UpdatePreferences(doc.Prefs.Patch()); err != nil {
			imp.itemFailed("preferences", "", err)
		}
	}

	if err := s.state.Reload(ctx); err != nil {
		return nil, fmt.Errorf("reload after import: %w", err)
	}

	imp.result.Duration = time.Since(start)
	s.logger.Info("import complete",
		"imported", imp.result.Imported,
		"skipped", imp.result.Skipped,
		"errors", len(imp.result.Errors),
		"duration", imp.result.Duration)

	return imp.result, nil
}

func (imp *importer) partial(stage string, err error) error {
	imp.logger.Error("import failed", "stage", stage, "imported", imp.result.Imported, "error", err)

	// Whatever was written is in the store; show it.
	if reloadErr := imp.state.Reload(context.Background()); reloadErr != nil {
		imp.logger.Warn("reload after failed import", "error", reloadErr)
	}
	return &PartialImportError{Stage: stage, Imported: imp.result.Imported, Err: err}
}

func (imp *importer) itemFailed(kind, id string, err error) {
	imp.logger.Warn("skipping record", "kind", kind, "id", id, "error", err)
	imp.result.Errors = append(imp.result.Errors, ItemError{Kind: kind, ID: id, Error: err.Error()})
}

// importImages decodes each data URL and stores the blob under a new id.
// An undecodable image is skipped; its owners keep a dangling reference.
func (imp *importer) importImages(ctx context.Context, doc *Document) error {
	for _, data := range doc.Images {
		decoded, err := dataurl.DecodeString(data.Data)
		if err != nil {
			imp.itemFailed("image", data.ID, err)
			continue
		}

		img := &domain.Image{
			Blob:     decoded.Data,
			Type:     data.Type,
			Width:    data.Width,
			Height:   data.Height,
			Size:     data.Size,
			BlurHash: data.BlurHash,
		}
		if img.Type == "" {
			img.Type = decoded.ContentType()
		}
		if img.Size == 0 {
			img.Size = int64(len(img.Blob))
		}

		if err := imp.repo.CreateImage(ctx, img); err != nil {
			return err
		}
		imp.imageIDs[data.ID] = img.ID
		imp.result.Imported.Images++
	}
	return nil
}

func (imp *importer) importBooks(ctx context.Context, doc *Document) error {
	existingByTitle := make(map[string]string)
	if imp.mode == ModeMerge {
		books, err := imp.repo.ListBooks(ctx)
		if err != nil {
			return err
		}
		for _, b := range books {
			existingByTitle[b.Title] = b.ID
		}
	}

	for _, book := range doc.Books {
		originalID := book.ID

		if existingID, ok := existingByTitle[book.Title]; ok {
			imp.bookIDs[originalID] = existingID
			imp.result.Skipped.Books++
			continue
		}

		book.CoverImageID = imp.remapImage(book.CoverImageID)
		if err := imp.repo.ImportBook(ctx, &book); err != nil {
			return err
		}
		imp.bookIDs[originalID] = book.ID
		if imp.mode == ModeMerge {
			existingByTitle[book.Title] = book.ID
		}
		imp.result.Imported.Books++
	}
	return nil
}

func (imp *importer) importPlans(ctx context.Context, doc *Document) error {
	for _, plan := range doc.Plans {
		if imp.mode == ModeMerge {
			_, err := imp.repo.GetPlanByDate(ctx, plan.Date)
			if err == nil {
				imp.result.Skipped.Plans++
				continue
			}
			if !domainerrors.Is(err, domainerrors.ErrNotFound) {
				return err
			}
		}

		items := make([]domain.PlanItem, len(plan.Items))
		for i, item := range plan.Items {
			item.BookID = imp.remapBook(item.BookID)
			items[i] = item
		}
		plan.Items = items

		if err := imp.repo.SavePlan(ctx, &plan); err != nil {
			return err
		}
		imp.result.Imported.Plans++
	}
	return nil
}

func (imp *importer) importLogs(ctx context.Context, doc *Document) error {
	for _, entry := range doc.Logs {
		entry.BookID = imp.remapBook(entry.BookID)
		entry.PhotoID = imp.remapImage(entry.PhotoID)

		if err := imp.repo.ImportLog(ctx, &entry); err != nil {
			return err
		}
		imp.result.Imported.Logs++
	}
	return nil
}

func (imp *importer) remapImage(id string) string {
	if mapped, ok := imp.imageIDs[id]; ok {
		return mapped
	}
	return id
}

func (imp *importer) remapBook(id string) string {
	if mapped, ok := imp.bookIDs[id]; ok {
		return mapped
	}
	return id
}
