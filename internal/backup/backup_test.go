package backup_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RHgrive/Study-Plus/internal/backup"
	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
	"github.com/RHgrive/Study-Plus/internal/state"
	"github.com/RHgrive/Study-Plus/internal/store"
)

type env struct {
	store     *store.Store
	container *state.Container
	service   *backup.Service
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	return setupEnvWithRepo(t, nil)
}

// setupEnvWithRepo wraps the store with wrap when it is non-nil.
func setupEnvWithRepo(t *testing.T, wrap func(store.Repository) store.Repository) *env {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	var repo store.Repository = s
	if wrap != nil {
		repo = wrap(s)
	}

	c := state.New(repo, state.NewFileCache(filepath.Join(t.TempDir(), "prefs.json")), nil)
	require.NoError(t, c.Init(context.Background()))
	t.Cleanup(func() { _ = c.Close() })

	return &env{store: s, container: c, service: backup.NewService(repo, c, nil)}
}

func addBook(t *testing.T, e *env, title, subject string) *domain.Book {
	t.Helper()
	b, err := e.container.AddBook(context.Background(), domain.Book{Title: title, Subject: subject, Difficulty: 3})
	require.NoError(t, err)
	return b
}

func addLog(t *testing.T, e *env, bookID string, at time.Time, from, to, minutes int) *domain.LogEntry {
	t.Helper()
	l, err := e.container.AddLog(context.Background(), domain.LogEntry{
		BookID:   bookID,
		Datetime: at,
		FromPage: domain.IntPtr(from),
		ToPage:   domain.IntPtr(to),
		Minutes:  minutes,
	})
	require.NoError(t, err)
	return l
}

func TestExportImport_OverwriteRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupEnv(t)

	photo := &domain.Image{Blob: []byte("not really a png"), Type: "image/png", Width: 2, Height: 3}
	require.NoError(t, src.store.CreateImage(ctx, photo))

	book := addBook(t, src, "Linear Algebra", "math")
	entry, err := src.container.AddLog(ctx, domain.LogEntry{
		BookID:   book.ID,
		Datetime: time.Date(2024, 5, 14, 9, 30, 0, 0, time.Local),
		FromPage: domain.IntPtr(10),
		ToPage:   domain.IntPtr(25),
		Minutes:  40,
		Memo:     "chapter 2",
		PhotoID:  photo.ID,
	})
	require.NoError(t, err)
	_, err = src.container.SavePlan(ctx, "2024-05-14", []domain.PlanItem{{BookID: book.ID, TargetPages: 20}})
	require.NoError(t, err)

	theme := domain.ThemeLight
	_, err = src.container.UpdatePreferences(domain.PreferencesPatch{Theme: &theme})
	require.NoError(t, err)

	var buf bytes.Buffer
	exported, err := src.service.WriteTo(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, backup.FormatVersion, exported.Version)
	assert.Equal(t, backup.Counts{Images: 1, Books: 1, Plans: 1, Logs: 1}, exported.Counts())
	assert.True(t, strings.HasPrefix(exported.Images[0].Data, "data:image/png;base64,"))

	doc, err := backup.ReadDocument(&buf)
	require.NoError(t, err)

	dst := setupEnv(t)
	addBook(t, dst, "Leftover", "misc")

	result, err := dst.service.Import(ctx, doc, backup.ModeOverwrite)
	require.NoError(t, err)
	assert.Equal(t, backup.Counts{Images: 1, Books: 1, Plans: 1, Logs: 1}, result.Imported)
	assert.Equal(t, backup.Counts{}, result.Skipped)
	assert.Empty(t, result.Errors)

	// Overwrite removed the pre-existing book; ids of the imported records survive.
	books := dst.container.Books()
	require.Len(t, books, 1)
	assert.Equal(t, book.ID, books[0].ID)
	assert.Equal(t, "Linear Algebra", books[0].Title)

	logs := dst.container.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].ID)
	assert.Equal(t, book.ID, logs[0].BookID)
	assert.Equal(t, 15, logs[0].Pages())
	assert.Equal(t, "2024-05-14", logs[0].Date)

	// Images get new ids; the log follows.
	img, err := dst.store.GetImage(ctx, logs[0].PhotoID)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, []byte("not really a png"), img.Blob)
	assert.Equal(t, "image/png", img.Type)
	assert.Equal(t, 2, img.Width)

	plan, ok := dst.container.Plan("2024-05-14")
	require.True(t, ok)
	assert.Equal(t, book.ID, plan.Items[0].BookID)

	assert.Equal(t, domain.ThemeLight, dst.container.Preferences().Theme)
}

func TestImport_MergeSkipsExistingTitlesAndPlanDates(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)

	existing := addBook(t, e, "Physics I", "science")
	_, err := e.container.SavePlan(ctx, "2024-05-14", []domain.PlanItem{{BookID: existing.ID, TargetPages: 5}})
	require.NoError(t, err)

	at := time.Date(2024, 5, 14, 20, 0, 0, 0, time.Local)
	doc := &backup.Document{
		Version: backup.FormatVersion,
		Books: []domain.Book{
			{ID: "bk_backup_physics", Title: "Physics I", Subject: "science", Difficulty: 2},
			{ID: "bk_backup_chem", Title: "Chemistry", Subject: "science", Difficulty: 4},
		},
		Plans: []domain.Plan{
			{ID: "pl_a", Date: "2024-05-14", Items: []domain.PlanItem{{BookID: "bk_backup_chem", TargetPages: 99}}},
			{ID: "pl_b", Date: "2024-05-15", Items: []domain.PlanItem{{BookID: "bk_backup_chem", TargetPages: 7}}},
		},
		Logs: []domain.LogEntry{
			{ID: "lg_1", BookID: "bk_backup_physics", Datetime: at, ToPage: domain.IntPtr(8), Minutes: 20},
			{ID: "lg_2", BookID: "bk_backup_chem", Datetime: at.Add(time.Hour), Questions: domain.IntPtr(12), Minutes: 30},
		},
	}

	result, err := e.service.Import(ctx, doc, backup.ModeMerge)
	require.NoError(t, err)
	assert.Equal(t, backup.Counts{Books: 1, Plans: 1, Logs: 2}, result.Imported)
	assert.Equal(t, backup.Counts{Books: 1, Plans: 1}, result.Skipped)

	books := e.container.Books()
	assert.Len(t, books, 2)

	// The log of the skipped book now points at the book already in the store.
	byID := map[string]domain.LogEntry{}
	for _, l := range e.container.Logs() {
		byID[l.ID] = l
	}
	require.Contains(t, byID, "lg_1")
	require.Contains(t, byID, "lg_2")
	assert.Equal(t, existing.ID, byID["lg_1"].BookID)
	assert.Equal(t, "bk_backup_chem", byID["lg_2"].BookID)

	kept, ok := e.container.Plan("2024-05-14")
	require.True(t, ok)
	assert.Equal(t, 5, kept.Items[0].TargetPages)

	added, ok := e.container.Plan("2024-05-15")
	require.True(t, ok)
	assert.Equal(t, 7, added.Items[0].TargetPages)
}

func TestImport_DuplicateTitlesInsideDocument(t *testing.T) {
	e := setupEnv(t)

	doc := &backup.Document{
		Version: backup.FormatVersion,
		Books: []domain.Book{
			{ID: "bk_one", Title: "Same", Subject: "x", Difficulty: 1},
			{ID: "bk_two", Title: "Same", Subject: "x", Difficulty: 1},
		},
		Plans: []domain.Plan{},
		Logs: []domain.LogEntry{
			{ID: "lg_1", BookID: "bk_two", Datetime: time.Now(), ToPage: domain.IntPtr(3), Minutes: 5},
		},
	}

	result, err := e.service.Import(context.Background(), doc, backup.ModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported.Books)
	assert.Equal(t, 1, result.Skipped.Books)
	assert.Equal(t, "bk_one", e.container.Logs()[0].BookID)
}

func TestImport_KeepsLogWhenIDTaken(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)

	book := addBook(t, e, "Book", "x")
	taken := addLog(t, e, book.ID, time.Now(), 0, 4, 10)

	doc := &backup.Document{
		Version: backup.FormatVersion,
		Books:   []domain.Book{},
		Plans:   []domain.Plan{},
		Logs: []domain.LogEntry{
			{ID: taken.ID, BookID: book.ID, Datetime: time.Now(), ToPage: domain.IntPtr(9), Minutes: 15},
		},
	}

	result, err := e.service.Import(ctx, doc, backup.ModeMerge)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported.Logs)
	assert.Len(t, e.container.Logs(), 2)

	original, err := e.store.GetLog(ctx, taken.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, original.Pages())
}

func TestImport_MergeTwiceAppendsEveryLog(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)

	book := addBook(t, e, "Drill", "math")
	at := time.Date(2024, 5, 14, 8, 0, 0, 0, time.Local)

	const n = 200
	logs := make([]domain.LogEntry, n)
	for i := range logs {
		logs[i] = domain.LogEntry{
			ID:       fmt.Sprintf("log_20240514080000_%03d", i),
			BookID:   book.ID,
			Datetime: at.Add(time.Duration(i) * time.Minute),
			ToPage:   domain.IntPtr(i + 1),
			Minutes:  10,
		}
	}
	doc := &backup.Document{
		Version: backup.FormatVersion,
		Books:   []domain.Book{},
		Plans:   []domain.Plan{},
		Logs:    logs,
	}

	for round := range 2 {
		result, err := e.service.Import(ctx, doc, backup.ModeMerge)
		require.NoError(t, err, "round %d", round)
		assert.Equal(t, n, result.Imported.Logs)
		assert.Empty(t, result.Errors)
	}

	stored := e.container.Logs()
	assert.Len(t, stored, 2*n)

	ids := make(map[string]bool, len(stored))
	for _, l := range stored {
		ids[l.ID] = true
		assert.Equal(t, book.ID, l.BookID)
	}
	assert.Len(t, ids, 2*n)
}

func TestImport_UndecodableImageIsReported(t *testing.T) {
	e := setupEnv(t)

	doc := &backup.Document{
		Version: backup.FormatVersion,
		Books:   []domain.Book{},
		Plans:   []domain.Plan{},
		Logs:    []domain.LogEntry{},
		Images:  []backup.ImageData{{ID: "img_bad", Type: "image/png", Data: "definitely not a data url"}},
	}

	result, err := e.service.Import(context.Background(), doc, backup.ModeMerge)
	require.NoError(t, err)
	assert.Zero(t, result.Imported.Images)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "image", result.Errors[0].Kind)
	assert.Equal(t, "img_bad", result.Errors[0].ID)
}

func TestImport_InvalidDocument(t *testing.T) {
	e := setupEnv(t)

	tests := []struct {
		name string
		doc  *backup.Document
	}{
		{"missing version", &backup.Document{Books: []domain.Book{}, Plans: []domain.Plan{}, Logs: []domain.LogEntry{}}},
		{"missing logs", &backup.Document{Version: "2.0.0", Books: []domain.Book{}, Plans: []domain.Plan{}}},
		{"missing books", &backup.Document{Version: "2.0.0", Plans: []domain.Plan{}, Logs: []domain.LogEntry{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.service.Import(context.Background(), tt.doc, backup.ModeOverwrite)
			assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
		})
	}

	_, err := e.service.Import(context.Background(), &backup.Document{
		Version: "2.0.0", Books: []domain.Book{}, Plans: []domain.Plan{}, Logs: []domain.LogEntry{},
	}, backup.Mode("replace"))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestReadDocument(t *testing.T) {
	_, err := backup.ReadDocument(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = backup.ReadDocument(strings.NewReader(`{"version":"2.0.0","books":[],"plans":[]}`))
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	doc, err := backup.ReadDocument(strings.NewReader(`{"version":"1.0.0","books":[],"plans":[],"logs":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Version)
	assert.Nil(t, doc.Prefs)
}

func TestParseMode(t *testing.T) {
	m, err := backup.ParseMode("merge")
	require.NoError(t, err)
	assert.Equal(t, backup.ModeMerge, m)

	m, err = backup.ParseMode("overwrite")
	require.NoError(t, err)
	assert.Equal(t, backup.ModeOverwrite, m)

	_, err = backup.ParseMode("MERGE")
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

// failingLogs fails every ImportLog call.
type failingLogs struct {
	store.Repository
}

func (failingLogs) ImportLog(context.Context, *domain.LogEntry) error {
	return domainerrors.StoreUnavailable("disk full", nil)
}

func TestImport_StoreFailureReportsPartialImport(t *testing.T) {
	e := setupEnvWithRepo(t, func(r store.Repository) store.Repository {
		return failingLogs{Repository: r}
	})

	doc := &backup.Document{
		Version: backup.FormatVersion,
		Books:   []domain.Book{{ID: "bk_1", Title: "A", Subject: "x", Difficulty: 1}},
		Plans:   []domain.Plan{},
		Logs:    []domain.LogEntry{{ID: "lg_1", BookID: "bk_1", Datetime: time.Now(), ToPage: domain.IntPtr(1), Minutes: 1}},
	}

	_, err := e.service.Import(context.Background(), doc, backup.ModeMerge)
	require.Error(t, err)

	var partial *backup.PartialImportError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "logs", partial.Stage)
	assert.Equal(t, 1, partial.Imported.Books)
	assert.ErrorIs(t, err, domainerrors.ErrStoreUnavailable)

	// The book written before the failure is visible.
	assert.Len(t, e.container.Books(), 1)
}

func TestWriteFile(t *testing.T) {
	e := setupEnv(t)
	addBook(t, e, "Book", "x")

	path := filepath.Join(t.TempDir(), "nested", backup.FileName(time.Date(2024, 5, 15, 0, 0, 0, 0, time.Local)))
	doc, err := e.service.WriteFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Counts().Books)
	assert.Equal(t, "studyplus-backup-2024-05-15.json", filepath.Base(path))
	assert.NoFileExists(t, path+".tmp")
	assert.FileExists(t, path)
}

func TestExportLogsCSV(t *testing.T) {
	ctx := context.Background()
	e := setupEnv(t)

	book := addBook(t, e, "Calculus", "math")
	day := func(d, h int) time.Time { return time.Date(2024, 5, d, h, 0, 0, 0, time.Local) }

	addLog(t, e, book.ID, day(14, 18), 10, 20, 30)
	addLog(t, e, book.ID, day(13, 8), 0, 5, 15)
	_, err := e.container.AddLog(ctx, domain.LogEntry{
		BookID:    "bk_gone",
		Datetime:  day(14, 7),
		Questions: domain.IntPtr(6),
		Minutes:   25,
		Memo:      "drills, set B",
	})
	require.NoError(t, err)
	addLog(t, e, book.ID, day(16, 9), 1, 2, 5)

	var buf bytes.Buffer
	n, err := e.service.ExportLogsCSV(ctx, &buf, "2024-05-13", "2024-05-14")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"datetime", "book", "subject", "fromPage", "toPage", "pages", "questions", "minutes", "memo"}, rows[0])
	assert.Equal(t, []string{"2024-05-13 08:00", "Calculus", "math", "", "5", "5", "", "15", ""}, rows[1])
	assert.Equal(t, []string{"2024-05-14 07:00", "Unknown", "", "", "", "", "6", "25", "drills, set B"}, rows[2])
	assert.Equal(t, []string{"2024-05-14 18:00", "Calculus", "math", "10", "20", "10", "", "30", ""}, rows[3])

	buf.Reset()
	n, err = e.service.ExportLogsCSV(ctx, &buf, "", "")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestFileNames(t *testing.T) {
	now := time.Date(2024, 1, 2, 23, 0, 0, 0, time.Local)
	assert.Equal(t, "studyplus-backup-2024-01-02.json", backup.FileName(now))
	assert.Equal(t, "studyplus-logs-2024-01-02.csv", backup.CSVFileName(now))
}
