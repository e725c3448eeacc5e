package store

import (
	"context"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// Repository is the persistence surface the state container and the backup
// collaborators are built on. *Store implements it.
type Repository interface {
	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	BooksBySubject(ctx context.Context, subject string) ([]domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error

	// Logs
	CreateLog(ctx context.Context, entry *domain.LogEntry) error
	GetLog(ctx context.Context, id string) (*domain.LogEntry, error)
	ListLogs(ctx context.Context) ([]domain.LogEntry, error)
	LogsByBook(ctx context.Context, bookID string) ([]domain.LogEntry, error)
	LogsByDateRange(ctx context.Context, from, to string) ([]domain.LogEntry, error)
	UpdateLog(ctx context.Context, entry *domain.LogEntry) error
	DeleteLog(ctx context.Context, id string) error

	// Plans
	SavePlan(ctx context.Context, plan *domain.Plan) error
	GetPlanByDate(ctx context.Context, date string) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	DeletePlan(ctx context.Context, date string) error

	// Images
	CreateImage(ctx context.Context, img *domain.Image) error
	GetImage(ctx context.Context, id string) (*domain.Image, error)
	ListImages(ctx context.Context) ([]domain.Image, error)
	DeleteImage(ctx context.Context, id string) error

	// Meta
	SetMeta(ctx context.Context, key, value string) error
	GetMeta(ctx context.Context, key string) (string, error)

	// Backup restore
	ImportBook(ctx context.Context, book *domain.Book) error
	ImportLog(ctx context.Context, entry *domain.LogEntry) error

	// Maintenance
	Clear(ctx context.Context, kind Kind) error
	ClearAll(ctx context.Context) error
	StorageFootprint(ctx context.Context) (*Footprint, error)
}

var _ Repository = (*Store)(nil)
