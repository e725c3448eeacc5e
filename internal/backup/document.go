// Package backup exports the whole store to a single JSON document, imports
// such documents back, and exports study logs as CSV.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/RHgrive/Study-Plus/internal/domain"
	domainerrors "github.com/RHgrive/Study-Plus/internal/errors"
)

// FormatVersion is written to every exported document.
const FormatVersion = "2.0.0"

// Document is the backup file format. Image blobs travel as RFC 2397 data URLs.
type Document struct {
	Version    string              `json:"version"`
	ExportedAt time.Time           `json:"exportedAt"`
	Prefs      *domain.Preferences `json:"prefs,omitempty"`
	Books      []domain.Book       `json:"books"`
	Plans      []domain.Plan       `json:"plans"`
	Logs       []domain.LogEntry   `json:"logs"`
	Images     []ImageData         `json:"images,omitempty"`
}

// ImageData is an image as stored in a Document.
type ImageData struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
	BlurHash string `json:"blurHash,omitempty"`
}

// Counts tallies records per collection.
type Counts struct {
	Images int `json:"images"`
	Books  int `json:"books"`
	Plans  int `json:"plans"`
	Logs   int `json:"logs"`
}

// Validate checks the document has a version and all three data arrays.
func (d *Document) Validate() error {
	details := map[string]string{}
	if d.Version == "" {
		details["version"] = "is required"
	}
	if d.Books == nil {
		details["books"] = "must be an array"
	}
	if d.Plans == nil {
		details["plans"] = "must be an array"
	}
	if d.Logs == nil {
		details["logs"] = "must be an array"
	}
	if len(details) > 0 {
		return domainerrors.ValidationWithDetails("invalid backup document", details)
	}
	return nil
}

// Counts returns how many records of each kind the document holds.
func (d *Document) Counts() Counts {
	return Counts{
		Images: len(d.Images),
		Books:  len(d.Books),
		Plans:  len(d.Plans),
		Logs:   len(d.Logs),
	}
}

// ReadDocument parses and validates a backup document.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, domainerrors.Validation(fmt.Sprintf("unreadable backup document: %v", err))
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FileName returns the conventional backup file name for a day.
func FileName(now time.Time) string {
	return "studyplus-backup-" + domain.FormatDate(now) + ".json"
}

// CSVFileName returns the conventional log export file name for a day.
func CSVFileName(now time.Time) string {
	return "studyplus-logs-" + domain.FormatDate(now) + ".csv"
}
