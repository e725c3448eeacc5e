package backup

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// csvHeader is the column order of ExportLogsCSV.
var csvHeader = []string{
	"datetime",
	"book",
	"subject",
	"fromPage",
	"toPage",
	"pages",
	"questions",
	"minutes",
	"memo",
}

// unknownBook is written for logs whose book no longer exists.
const unknownBook = "Unknown"

// ExportLogsCSV writes the logs with dates in [from, to] as CSV, oldest first.
// Empty bounds export every log. Zero and absent counts are written as empty cells.
func (s *Service) ExportLogsCSV(ctx context.Context, w io.Writer, from, to string) (int, error) {
	var logs []domain.LogEntry
	var err error
	if from == "" && to == "" {
		logs, err = s.repo.ListLogs(ctx)
	} else {
		logs, err = s.repo.LogsByDateRange(ctx, from, to)
	}
	if err != nil {
		return 0, fmt.Errorf("export logs: %w", err)
	}

	books, err := s.repo.ListBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("export logs: %w", err)
	}
	byID := make(map[string]domain.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	slices.SortStableFunc(logs, func(a, b domain.LogEntry) int {
		return a.Datetime.Compare(b.Datetime)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	for _, l := range logs {
		title, subject := unknownBook, ""
		if book, ok := byID[l.BookID]; ok {
			title, subject = book.Title, book.Subject
		}

		record := []string{
			l.Datetime.Local().Format("2006-01-02 15:04"),
			title,
			subject,
			countCell(domain.IntValue(l.FromPage)),
			countCell(domain.IntValue(l.ToPage)),
			countCell(l.Pages()),
			countCell(l.QuestionCount()),
			countCell(l.Minutes),
			l.Memo,
		}
		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return len(logs), nil
}

func countCell(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
