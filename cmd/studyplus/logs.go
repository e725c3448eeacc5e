package main

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/RHgrive/Study-Plus/internal/domain"
)

// datetimeLayout is how session times are entered and shown.
const datetimeLayout = "2006-01-02 15:04"

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record and review study sessions",
}

var logAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		at := time.Now()
		if logFlags.at != "" {
			var err error
			if at, err = time.ParseInLocation(datetimeLayout, logFlags.at, time.Local); err != nil {
				return fmt.Errorf("--at must look like %q: %w", datetimeLayout, err)
			}
		}

		entry := domain.LogEntry{
			BookID:   logFlags.book,
			Datetime: at,
			Minutes:  logFlags.minutes,
			Memo:     logFlags.memo,
			Tags:     logFlags.tags,
		}
		if cmd.Flags().Changed("from") {
			entry.FromPage = domain.IntPtr(logFlags.from)
		}
		if cmd.Flags().Changed("to") {
			entry.ToPage = domain.IntPtr(logFlags.to)
		}
		if cmd.Flags().Changed("questions") {
			entry.Questions = domain.IntPtr(logFlags.questions)
		}

		return run(func(ctx context.Context, a *app) error {
			if logFlags.photo != "" {
				photoID, err := storeImage(ctx, a, logFlags.photo)
				if err != nil {
					return err
				}
				entry.PhotoID = photoID
			}

			created, err := a.state.AddLog(ctx, entry)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(created)
			}
			fmt.Printf("Logged %d min on %s (%s)\n", created.Minutes, bookTitle(a, created.BookID), created.ID)
			return nil
		})(cmd, args)
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List study sessions, newest first",
	RunE: run(func(ctx context.Context, a *app) error {
		var logs []domain.LogEntry
		switch {
		case logFlags.book != "":
			var err error
			if logs, err = a.store.LogsByBook(ctx, logFlags.book); err != nil {
				return err
			}
			slices.SortStableFunc(logs, func(x, y domain.LogEntry) int {
				return y.Datetime.Compare(x.Datetime)
			})
		default:
			logs = a.state.Logs()
		}

		logs = slices.DeleteFunc(logs, func(l domain.LogEntry) bool {
			return (listRange.from != "" && l.Date < listRange.from) ||
				(listRange.to != "" && l.Date > listRange.to)
		})
		if logFlags.limit > 0 && len(logs) > logFlags.limit {
			logs = logs[:logFlags.limit]
		}

		if jsonOutput {
			return printJSON(logs)
		}
		if len(logs) == 0 {
			fmt.Println("No sessions.")
			return nil
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tWHEN\tBOOK\tPAGES\tQUESTIONS\tMINUTES\tMEMO")
		for _, l := range logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				l.ID, l.Datetime.Local().Format(datetimeLayout), bookTitle(a, l.BookID),
				l.Pages(), l.QuestionCount(), l.Minutes, l.Memo)
		}
		return w.Flush()
	}),
}

var logDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a study session",
	Args:  cobra.ExactArgs(1),
	RunE: runArgs(func(ctx context.Context, a *app, args []string) error {
		if err := a.state.DeleteLog(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	}),
}

var logFlags struct {
	book, at, memo, photo        string
	from, to, questions, minutes int
	limit                        int
	tags                         []string
}

var listRange struct {
	from, to string
}

// bookTitle resolves a weak book reference for display.
func bookTitle(a *app, id string) string {
	if b, ok := a.state.Book(id); ok {
		return b.Title
	}
	return "(deleted book)"
}

func init() {
	f := logAddCmd.Flags()
	f.StringVar(&logFlags.book, "book", "", "Book id")
	f.StringVar(&logFlags.at, "at", "", "Session time as \"YYYY-MM-DD HH:MM\" (default now)")
	f.IntVar(&logFlags.from, "from", 0, "First page")
	f.IntVar(&logFlags.to, "to", 0, "Last page")
	f.IntVar(&logFlags.questions, "questions", 0, "Questions solved")
	f.IntVar(&logFlags.minutes, "minutes", 0, "Minutes studied")
	f.StringVar(&logFlags.memo, "memo", "", "Memo")
	f.StringVar(&logFlags.photo, "photo", "", "Photo file (jpeg, png, gif or webp)")
	f.StringSliceVar(&logFlags.tags, "tag", nil, "Tag (repeatable)")
	_ = logAddCmd.MarkFlagRequired("book")
	_ = logAddCmd.MarkFlagRequired("minutes")

	lf := logListCmd.Flags()
	lf.StringVar(&logFlags.book, "book", "", "Only sessions for this book")
	lf.StringVar(&listRange.from, "since", "", "First date, YYYY-MM-DD")
	lf.StringVar(&listRange.to, "until", "", "Last date, YYYY-MM-DD")
	lf.IntVarP(&logFlags.limit, "limit", "n", 50, "Maximum number of sessions to show (0 for all)")

	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logDeleteCmd)
}
