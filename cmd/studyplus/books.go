package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RHgrive/Study-Plus/internal/domain"
	"github.com/RHgrive/Study-Plus/internal/media/images"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage books",
}

var bookAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book",
	RunE: run(func(ctx context.Context, a *app) error {
		book := domain.Book{
			Title:      bookFlags.title,
			Subtitle:   bookFlags.subtitle,
			Subject:    bookFlags.subject,
			Difficulty: bookFlags.difficulty,
			Color:      bookFlags.color,
			Tags:       bookFlags.tags,
		}
		if bookFlags.pages > 0 {
			book.TotalPages = domain.IntPtr(bookFlags.pages)
		}
		if bookFlags.questions > 0 {
			book.TotalQuestions = domain.IntPtr(bookFlags.questions)
		}

		if bookFlags.cover != "" {
			coverID, err := storeImage(ctx, a, bookFlags.cover)
			if err != nil {
				return err
			}
			book.CoverImageID = coverID
		}

		created, err := a.state.AddBook(ctx, book)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(created)
		}
		fmt.Printf("Added book %s (%s)\n", created.ID, created.Title)
		return nil
	}),
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	RunE: run(func(ctx context.Context, a *app) error {
		books := a.state.Books()
		if bookFlags.subject != "" {
			var err error
			if books, err = a.store.BooksBySubject(ctx, bookFlags.subject); err != nil {
				return err
			}
		}

		if jsonOutput {
			return printJSON(books)
		}
		if len(books) == 0 {
			fmt.Println("No books.")
			return nil
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tTITLE\tSUBJECT\tDIFFICULTY\tPAGES\tQUESTIONS")
		for _, b := range books {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				b.ID, b.Title, b.Subject, b.Difficulty,
				optionalInt(b.TotalPages), optionalInt(b.TotalQuestions))
		}
		return w.Flush()
	}),
}

var bookDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a book; its logs are kept",
	Args:  cobra.ExactArgs(1),
	RunE: runArgs(func(ctx context.Context, a *app, args []string) error {
		if err := a.state.DeleteBook(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted book %s\n", args[0])
		return nil
	}),
}

var bookFlags struct {
	title, subtitle, subject, color, cover string
	difficulty, pages, questions           int
	tags                                   []string
}

// storeImage prepares the image at path and stores it, returning its id.
func storeImage(ctx context.Context, a *app, path string) (string, error) {
	img, err := images.PrepareFile(path)
	if err != nil {
		return "", err
	}
	if err := a.store.CreateImage(ctx, img); err != nil {
		return "", err
	}
	return img.ID, nil
}

func optionalInt(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func init() {
	f := bookAddCmd.Flags()
	f.StringVar(&bookFlags.title, "title", "", "Title")
	f.StringVar(&bookFlags.subtitle, "subtitle", "", "Subtitle")
	f.StringVar(&bookFlags.subject, "subject", "", "Subject")
	f.IntVar(&bookFlags.difficulty, "difficulty", 3, "Difficulty from 1 to 5")
	f.IntVar(&bookFlags.pages, "pages", 0, "Total pages")
	f.IntVar(&bookFlags.questions, "questions", 0, "Total questions")
	f.StringVar(&bookFlags.color, "color", "", "Colour as #rrggbb")
	f.StringVar(&bookFlags.cover, "cover", "", "Cover image file (jpeg, png, gif or webp)")
	f.StringSliceVar(&bookFlags.tags, "tag", nil, "Tag (repeatable)")
	_ = bookAddCmd.MarkFlagRequired("title")
	_ = bookAddCmd.MarkFlagRequired("subject")

	bookListCmd.Flags().StringVar(&bookFlags.subject, "subject", "", "Only books of this subject")

	bookCmd.AddCommand(bookAddCmd)
	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookDeleteCmd)
}
