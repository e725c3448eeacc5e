package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RHgrive/Study-Plus/internal/backup"
	"github.com/RHgrive/Study-Plus/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a full JSON backup",
	RunE: run(func(ctx context.Context, a *app) error {
		if dataFlags.out == "-" {
			_, err := a.backup.WriteTo(ctx, os.Stdout)
			return err
		}

		path := dataFlags.out
		if path == "" {
			path = backup.FileName(time.Now())
		}
		doc, err := a.backup.WriteFile(ctx, path)
		if err != nil {
			return err
		}

		c := doc.Counts()
		fmt.Fprintf(os.Stderr, "Exported %d books, %d plans, %d logs, %d images to %s\n",
			c.Books, c.Plans, c.Logs, c.Images, path)
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a JSON backup",
	Long: `Import a JSON backup.

--mode merge (default) keeps existing data: books with a title that already
exists and plans for dates that already have one are skipped.
--mode overwrite deletes everything first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := backup.ParseMode(dataFlags.mode)
		if err != nil {
			return err
		}
		if mode == backup.ModeOverwrite {
			if err := confirm("This deletes all existing data before importing."); err != nil {
				return err
			}
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open backup: %w", err)
		}
		defer f.Close()

		doc, err := backup.ReadDocument(f)
		if err != nil {
			return err
		}

		return run(func(ctx context.Context, a *app) error {
			result, err := a.backup.Import(ctx, doc, mode)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(result)
			}
			fmt.Printf("Imported %d books, %d plans, %d logs, %d images in %s\n",
				result.Imported.Books, result.Imported.Plans, result.Imported.Logs, result.Imported.Images,
				result.Duration.Round(time.Millisecond))
			if result.Skipped.Books+result.Skipped.Plans > 0 {
				fmt.Printf("Skipped %d existing books and %d existing plans\n", result.Skipped.Books, result.Skipped.Plans)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "warning: %s %s: %s\n", e.Kind, e.ID, e.Error)
			}
			return nil
		})(cmd, args)
	},
}

var exportCSVCmd = &cobra.Command{
	Use:   "export-csv",
	Short: "Write study sessions as CSV",
	RunE: run(func(ctx context.Context, a *app) error {
		var w io.Writer = os.Stdout
		path := dataFlags.out
		if path == "" {
			path = backup.CSVFileName(time.Now())
		}
		if path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create csv: %w", err)
			}
			defer f.Close()
			w = f
		}

		n, err := a.backup.ExportLogsCSV(ctx, w, dataFlags.from, dataFlags.to)
		if err != nil {
			return err
		}
		if path != "-" {
			fmt.Fprintf(os.Stderr, "Exported %d sessions to %s\n", n, path)
		}
		return nil
	}),
}

var footprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Show approximately how much storage the data uses",
	RunE: run(func(ctx context.Context, a *app) error {
		fp, err := a.store.StorageFootprint(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(fp)
		}

		w := newTable()
		fmt.Fprintf(w, "images\t%s\n", humanize.Bytes(uint64(fp.ImagesBytes)))
		fmt.Fprintf(w, "data\t%s\n", humanize.Bytes(uint64(fp.DataBytes)))
		fmt.Fprintf(w, "total\t%s\n", humanize.Bytes(uint64(fp.TotalBytes)))
		return w.Flush()
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset [COLLECTION]",
	Short: "Delete all data, or one collection (books, plans, logs, images, meta)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := store.AllKinds
		if len(args) == 1 {
			kind, err := store.ParseKind(args[0])
			if err != nil {
				return err
			}
			kinds = []store.Kind{kind}
		}

		what := "all data"
		if len(kinds) == 1 {
			what = "all " + string(kinds[0])
		}
		if err := confirm("This deletes " + what + "."); err != nil {
			return err
		}

		return run(func(ctx context.Context, a *app) error {
			for _, kind := range kinds {
				if err := a.store.Clear(ctx, kind); err != nil {
					return err
				}
			}
			if err := a.state.Reload(ctx); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", what)
			return nil
		})(cmd, args)
	},
}

var dataFlags struct {
	out, mode, from, to string
	yes                 bool
}

// confirm asks before a destructive command. Without a terminal on stdin the
// command must be run with --yes.
func confirm(warning string) error {
	if dataFlags.yes {
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("%s Re-run with --yes to confirm", warning)
	}

	fmt.Fprintf(os.Stderr, "%s Continue? [y/N] ", warning)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return fmt.Errorf("aborted")
	}
}

func init() {
	exportCmd.Flags().StringVarP(&dataFlags.out, "out", "o", "", "Output file, - for stdout (default studyplus-backup-DATE.json)")

	importCmd.Flags().StringVar(&dataFlags.mode, "mode", string(backup.ModeMerge), "merge or overwrite")
	importCmd.Flags().BoolVarP(&dataFlags.yes, "yes", "y", false, "Do not ask for confirmation")

	f := exportCSVCmd.Flags()
	f.StringVarP(&dataFlags.out, "out", "o", "", "Output file, - for stdout (default studyplus-logs-DATE.csv)")
	f.StringVar(&dataFlags.from, "since", "", "First date, YYYY-MM-DD")
	f.StringVar(&dataFlags.to, "until", "", "Last date, YYYY-MM-DD")

	resetCmd.Flags().BoolVarP(&dataFlags.yes, "yes", "y", false, "Do not ask for confirmation")
}
