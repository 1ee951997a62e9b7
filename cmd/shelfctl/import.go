package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/shelfline/shelfline-server/internal/enrich"
	"github.com/shelfline/shelfline-server/internal/importer"
	"github.com/shelfline/shelfline-server/internal/metadata/googlebooks"
)

func newImportCmd(dbPath *string) *cobra.Command {
	var (
		autoEnhance   bool
		enhancePacing time.Duration
	)

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Bulk import books from a spreadsheet",
		Long: `Imports book records from an xlsx or csv file.

The sheet must have title and author columns; isbn, barcode, shelf and
genre columns are optional. Duplicate records and rows with errors are
skipped and reported.`,
		Example: `  # Import a spreadsheet
  shelfctl import books.xlsx

  # Import and immediately look up metadata for each record
  shelfctl import books.csv --auto-enhance`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			st, log, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			var orchestrator *enrich.Orchestrator
			if autoEnhance {
				client := googlebooks.NewClient(log.Logger)
				defer client.Close()
				orchestrator = enrich.NewOrchestrator(st, client, log.Logger, enrich.Options{})
			}

			limiter := rate.NewLimiter(rate.Every(enhancePacing), 1)
			imp := importer.New(st, orchestrator, log.Logger, limiter)

			summary, err := imp.Import(cmd.Context(), filepath.Base(path), f, autoEnhance)
			if err != nil {
				return err
			}

			fmt.Println(summary.Message)
			fmt.Printf("  processed:  %d\n", summary.BooksProcessed)
			fmt.Printf("  duplicates: %d\n", summary.DuplicatesFound)
			if autoEnhance {
				fmt.Printf("  enhanced:   %d\n", summary.AutoEnhanced)
			}
			for _, rowErr := range summary.Errors {
				fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoEnhance, "auto-enhance", false, "look up external metadata for each imported record")
	cmd.Flags().DurationVar(&enhancePacing, "enhance-pacing", time.Second, "minimum spacing between external lookups")

	return cmd
}
