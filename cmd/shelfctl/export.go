package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline-server/internal/domain"
	"github.com/shelfline/shelfline-server/internal/service"
	"github.com/shelfline/shelfline-server/internal/store"
	"github.com/shelfline/shelfline-server/internal/validation"
)

func newExportCmd(dbPath *string) *cobra.Command {
	var (
		out    string
		genre  string
		shelf  int
		status string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to an xlsx workbook",
		Example: `  # Export everything, shelf-ordered, to a timestamped file
  shelfctl export

  # Export one shelf to a named file
  shelfctl export --shelf 12 --out shelf12.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, log, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			filter := store.BookFilter{Genre: genre, Shelf: shelf}
			if status != "" {
				parsed, err := domain.ParseSearchStatus(status)
				if err != nil {
					return err
				}
				filter.Status = parsed
			}

			svc := service.NewBookService(st, validation.New(), log.Logger)

			var buf bytes.Buffer
			filename, err := svc.ExportBooks(cmd.Context(), &buf, filter)
			if err != nil {
				return err
			}
			if out != "" {
				filename = out
			}

			if err := os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
				return err
			}

			fmt.Printf("Exported %d bytes to %s\n", buf.Len(), filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default: timestamped name)")
	cmd.Flags().StringVar(&genre, "genre", "", "filter by genre")
	cmd.Flags().IntVar(&shelf, "shelf", 0, "filter by shelf slot")
	cmd.Flags().StringVar(&status, "status", "", "filter by search status")

	return cmd
}
