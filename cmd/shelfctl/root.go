package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline-server/internal/logger"
	"github.com/shelfline/shelfline-server/internal/store/sqlite"
)

func newRootCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "shelfctl",
		Short: "Administrative tool for the Shelfline book catalog",
		Long: `Shelfctl operates directly on the catalog database without a running server.

It imports spreadsheets, exports the catalog to xlsx, and reports catalog statistics.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "data/catalog.db", "path to the catalog database")

	cmd.AddCommand(newImportCmd(&dbPath))
	cmd.AddCommand(newExportCmd(&dbPath))
	cmd.AddCommand(newStatsCmd(&dbPath))

	return cmd
}

// openStore opens the catalog database for a one-shot command.
// Writes are not mirrored into the search index; the server rebuilds
// an empty index from the database on startup.
func openStore(dbPath string) (*sqlite.Store, *logger.Logger, error) {
	log := logger.New(logger.Config{Level: slog.LevelWarn})
	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, nil, err
	}
	return st, log, nil
}
