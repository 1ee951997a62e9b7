package main

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCmd(dbPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			stats, err := st.GetStats(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return json.MarshalWrite(os.Stdout, stats)
			}

			fmt.Printf("Books:   %d\n", stats.TotalBooks)
			fmt.Printf("Authors: %d\n", stats.TotalAuthors)
			fmt.Printf("Genres:  %d\n", stats.TotalGenres)
			fmt.Printf("Shelves: %d\n", stats.TotalShelves)

			if len(stats.ByStatus) > 0 {
				fmt.Println("By status:")
				statuses := make([]string, 0, len(stats.ByStatus))
				for s := range stats.ByStatus {
					statuses = append(statuses, s)
				}
				sort.Strings(statuses)
				for _, s := range statuses {
					fmt.Printf("  %-10s %d\n", s, stats.ByStatus[s])
				}
			}

			if len(stats.ByShelf) > 0 {
				fmt.Println("By shelf:")
				shelves := make([]int, 0, len(stats.ByShelf))
				for s := range stats.ByShelf {
					shelves = append(shelves, s)
				}
				sort.Ints(shelves)
				for _, s := range shelves {
					fmt.Printf("  shelf %-4d %d\n", s, stats.ByShelf[s])
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print statistics as JSON")

	return cmd
}
