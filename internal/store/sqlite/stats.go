package sqlite

import (
	"context"
	"fmt"

	"github.com/shelfline/shelfline-server/internal/store"
)

// GetStats aggregates catalog counts in a handful of queries.
func (s *Store) GetStats(ctx context.Context) (*store.Stats, error) {
	stats := &store.Stats{
		Genres:   []string{},
		Shelves:  []int{},
		ByShelf:  make(map[int]int),
		ByStatus: make(map[string]int),
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT genre),
		       COUNT(DISTINCT shelf),
		       COUNT(DISTINCT author COLLATE NOCASE)
		FROM books`).Scan(
		&stats.TotalBooks,
		&stats.TotalGenres,
		&stats.TotalShelves,
		&stats.TotalAuthors,
	)
	if err != nil {
		return nil, fmt.Errorf("count stats: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT genre FROM books WHERE genre IS NOT NULL ORDER BY genre`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		stats.Genres = append(stats.Genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	shelfRows, err := s.db.QueryContext(ctx,
		`SELECT shelf, COUNT(*) FROM books WHERE shelf IS NOT NULL GROUP BY shelf ORDER BY shelf`)
	if err != nil {
		return nil, fmt.Errorf("shelf distribution: %w", err)
	}
	defer shelfRows.Close()
	for shelfRows.Next() {
		var shelf, count int
		if err := shelfRows.Scan(&shelf, &count); err != nil {
			return nil, err
		}
		stats.Shelves = append(stats.Shelves, shelf)
		stats.ByShelf[shelf] = count
	}
	if err := shelfRows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := s.db.QueryContext(ctx,
		`SELECT search_status, COUNT(*) FROM books GROUP BY search_status`)
	if err != nil {
		return nil, fmt.Errorf("status distribution: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	return stats, statusRows.Err()
}
