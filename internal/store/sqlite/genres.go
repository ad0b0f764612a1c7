package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
)

// ListGenres returns all genres ordered by name.
func (s *Store) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// GetGenresByIDs returns the genres matching the given IDs. Missing IDs are
// simply absent from the result; callers compare lengths to detect them.
func (s *Store) GetGenresByIDs(ctx context.Context, ids []string) ([]domain.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM genres WHERE id IN (`+placeholders+`) ORDER BY name`, args...)
	if err != nil {
		return nil, fmt.Errorf("get genres by ids: %w", err)
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// CreateGenre inserts a genre. Used by seeding and admin tooling; the
// catalog core treats genres as read-only reference data.
// Returns a conflict error when the name is already taken.
func (s *Store) CreateGenre(ctx context.Context, genre *domain.Genre) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO genres (id, name) VALUES (?, ?)`,
		genre.ID, genre.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflictf("genre %q already exists", genre.Name)
		}
		return fmt.Errorf("insert genre: %w", err)
	}
	return nil
}

// GetGenreNamesForBook returns the names of all genres linked to a book,
// ordered alphabetically.
func (s *Store) GetGenreNamesForBook(ctx context.Context, bookID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.name
		FROM genres g
		JOIN book_genres bg ON bg.genre_id = g.id
		WHERE bg.book_id = ?
		ORDER BY g.name`, bookID)
	if err != nil {
		return nil, fmt.Errorf("genres for book: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan genre name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetGenreIDsForBook returns the IDs of all genres linked to a book.
func (s *Store) GetGenreIDsForBook(ctx context.Context, bookID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT genre_id FROM book_genres WHERE book_id = ?`, bookID)
	if err != nil {
		return nil, fmt.Errorf("genre ids for book: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan genre id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
