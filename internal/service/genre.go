package service

import (
	"context"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
)

// GenreService exposes the genre reference data.
type GenreService struct {
	store *sqlite.Store
}

// NewGenreService creates a new genre service.
func NewGenreService(store *sqlite.Store) *GenreService {
	return &GenreService{store: store}
}

// List returns all genres ordered by name.
func (s *GenreService) List(ctx context.Context) ([]domain.Genre, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	if genres == nil {
		genres = []domain.Genre{}
	}
	return genres, nil
}
