package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns all genres ordered by name",
		Tags:        []string{"Genres"},
	}, s.handleListGenres)
}

// === DTOs ===

type GenreResponse struct {
	ID   string `json:"id" doc:"Genre ID"`
	Name string `json:"name" doc:"Genre name"`
}

type ListGenresResponse struct {
	Genres []GenreResponse `json:"genres" doc:"List of genres"`
}

type ListGenresOutput struct {
	Body ListGenresResponse
}

// === Handlers ===

func (s *Server) handleListGenres(ctx context.Context, _ *struct{}) (*ListGenresOutput, error) {
	genres, err := s.services.Genres.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]GenreResponse, len(genres))
	for i, g := range genres {
		resp[i] = GenreResponse{ID: g.ID, Name: g.Name}
	}

	return &ListGenresOutput{Body: ListGenresResponse{Genres: resp}}, nil
}
