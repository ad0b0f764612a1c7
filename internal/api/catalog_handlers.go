package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkshelf/inkshelf-server/internal/domain"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog",
		Summary:     "List catalog",
		Description: "Returns one page of the catalog with genres, ratings, and cover metadata aggregated per book",
		Tags:        []string{"Catalog"},
	}, s.handleListCatalog)
}

// === DTOs ===

type ListCatalogInput struct {
	Page int `query:"page" minimum:"1" default:"1" doc:"Page number, 1-based"`
}

type CatalogItemResponse struct {
	ID          string   `json:"id" doc:"Book ID"`
	Title       string   `json:"title" doc:"Book title"`
	Year        int      `json:"year" doc:"Publication year"`
	Genres      []string `json:"genres" doc:"Genre names"`
	AvgRating   *float64 `json:"avg_rating,omitempty" doc:"Average rating to one decimal; absent when unreviewed"`
	ReviewCount int      `json:"review_count" doc:"Number of reviews"`
	CoverURL    string   `json:"cover_url,omitempty" doc:"Path the cover is served from"`
	CoverMime   string   `json:"cover_mime,omitempty" doc:"Cover MIME type"`
	BlurHash    string   `json:"blur_hash,omitempty" doc:"BlurHash placeholder"`
}

type CatalogPageResponse struct {
	Items      []CatalogItemResponse `json:"items" doc:"Catalog entries for this page"`
	Page       int                   `json:"page" doc:"Current page"`
	PageSize   int                   `json:"page_size" doc:"Items per page"`
	TotalItems int                   `json:"total_items" doc:"Total books in the catalog"`
	TotalPages int                   `json:"total_pages" doc:"Total pages"`
}

type CatalogOutput struct {
	Body CatalogPageResponse
}

// === Handlers ===

func (s *Server) handleListCatalog(ctx context.Context, input *ListCatalogInput) (*CatalogOutput, error) {
	page, err := s.services.Catalog.Page(ctx, input.Page)
	if err != nil {
		return nil, err
	}

	items := make([]CatalogItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = mapCatalogItem(item)
	}

	return &CatalogOutput{Body: CatalogPageResponse{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}}, nil
}

// === Mappers ===

func mapCatalogItem(item domain.CatalogItem) CatalogItemResponse {
	resp := CatalogItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Year:        item.Year,
		Genres:      item.Genres,
		AvgRating:   item.AvgRating,
		ReviewCount: item.ReviewCount,
		CoverMime:   item.CoverMime,
		BlurHash:    item.BlurHash,
	}
	if item.CoverKey != "" {
		resp.CoverURL = "/covers/" + item.CoverKey
	}
	return resp
}
