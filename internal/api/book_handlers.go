package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Creates a book with genre links and an optional cover image",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its rendered description, genres, and cover",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces a book's fields and genre links, optionally swapping the cover",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Deletes a book, its reviews, genre links, and unshared cover",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)
}

// === DTOs ===

type BookRequest struct {
	Title         string   `json:"title" minLength:"1" maxLength:"512" doc:"Book title"`
	Description   string   `json:"description,omitempty" doc:"Description, markdown or HTML"`
	Year          int      `json:"year" minimum:"0" maximum:"2100" doc:"Publication year"`
	Publisher     string   `json:"publisher,omitempty" doc:"Publisher name"`
	Author        string   `json:"author,omitempty" doc:"Author name"`
	Pages         int      `json:"pages,omitempty" minimum:"0" doc:"Page count"`
	GenreIDs      []string `json:"genre_ids,omitempty" doc:"Genre IDs to link"`
	CoverData     []byte   `json:"cover_data,omitempty" doc:"Base64-encoded cover image"`
	CoverFilename string   `json:"cover_filename,omitempty" doc:"Original cover filename; the extension selects the format"`
}

type CoverInfo struct {
	ID       string `json:"id" doc:"Cover ID"`
	URL      string `json:"url" doc:"Path the image is served from"`
	MimeType string `json:"mime_type" doc:"Image MIME type"`
	BlurHash string `json:"blur_hash,omitempty" doc:"BlurHash placeholder"`
}

type BookResponse struct {
	ID              string     `json:"id" doc:"Book ID"`
	Title           string     `json:"title" doc:"Book title"`
	Description     string     `json:"description,omitempty" doc:"Description markdown source"`
	DescriptionHTML string     `json:"description_html,omitempty" doc:"Sanitized rendered description"`
	Year            int        `json:"year" doc:"Publication year"`
	Publisher       string     `json:"publisher,omitempty" doc:"Publisher name"`
	Author          string     `json:"author,omitempty" doc:"Author name"`
	Pages           int        `json:"pages,omitempty" doc:"Page count"`
	Genres          []string   `json:"genres" doc:"Genre names"`
	GenreIDs        []string   `json:"genre_ids" doc:"Genre IDs"`
	Cover           *CoverInfo `json:"cover,omitempty" doc:"Cover image, if any"`
	ReviewCount     int        `json:"review_count" doc:"Number of reviews"`
	CreatedAt       time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time  `json:"updated_at" doc:"Last update time"`
}

type CreateBookInput struct {
	Body BookRequest
}

type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body BookRequest
}

type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

type BookOutput struct {
	Body BookResponse
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	detail, err := s.services.Books.Create(ctx, service.CreateBookInput{
		Title:         input.Body.Title,
		Description:   input.Body.Description,
		Year:          input.Body.Year,
		Publisher:     input.Body.Publisher,
		Author:        input.Body.Author,
		Pages:         input.Body.Pages,
		GenreIDs:      input.Body.GenreIDs,
		CoverData:     input.Body.CoverData,
		CoverFilename: input.Body.CoverFilename,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(detail)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	detail, err := s.services.Books.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(detail)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	detail, err := s.services.Books.Update(ctx, input.ID, service.UpdateBookInput{
		Title:         input.Body.Title,
		Description:   input.Body.Description,
		Year:          input.Body.Year,
		Publisher:     input.Body.Publisher,
		Author:        input.Body.Author,
		Pages:         input.Body.Pages,
		GenreIDs:      input.Body.GenreIDs,
		CoverData:     input.Body.CoverData,
		CoverFilename: input.Body.CoverFilename,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(detail)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	if err := s.services.Books.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

// === Mappers ===

func mapBookResponse(d *domain.BookDetail) BookResponse {
	resp := BookResponse{
		ID:              d.ID,
		Title:           d.Title,
		Description:     d.Description,
		DescriptionHTML: d.DescriptionHTML,
		Year:            d.Year,
		Publisher:       d.Publisher,
		Author:          d.Author,
		Pages:           d.Pages,
		Genres:          d.Genres,
		GenreIDs:        d.GenreIDs,
		ReviewCount:     d.ReviewCount,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if d.Cover != nil {
		resp.Cover = &CoverInfo{
			ID:       d.Cover.ID,
			URL:      "/covers/" + d.Cover.Key,
			MimeType: d.Cover.MimeType,
			BlurHash: d.Cover.BlurHash,
		}
	}

	return resp
}
