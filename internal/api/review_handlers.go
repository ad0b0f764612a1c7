package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/service"
)

func (s *Server) registerReviewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createReview",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{id}/reviews",
		Summary:       "Create review",
		Description:   "Records a review; each user may review a book once",
		Tags:          []string{"Reviews"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/reviews",
		Summary:     "List reviews",
		Description: "Returns a book's reviews oldest first with reviewer names",
		Tags:        []string{"Reviews"},
	}, s.handleListReviews)
}

// === DTOs ===

type ReviewRequest struct {
	UserID string `json:"user_id" minLength:"1" doc:"Reviewing user ID"`
	Rating int    `json:"rating" minimum:"1" maximum:"5" doc:"Rating on a 1-5 scale"`
	Text   string `json:"text,omitempty" doc:"Review text"`
}

type ReviewResponse struct {
	ID           string    `json:"id" doc:"Review ID"`
	BookID       string    `json:"book_id" doc:"Reviewed book ID"`
	Rating       int       `json:"rating" doc:"Rating on a 1-5 scale"`
	Text         string    `json:"text,omitempty" doc:"Review text"`
	ReviewerName string    `json:"reviewer_name" doc:"Display name of the reviewer"`
	CreatedAt    time.Time `json:"created_at" doc:"Submission time"`
}

type CreateReviewInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body ReviewRequest
}

type ReviewOutput struct {
	Body ReviewResponse
}

type ListReviewsInput struct {
	ID string `path:"id" doc:"Book ID"`
}

type ListReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews" doc:"Reviews oldest first"`
}

type ListReviewsOutput struct {
	Body ListReviewsResponse
}

// === Handlers ===

func (s *Server) handleCreateReview(ctx context.Context, input *CreateReviewInput) (*ReviewOutput, error) {
	review, err := s.services.Reviews.Create(ctx, input.ID, service.CreateReviewInput{
		UserID: input.Body.UserID,
		Rating: input.Body.Rating,
		Text:   input.Body.Text,
	})
	if err != nil {
		return nil, err
	}

	return &ReviewOutput{Body: mapReviewResponse(review)}, nil
}

func (s *Server) handleListReviews(ctx context.Context, input *ListReviewsInput) (*ListReviewsOutput, error) {
	reviews, err := s.services.Reviews.List(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		resp[i] = mapReviewResponse(&reviews[i])
	}

	return &ListReviewsOutput{Body: ListReviewsResponse{Reviews: resp}}, nil
}

// === Mappers ===

func mapReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		BookID:       r.BookID,
		Rating:       r.Rating,
		Text:         r.Text,
		ReviewerName: r.ReviewerName,
		CreatedAt:    r.CreatedAt,
	}
}
