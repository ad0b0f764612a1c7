package service

import (
	"context"
	"time"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
	"github.com/inkshelf/inkshelf-server/internal/id"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/render"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
	"github.com/inkshelf/inkshelf-server/internal/validation"
)

// ReviewService manages book reviews.
type ReviewService struct {
	store     *sqlite.Store
	validator *validation.Validator
	logger    *logger.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(store *sqlite.Store, validator *validation.Validator, log *logger.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		validator: validator,
		logger:    log,
	}
}

// CreateReviewInput carries a new review submission.
type CreateReviewInput struct {
	UserID string `json:"user_id" validate:"required"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"max=16384"`
}

// Create records a review for a book. Each user may review a book at most
// once; the database constraint is the final arbiter under concurrency.
func (s *ReviewService) Create(ctx context.Context, bookID string, input CreateReviewInput) (*domain.Review, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, err
	}
	user, err := s.store.GetUser(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Validationf("unknown user: %s", input.UserID)
		}
		return nil, err
	}

	review := &domain.Review{
		ID:        id.MustGenerate("review"),
		BookID:    bookID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Text:      render.SanitizeText(input.Text),
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	review.ReviewerName = user.DisplayName()
	s.logger.Info("review created", "book_id", bookID, "user_id", input.UserID, "rating", input.Rating)
	return review, nil
}

// List returns a book's reviews oldest first with reviewer names resolved.
func (s *ReviewService) List(ctx context.Context, bookID string) ([]domain.Review, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, err
	}

	reviews, err := s.store.ListReviewsForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
