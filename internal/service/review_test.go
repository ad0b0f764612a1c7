package service

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
	"github.com/inkshelf/inkshelf-server/internal/id"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/validation"
)

func newReviewService(env *testEnv) *ReviewService {
	log := logger.New(logger.Config{Writer: os.Stderr})
	return NewReviewService(env.store, validation.New(), log)
}

func (e *testEnv) mustUser(t *testing.T, login, first, last string) string {
	t.Helper()
	u := domain.User{
		ID:        id.MustGenerate("user"),
		Login:     login,
		FirstName: first,
		LastName:  last,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), &u))
	return u.ID
}

func TestReviewServiceCreate(t *testing.T) {
	env := newTestEnv(t)
	reviews := newReviewService(env)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookInput{Title: "We", Year: 1924})
	require.NoError(t, err)
	userID := env.mustUser(t, "anna", "Anna", "Petrova")

	review, err := reviews.Create(ctx, book.ID, CreateReviewInput{
		UserID: userID,
		Rating: 5,
		Text:   "a <script>alert(1)</script> classic",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Petrova Anna", review.ReviewerName)
	// Markup is stripped before storage.
	assert.NotContains(t, review.Text, "<script>")
	assert.Contains(t, review.Text, "classic")
}

func TestReviewServiceDuplicateConflict(t *testing.T) {
	env := newTestEnv(t)
	reviews := newReviewService(env)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookInput{Title: "We", Year: 1924})
	require.NoError(t, err)
	userID := env.mustUser(t, "anna", "Anna", "Petrova")

	_, err = reviews.Create(ctx, book.ID, CreateReviewInput{UserID: userID, Rating: 4})
	require.NoError(t, err)

	_, err = reviews.Create(ctx, book.ID, CreateReviewInput{UserID: userID, Rating: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestReviewServiceRatingBounds(t *testing.T) {
	env := newTestEnv(t)
	reviews := newReviewService(env)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookInput{Title: "We", Year: 1924})
	require.NoError(t, err)
	userID := env.mustUser(t, "anna", "Anna", "Petrova")

	for _, rating := range []int{0, 6, -3} {
		_, err := reviews.Create(ctx, book.ID, CreateReviewInput{UserID: userID, Rating: rating})
		require.Error(t, err, "rating %d", rating)
		assert.True(t, errors.Is(err, errors.ErrValidation), "rating %d", rating)
	}
}

func TestReviewServiceUnknownBookAndUser(t *testing.T) {
	env := newTestEnv(t)
	reviews := newReviewService(env)
	ctx := context.Background()

	_, err := reviews.Create(ctx, "book-missing", CreateReviewInput{UserID: "user-x", Rating: 3})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	book, err := env.books.Create(ctx, CreateBookInput{Title: "We", Year: 1924})
	require.NoError(t, err)

	_, err = reviews.Create(ctx, book.ID, CreateReviewInput{UserID: "user-missing", Rating: 3})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = reviews.List(ctx, "book-missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestReviewServiceListEmpty(t *testing.T) {
	env := newTestEnv(t)
	reviews := newReviewService(env)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookInput{Title: "We", Year: 1924})
	require.NoError(t, err)

	got, err := reviews.List(ctx, book.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
