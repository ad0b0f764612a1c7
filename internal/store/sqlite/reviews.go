package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
)

// CreateReview inserts a review. The UNIQUE (book_id, user_id) constraint is
// the authority on duplicates; a violation maps to a conflict error so a
// concurrent double-submit cannot produce two reviews.
func (s *Store) CreateReview(ctx context.Context, review *domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, book_id, user_id, rating, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		review.ID,
		review.BookID,
		review.UserID,
		review.Rating,
		review.Text,
		formatTime(review.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("user has already reviewed this book")
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// ListReviewsForBook returns a book's reviews oldest first, each with the
// reviewer's name resolved. Reviews whose user row has been removed get the
// name "unknown".
func (s *Store) ListReviewsForBook(ctx context.Context, bookID string) ([]domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.book_id, r.user_id, r.rating, r.text, r.created_at,
			u.login, u.first_name, u.last_name
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.book_id = ?
		ORDER BY r.created_at ASC, r.id ASC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var (
			r         domain.Review
			createdAt string
			login     sql.NullString
			firstName sql.NullString
			lastName  sql.NullString
		)
		err := rows.Scan(
			&r.ID, &r.BookID, &r.UserID, &r.Rating, &r.Text, &createdAt,
			&login, &firstName, &lastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}

		r.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}

		if login.Valid {
			user := domain.User{
				Login:     login.String,
				FirstName: firstName.String,
				LastName:  lastName.String,
			}
			r.ReviewerName = user.DisplayName()
		} else {
			r.ReviewerName = "unknown"
		}

		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// CountReviewsForBook returns the number of reviews for a book.
func (s *Store) CountReviewsForBook(ctx context.Context, bookID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE book_id = ?`, bookID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return count, nil
}
