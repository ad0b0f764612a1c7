package domain

import "time"

// Rating bounds for reviews.
const (
	RatingMin = 1
	RatingMax = 5
)

// Review is one user's review of one book. At most one review exists per
// (book, user) pair.
type Review struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"` // sanitized markdown source
	CreatedAt time.Time `json:"created_at"`

	// ReviewerName is the resolved display name of the reviewer.
	// Populated on reads; "unknown" when the user no longer exists.
	ReviewerName string `json:"reviewer_name,omitempty"`
}

// RatingValid reports whether the rating is within the allowed scale.
func (r *Review) RatingValid() bool {
	return r.Rating >= RatingMin && r.Rating <= RatingMax
}
