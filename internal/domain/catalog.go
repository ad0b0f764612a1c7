package domain

// CatalogItem is one row of the aggregated catalog listing.
type CatalogItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	AvgRating   *float64 `json:"avg_rating,omitempty"` // nil when the book has no reviews
	ReviewCount int      `json:"review_count"`
	CoverKey    string   `json:"cover_key,omitempty"`
	CoverMime   string   `json:"cover_mime,omitempty"`
	BlurHash    string   `json:"blur_hash,omitempty"`
}

// BookDetail is a single book plus its resolved associations.
// The aggregate rating is deliberately not included; callers compute it from
// the review list when they need it.
type BookDetail struct {
	Book
	DescriptionHTML string   `json:"description_html,omitempty"`
	Genres          []string `json:"genres"`
	GenreIDs        []string `json:"genre_ids"`
	Cover           *Cover   `json:"cover,omitempty"`
	ReviewCount     int      `json:"review_count"`
}
