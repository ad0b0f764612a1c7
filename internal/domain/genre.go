package domain

// Genre is static reference data; the catalog core never mutates genres.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
