// Package domain contains the core business entities for the Inkshelf catalog.
package domain

// Book represents a printed book in the catalog.
//
// CoverID is a non-owning reference: many books may share one cover, and the
// cover's lifetime is governed by its reference count, not by any single book.
type Book struct {
	Entity
	Title       string `json:"title"`
	Description string `json:"description,omitempty"` // markdown source, rendered on read
	Year        int    `json:"year"`
	Publisher   string `json:"publisher,omitempty"`
	Author      string `json:"author,omitempty"`
	Pages       int    `json:"pages,omitempty"`
	CoverID     string `json:"cover_id,omitempty"`
}

// HasCover reports whether the book references a cover.
func (b *Book) HasCover() bool {
	return b.CoverID != ""
}
