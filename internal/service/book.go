// Package service implements the catalog's business workflows on top of the
// store and blob storage.
package service

import (
	"context"
	"fmt"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
	"github.com/inkshelf/inkshelf-server/internal/id"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/media/blobs"
	"github.com/inkshelf/inkshelf-server/internal/media/images"
	"github.com/inkshelf/inkshelf-server/internal/render"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
	"github.com/inkshelf/inkshelf-server/internal/validation"
)

// BookService manages the book write workflow: relational state, genre links,
// and cover blobs.
type BookService struct {
	store     *sqlite.Store
	blobs     *blobs.Storage
	validator *validation.Validator
	logger    *logger.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *sqlite.Store, blobStorage *blobs.Storage, validator *validation.Validator, log *logger.Logger) *BookService {
	return &BookService{
		store:     store,
		blobs:     blobStorage,
		validator: validator,
		logger:    log,
	}
}

// CreateBookInput carries everything needed to create a book.
// CoverData and CoverFilename are optional; when present they describe an
// uploaded cover image.
type CreateBookInput struct {
	Title         string   `json:"title" validate:"required,max=512"`
	Description   string   `json:"description" validate:"max=65536"`
	Year          int      `json:"year" validate:"required,gte=0,lte=2100"`
	Publisher     string   `json:"publisher" validate:"max=256"`
	Author        string   `json:"author" validate:"max=256"`
	Pages         int      `json:"pages" validate:"gte=0"`
	GenreIDs      []string `json:"genre_ids" validate:"max=32"`
	CoverData     []byte   `json:"-"`
	CoverFilename string   `json:"-"`
}

// UpdateBookInput carries a full replacement of a book's mutable fields.
// A nil CoverData leaves the existing cover untouched.
type UpdateBookInput struct {
	Title         string   `json:"title" validate:"required,max=512"`
	Description   string   `json:"description" validate:"max=65536"`
	Year          int      `json:"year" validate:"required,gte=0,lte=2100"`
	Publisher     string   `json:"publisher" validate:"max=256"`
	Author        string   `json:"author" validate:"max=256"`
	Pages         int      `json:"pages" validate:"gte=0"`
	GenreIDs      []string `json:"genre_ids" validate:"max=32"`
	CoverData     []byte   `json:"-"`
	CoverFilename string   `json:"-"`
}

// Create validates the input, writes the book with its genre links and cover
// row in one transaction, then writes the cover blob.
//
// The image is fully validated before anything is persisted, so an unsupported
// or corrupt upload leaves no trace. If the blob write fails after the
// transaction commits, the relational state is kept and a partial persistence
// error is returned; the record is valid and the blob can be recovered by
// re-uploading the same image.
func (s *BookService) Create(ctx context.Context, input CreateBookInput) (*domain.BookDetail, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if err := s.checkGenres(ctx, input.GenreIDs); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:       input.Title,
		Description: render.NormalizeDescription(input.Description),
		Year:        input.Year,
		Publisher:   input.Publisher,
		Author:      input.Author,
		Pages:       input.Pages,
	}
	book.ID = id.MustGenerate("book")
	book.InitTimestamps()

	cover, err := s.prepareCover(input.CoverData, input.CoverFilename)
	if err != nil {
		return nil, err
	}

	result, err := s.store.CreateBook(ctx, book, input.GenreIDs, cover)
	if err != nil {
		return nil, err
	}

	if err := s.writeCoverBlob(result, input.CoverData); err != nil {
		return nil, err
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	return s.detail(ctx, book)
}

// Get returns a book with its rendered description, genres, and cover.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.BookDetail, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, err
	}
	return s.detail(ctx, book)
}

// Update replaces a book's fields and genre links, optionally swapping its
// cover. A cover displaced by the update is garbage-collected if no other
// book references it.
func (s *BookService) Update(ctx context.Context, bookID string, input UpdateBookInput) (*domain.BookDetail, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if err := s.checkGenres(ctx, input.GenreIDs); err != nil {
		return nil, err
	}

	existing, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, err
	}

	book := &domain.Book{
		Entity:      existing.Entity,
		Title:       input.Title,
		Description: render.NormalizeDescription(input.Description),
		Year:        input.Year,
		Publisher:   input.Publisher,
		Author:      input.Author,
		Pages:       input.Pages,
	}
	book.Touch()

	cover, err := s.prepareCover(input.CoverData, input.CoverFilename)
	if err != nil {
		return nil, err
	}

	result, prevCoverID, err := s.store.UpdateBook(ctx, book, input.GenreIDs, cover)
	if err != nil {
		return nil, err
	}

	if err := s.writeCoverBlob(result, input.CoverData); err != nil {
		return nil, err
	}

	// The old cover may have lost its last reference.
	if prevCoverID != "" && prevCoverID != book.CoverID {
		s.collectCover(ctx, prevCoverID)
	}

	s.logger.Info("book updated", "book_id", book.ID)
	return s.detail(ctx, book)
}

// Delete removes a book, its reviews, and its genre links, then
// garbage-collects the cover if this was the last book using it.
//
// The blob is removed after the cover row; a crash in between leaves an
// orphan blob that the reconciliation sweep picks up later.
func (s *BookService) Delete(ctx context.Context, bookID string) error {
	coverID, err := s.store.DeleteBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NotFoundf("book %s not found", bookID)
		}
		return err
	}

	if coverID != "" {
		s.collectCover(ctx, coverID)
	}

	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}

// prepareCover processes the upload and builds the proposed cover row.
// Returns nil when no cover was uploaded.
func (s *BookService) prepareCover(data []byte, filename string) (*domain.Cover, error) {
	if len(data) == 0 {
		return nil, nil
	}

	processed, err := images.Process(data, filename)
	if err != nil {
		return nil, err
	}

	cover := &domain.Cover{
		MimeType:    processed.MimeType,
		ContentHash: processed.Hash,
		BlurHash:    processed.BlurHash,
	}
	cover.ID = id.MustGenerate("cover")
	cover.Key = fmt.Sprintf("%s.%s", cover.ID, processed.Ext)
	cover.InitTimestamps()
	return cover, nil
}

// writeCoverBlob persists the uploaded bytes after the transaction commits.
// Put is called even when the cover row was reused: the bytes are identical
// by content hash, so the write is a no-op when the blob is present and
// restores it when it went missing.
func (s *BookService) writeCoverBlob(result *sqlite.CoverResult, data []byte) error {
	if result == nil || len(data) == 0 {
		return nil
	}

	if err := s.blobs.Put(result.Key, data); err != nil {
		s.logger.Error("cover blob write failed after commit",
			"cover_id", result.CoverID, "key", result.Key, "error", err)
		return errors.PartialPersistence("book saved but cover image could not be stored").WithCause(err)
	}
	return nil
}

// collectCover deletes the cover row and blob if nothing references it
// anymore. Failures are logged, not returned; the reconciliation sweep
// retries them.
func (s *BookService) collectCover(ctx context.Context, coverID string) {
	deleted, key, err := s.store.DeleteCoverIfUnreferenced(ctx, coverID)
	if err != nil {
		s.logger.Warn("cover garbage collection failed", "cover_id", coverID, "error", err)
		return
	}
	if !deleted {
		return
	}
	if err := s.blobs.Delete(key); err != nil {
		s.logger.Warn("cover blob delete failed", "key", key, "error", err)
	}
}

// checkGenres verifies that every genre ID refers to an existing genre.
func (s *BookService) checkGenres(ctx context.Context, genreIDs []string) error {
	if len(genreIDs) == 0 {
		return nil
	}

	genres, err := s.store.GetGenresByIDs(ctx, genreIDs)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(genres))
	for _, g := range genres {
		known[g.ID] = true
	}
	for _, genreID := range genreIDs {
		if !known[genreID] {
			return errors.Validationf("unknown genre: %s", genreID)
		}
	}
	return nil
}

// detail resolves a book's associations for API responses.
func (s *BookService) detail(ctx context.Context, book *domain.Book) (*domain.BookDetail, error) {
	html, err := render.SafeHTML(book.Description)
	if err != nil {
		s.logger.Warn("description render failed", "book_id", book.ID, "error", err)
		html = ""
	}

	names, err := s.store.GetGenreNamesForBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	ids, err := s.store.GetGenreIDsForBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	reviewCount, err := s.store.CountReviewsForBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}

	detail := &domain.BookDetail{
		Book:            *book,
		DescriptionHTML: html,
		Genres:          orEmpty(names),
		GenreIDs:        orEmpty(ids),
		ReviewCount:     reviewCount,
	}

	if book.HasCover() {
		cover, err := s.store.GetCover(ctx, book.CoverID)
		if err == nil {
			detail.Cover = cover
		} else if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
	}

	return detail, nil
}

// orEmpty converts a nil slice to an empty one so JSON renders [] not null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
