package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, description, year,
	publisher, author, pages, cover_id`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt string
		updatedAt string
		coverID   sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&b.Description,
		&b.Year,
		&b.Publisher,
		&b.Author,
		&b.Pages,
		&coverID,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if coverID.Valid {
		b.CoverID = coverID.String
	}

	return &b, nil
}

// CoverResult describes how a cover upload was resolved during a book write.
// Created is true when a new cover row was inserted; the caller must then
// write the blob under Key. When false an existing cover was reused and the
// blob already exists.
type CoverResult struct {
	CoverID  string
	Key      string
	MimeType string
	Created  bool
}

// CreateBook inserts a book, its genre links, and optionally resolves a cover
// upload in a single transaction. The proposed cover carries a fresh ID and
// key; when a cover with identical content already exists it is reused and
// the proposed row is discarded.
//
// Only relational state is written here. Blob bytes are the caller's job,
// after this returns.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book, genreIDs []string, cover *domain.Cover) (*CoverResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageTx, "begin transaction")
	}
	defer tx.Rollback()

	var result *CoverResult
	if cover != nil {
		result, err = resolveCoverTx(ctx, tx, cover)
		if err != nil {
			return nil, err
		}
		book.CoverID = result.CoverID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (id, created_at, updated_at, title, description, year,
			publisher, author, pages, cover_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.Description,
		book.Year,
		book.Publisher,
		book.Author,
		book.Pages,
		nullString(book.CoverID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	if err := insertGenreLinksTx(ctx, tx, book.ID, genreIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStorageTx, "commit transaction")
	}
	return result, nil
}

// GetBook returns a book by ID.
// Returns errors.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// UpdateBook rewrites a book's fields, replaces its genre links, and
// optionally resolves a new cover upload, all in one transaction. The genre
// link set is replaced wholesale: existing links are deleted and the given
// set inserted.
//
// Returns the cover resolution (nil when cover is nil) and the book's
// previous cover ID so the caller can garbage-collect it if it became
// unreferenced.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book, genreIDs []string, cover *domain.Cover) (*CoverResult, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CodeStorageTx, "begin transaction")
	}
	defer tx.Rollback()

	var prevCoverID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT cover_id FROM books WHERE id = ?`, book.ID).Scan(&prevCoverID)
	if err == sql.ErrNoRows {
		return nil, "", errors.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("get previous cover: %w", err)
	}

	var result *CoverResult
	if cover != nil {
		result, err = resolveCoverTx(ctx, tx, cover)
		if err != nil {
			return nil, "", err
		}
		book.CoverID = result.CoverID
	} else if prevCoverID.Valid {
		book.CoverID = prevCoverID.String
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE books
		SET updated_at = ?, title = ?, description = ?, year = ?,
			publisher = ?, author = ?, pages = ?, cover_id = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		book.Description,
		book.Year,
		book.Publisher,
		book.Author,
		book.Pages,
		nullString(book.CoverID),
		book.ID,
	)
	if err != nil {
		return nil, "", fmt.Errorf("update book: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM book_genres WHERE book_id = ?`, book.ID); err != nil {
		return nil, "", fmt.Errorf("delete book_genres: %w", err)
	}
	if err := insertGenreLinksTx(ctx, tx, book.ID, genreIDs); err != nil {
		return nil, "", err
	}

	if err := tx.Commit(); err != nil {
		return nil, "", errors.Wrap(err, errors.CodeStorageTx, "commit transaction")
	}

	var prev string
	if prevCoverID.Valid {
		prev = prevCoverID.String
	}
	return result, prev, nil
}

// DeleteBook removes a book along with its reviews and genre links in one
// transaction. Returns the book's cover ID (empty when it had none) so the
// caller can garbage-collect the cover.
// Returns errors.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeStorageTx, "begin transaction")
	}
	defer tx.Rollback()

	var coverID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT cover_id FROM books WHERE id = ?`, id).Scan(&coverID)
	if err == sql.ErrNoRows {
		return "", errors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get book cover: %w", err)
	}

	// Children first so the FKs stay satisfied throughout.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reviews WHERE book_id = ?`, id); err != nil {
		return "", fmt.Errorf("delete reviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM book_genres WHERE book_id = ?`, id); err != nil {
		return "", fmt.Errorf("delete book_genres: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM books WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("delete book: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, errors.CodeStorageTx, "commit transaction")
	}

	if coverID.Valid {
		return coverID.String, nil
	}
	return "", nil
}

// insertGenreLinksTx inserts one link row per genre ID. A genre ID that does
// not exist surfaces as a foreign key violation mapped to a validation error.
func insertGenreLinksTx(ctx context.Context, tx *sql.Tx, bookID string, genreIDs []string) error {
	for _, genreID := range genreIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO book_genres (book_id, genre_id) VALUES (?, ?)`,
			bookID, genreID)
		if err != nil {
			if isUniqueViolation(err) {
				// Duplicate genre in the input set; first link wins.
				continue
			}
			return fmt.Errorf("insert book_genre: %w", err)
		}
	}
	return nil
}
