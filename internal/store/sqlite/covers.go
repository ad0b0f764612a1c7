package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
)

// coverColumns is the ordered list of columns selected in cover queries.
// Must match the scan order in scanCover.
const coverColumns = `id, created_at, updated_at, key, mime_type, content_hash, blur_hash`

// scanCover scans a sql.Row (or sql.Rows via its Scan method) into a domain.Cover.
func scanCover(scanner interface{ Scan(dest ...any) error }) (*domain.Cover, error) {
	var c domain.Cover

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&c.ID,
		&createdAt,
		&updatedAt,
		&c.Key,
		&c.MimeType,
		&c.ContentHash,
		&c.BlurHash,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetCover returns a cover by ID.
// Returns errors.ErrNotFound if the cover does not exist.
func (s *Store) GetCover(ctx context.Context, id string) (*domain.Cover, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+coverColumns+` FROM covers WHERE id = ?`, id)

	cover, err := scanCover(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cover: %w", err)
	}
	return cover, nil
}

// GetCoverByKey returns a cover by its storage key.
// Returns errors.ErrNotFound if no cover uses the key.
func (s *Store) GetCoverByKey(ctx context.Context, key string) (*domain.Cover, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+coverColumns+` FROM covers WHERE key = ?`, key)

	cover, err := scanCover(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cover by key: %w", err)
	}
	return cover, nil
}

// GetCoverByHash returns the cover whose content hash matches, if any.
// Returns errors.ErrNotFound when no cover has this content.
func (s *Store) GetCoverByHash(ctx context.Context, contentHash string) (*domain.Cover, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+coverColumns+` FROM covers WHERE content_hash = ?`, contentHash)

	cover, err := scanCover(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cover by hash: %w", err)
	}
	return cover, nil
}

// CountBooksForCover returns the number of books referencing a cover.
func (s *Store) CountBooksForCover(ctx context.Context, coverID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE cover_id = ?`, coverID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count books for cover: %w", err)
	}
	return count, nil
}

// DeleteCoverIfUnreferenced removes the cover row when no book references it.
// The reference check and the delete run in one transaction so a concurrent
// book create cannot slip a new reference in between.
// Returns whether the row was deleted and, if so, its storage key so the
// caller can remove the blob.
func (s *Store) DeleteCoverIfUnreferenced(ctx context.Context, coverID string) (bool, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, "", errors.Wrap(err, errors.CodeStorageTx, "begin transaction")
	}
	defer tx.Rollback()

	var key string
	err = tx.QueryRowContext(ctx,
		`SELECT key FROM covers WHERE id = ?`, coverID).Scan(&key)
	if err == sql.ErrNoRows {
		// Already gone; nothing to do.
		return false, "", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("get cover key: %w", err)
	}

	var refs int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE cover_id = ?`, coverID).Scan(&refs)
	if err != nil {
		return false, "", fmt.Errorf("count cover refs: %w", err)
	}
	if refs > 0 {
		return false, "", nil
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM covers WHERE id = ?`, coverID); err != nil {
		return false, "", fmt.Errorf("delete cover: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, "", errors.Wrap(err, errors.CodeStorageTx, "commit transaction")
	}
	return true, key, nil
}

// ListCovers returns all cover rows. Used by the reconciliation sweep.
func (s *Store) ListCovers(ctx context.Context) ([]*domain.Cover, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+coverColumns+` FROM covers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list covers: %w", err)
	}
	defer rows.Close()

	var covers []*domain.Cover
	for rows.Next() {
		cover, err := scanCover(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cover: %w", err)
		}
		covers = append(covers, cover)
	}
	return covers, rows.Err()
}

// resolveCoverTx finds or creates a cover row for the given content inside an
// existing transaction. When a row with the same content hash exists it is
// reused; otherwise the proposed row is inserted.
func resolveCoverTx(ctx context.Context, tx *sql.Tx, proposed *domain.Cover) (*CoverResult, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+coverColumns+` FROM covers WHERE content_hash = ?`, proposed.ContentHash)

	existing, err := scanCover(row)
	if err == nil {
		return &CoverResult{
			CoverID:  existing.ID,
			Key:      existing.Key,
			MimeType: existing.MimeType,
			Created:  false,
		}, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("lookup cover by hash: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO covers (id, created_at, updated_at, key, mime_type, content_hash, blur_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		proposed.ID,
		formatTime(proposed.CreatedAt),
		formatTime(proposed.UpdatedAt),
		proposed.Key,
		proposed.MimeType,
		proposed.ContentHash,
		proposed.BlurHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert cover: %w", err)
	}

	return &CoverResult{
		CoverID:  proposed.ID,
		Key:      proposed.Key,
		MimeType: proposed.MimeType,
		Created:  true,
	}, nil
}
