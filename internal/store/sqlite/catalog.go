package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/inkshelf/inkshelf-server/internal/domain"
)

// CatalogPage is one page of the aggregated catalog listing.
type CatalogPage struct {
	Items      []domain.CatalogItem `json:"items"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalItems int                  `json:"total_items"`
	TotalPages int                  `json:"total_pages"`
}

// ListCatalogPage returns one page of the catalog: every book with its genre
// names, review aggregates, and cover metadata, folded into a single query.
//
// Books without genres, reviews, or covers still appear; the joins are LEFT
// so association absence never hides a book. AvgRating is NULL when a book
// has no reviews, it is never coerced to zero. Newest publication year first;
// within a year, insertion order.
func (s *Store) ListCatalogPage(ctx context.Context, page, pageSize int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			b.id,
			b.title,
			b.year,
			GROUP_CONCAT(DISTINCT g.name),
			ROUND(AVG(r.rating), 1),
			COUNT(DISTINCT r.id),
			c.key,
			c.mime_type,
			c.blur_hash
		FROM books b
		LEFT JOIN book_genres bg ON bg.book_id = b.id
		LEFT JOIN genres g ON g.id = bg.genre_id
		LEFT JOIN reviews r ON r.book_id = b.id
		LEFT JOIN covers c ON c.id = b.cover_id
		GROUP BY b.id
		ORDER BY b.year DESC, b.created_at ASC, b.id ASC
		LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0, pageSize)
	for rows.Next() {
		var (
			item      domain.CatalogItem
			genres    sql.NullString
			avgRating sql.NullFloat64
			coverKey  sql.NullString
			coverMime sql.NullString
			blurHash  sql.NullString
		)
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Year,
			&genres,
			&avgRating,
			&item.ReviewCount,
			&coverKey,
			&coverMime,
			&blurHash,
		)
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}

		if genres.Valid && genres.String != "" {
			item.Genres = strings.Split(genres.String, ",")
		} else {
			item.Genres = []string{}
		}
		if avgRating.Valid {
			rating := avgRating.Float64
			item.AvgRating = &rating
		}
		if coverKey.Valid {
			item.CoverKey = coverKey.String
		}
		if coverMime.Valid {
			item.CoverMime = coverMime.String
		}
		if blurHash.Valid {
			item.BlurHash = blurHash.String
		}

		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &CatalogPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}
