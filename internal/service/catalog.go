package service

import (
	"context"

	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
)

// CatalogService serves the aggregated, paginated catalog listing.
type CatalogService struct {
	store    *sqlite.Store
	pageSize int
	logger   *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store *sqlite.Store, pageSize int, log *logger.Logger) *CatalogService {
	return &CatalogService{
		store:    store,
		pageSize: pageSize,
		logger:   log,
	}
}

// Page returns one page of the catalog. Page numbers start at 1; anything
// lower is clamped. A page past the end returns an empty item list.
func (s *CatalogService) Page(ctx context.Context, page int) (*sqlite.CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	return s.store.ListCatalogPage(ctx, page, s.pageSize)
}
