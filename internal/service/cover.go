package service

import (
	"context"

	"github.com/inkshelf/inkshelf-server/internal/domain"
	"github.com/inkshelf/inkshelf-server/internal/errors"
	"github.com/inkshelf/inkshelf-server/internal/media/blobs"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
)

// CoverService serves cover image bytes by storage key.
type CoverService struct {
	store *sqlite.Store
	blobs *blobs.Storage
}

// NewCoverService creates a new cover service.
func NewCoverService(store *sqlite.Store, blobStorage *blobs.Storage) *CoverService {
	return &CoverService{
		store: store,
		blobs: blobStorage,
	}
}

// Get returns the cover row and its blob bytes for a storage key. The row is
// checked first so keys of deleted covers 404 even if an orphan blob still
// lingers on disk.
func (s *CoverService) Get(ctx context.Context, key string) (*domain.Cover, []byte, error) {
	cover, err := s.store.GetCoverByKey(ctx, key)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil, errors.NotFoundf("cover %s not found", key)
		}
		return nil, nil, err
	}

	data, err := s.blobs.Get(key)
	if err != nil {
		// Row exists but bytes are missing, a known partial persistence state.
		return nil, nil, errors.NotFoundf("cover %s has no stored image", key)
	}

	return cover, data, nil
}
