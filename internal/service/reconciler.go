package service

import (
	"context"
	"time"

	"github.com/inkshelf/inkshelf-server/internal/errors"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/media/blobs"
	"github.com/inkshelf/inkshelf-server/internal/store/sqlite"
)

// CoverReconciler periodically repairs the two known cover inconsistency
// states: cover rows left unreferenced by a crashed delete, and orphan blobs
// whose row is gone.
type CoverReconciler struct {
	store    *sqlite.Store
	blobs    *blobs.Storage
	interval time.Duration
	logger   *logger.Logger
}

// NewCoverReconciler creates a new reconciler.
func NewCoverReconciler(store *sqlite.Store, blobStorage *blobs.Storage, interval time.Duration, log *logger.Logger) *CoverReconciler {
	return &CoverReconciler{
		store:    store,
		blobs:    blobStorage,
		interval: interval,
		logger:   log,
	}
}

// Run sweeps on a ticker until the context is canceled. One sweep runs
// immediately on start.
func (r *CoverReconciler) Run(ctx context.Context) {
	r.logger.Info("cover reconciler started", "interval", r.interval)

	if err := r.Sweep(ctx); err != nil {
		r.logger.Warn("cover sweep failed", "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("cover reconciler stopped")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Warn("cover sweep failed", "error", err)
			}
		}
	}
}

// Sweep performs one reconciliation pass.
func (r *CoverReconciler) Sweep(ctx context.Context) error {
	covers, err := r.store.ListCovers(ctx)
	if err != nil {
		return err
	}

	live := make(map[string]bool, len(covers))
	removedRows := 0
	for _, cover := range covers {
		deleted, key, err := r.store.DeleteCoverIfUnreferenced(ctx, cover.ID)
		if err != nil {
			r.logger.Warn("reconcile cover failed", "cover_id", cover.ID, "error", err)
			continue
		}
		if deleted {
			removedRows++
			if err := r.blobs.Delete(key); err != nil {
				r.logger.Warn("reconcile blob delete failed", "key", key, "error", err)
			}
			continue
		}
		live[cover.Key] = true
		// A referenced cover without its image file needs a re-upload; the
		// sweep only reports it.
		if !r.blobs.Exists(cover.Key) {
			r.logger.Warn("cover blob missing", "cover_id", cover.ID, "key", cover.Key)
		}
	}

	removedBlobs, err := r.removeOrphanBlobs(ctx, live)
	if err != nil {
		return err
	}

	if removedRows > 0 || removedBlobs > 0 {
		r.logger.Info("cover sweep finished",
			"unreferenced_rows", removedRows, "orphan_blobs", removedBlobs)
	}
	return nil
}

// removeOrphanBlobs deletes blob files with no cover row. The live set comes
// from a snapshot taken before the blob listing, so a cover committed in
// between would be absent from it; each candidate key is re-checked against
// the store before its file is removed.
func (r *CoverReconciler) removeOrphanBlobs(ctx context.Context, live map[string]bool) (int, error) {
	keys, err := r.blobs.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if live[key] {
			continue
		}
		_, err := r.store.GetCoverByKey(ctx, key)
		if err == nil {
			// A cover row claimed this key after the snapshot.
			continue
		}
		if !errors.Is(err, errors.ErrNotFound) {
			r.logger.Warn("orphan blob check failed", "key", key, "error", err)
			continue
		}
		if err := r.blobs.Delete(key); err != nil {
			r.logger.Warn("orphan blob delete failed", "key", key, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
