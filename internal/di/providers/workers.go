package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/inkshelf/inkshelf-server/internal/config"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/media/blobs"
	"github.com/inkshelf/inkshelf-server/internal/service"
)

// CoverReconcilerJob runs the periodic cover reconciliation sweep.
type CoverReconcilerJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *CoverReconcilerJob) Shutdown() error {
	if j.cancel != nil {
		j.cancel()
	}
	return nil
}

// ProvideCoverReconcilerJob provides the background sweep that removes
// unreferenced cover rows and orphaned blobs.
func ProvideCoverReconcilerJob(i do.Injector) (*CoverReconcilerJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	blobStorage := do.MustInvoke[*blobs.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Catalog.ReconcileInterval <= 0 {
		log.Info("Cover reconciliation disabled by configuration")
		return &CoverReconcilerJob{}, nil
	}

	reconciler := service.NewCoverReconciler(storeHandle.Store, blobStorage, cfg.Catalog.ReconcileInterval, log)

	ctx, cancel := context.WithCancel(context.Background())
	go reconciler.Run(ctx)

	log.Info("Cover reconciliation started", "interval", cfg.Catalog.ReconcileInterval)

	return &CoverReconcilerJob{cancel: cancel}, nil
}
