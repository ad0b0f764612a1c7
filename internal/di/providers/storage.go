package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/inkshelf/inkshelf-server/internal/config"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/media/blobs"
	"github.com/inkshelf/inkshelf-server/internal/validation"
)

// ProvideBlobStorage provides the cover blob storage.
func ProvideBlobStorage(i do.Injector) (*blobs.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := blobs.NewStorage(cfg.Storage.DataPath)
	if err != nil {
		return nil, fmt.Errorf("cover storage: %w", err)
	}

	log.Info("Cover storage initialized", "path", cfg.Storage.DataPath)

	return storage, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
