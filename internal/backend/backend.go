// Package backend selects the storage backend for a session.
package backend

import (
	"path/filepath"

	"github.com/charmbracelet/log"

	"todos/internal/backend/local"
	"todos/internal/backend/remote"
	"todos/internal/config"
	"todos/internal/kv"
	"todos/internal/logging"
	"todos/internal/service"
)

// Open returns the remote client when cfg names an API base, and the local
// store under cfg.DataDir otherwise. The choice is fixed for the session.
// A sqlite slot store stays open for the life of the process.
func Open(cfg *config.Config, logger *log.Logger) (service.Service, error) {
	logger = logging.OrDiscard(logger)

	if cfg.Mode == service.ModeRemote {
		logger.Debug("using remote backend", "base", cfg.APIBase)
		client, err := remote.New(cfg.APIBase,
			remote.WithToken(cfg.APIToken),
			remote.WithTimeout(cfg.RequestTimeout),
			remote.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	slots, err := OpenSlots(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("using local backend", "store", cfg.Store, "path", Location(cfg, local.DefaultKey))
	return local.New(slots, local.WithLogger(logger)), nil
}

// OpenSlots opens the local slot store selected by cfg.Store.
func OpenSlots(cfg *config.Config) (kv.Store, error) {
	if cfg.Store == config.StoreSQLite {
		db, err := kv.OpenSQLite(filepath.Join(cfg.DataDir, kv.DBFile))
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return kv.NewFileStore(cfg.DataDir), nil
}

// Location returns the file that holds key in the store selected by cfg.
func Location(cfg *config.Config, key string) string {
	if cfg.Store == config.StoreSQLite {
		return filepath.Join(cfg.DataDir, kv.DBFile)
	}
	return kv.NewFileStore(cfg.DataDir).Path(key)
}
