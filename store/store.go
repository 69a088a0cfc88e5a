// Package store selects and constructs the configured docstore backend.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"

	"github.com/starfish/expenses-api/config"
	"github.com/starfish/expenses-api/docstore"
	"github.com/starfish/expenses-api/store/firestore"
	"github.com/starfish/expenses-api/store/memory"
	"github.com/starfish/expenses-api/store/sqlite"
)

// New builds the docstore.Store named by cfg.StoreBackend. The returned
// cleanup releases backend resources; it is always safe to call.
func New(ctx context.Context, cfg *config.Config) (docstore.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		creds, err := cfg.Firebase.ServiceAccountJSON()
		if err != nil {
			return nil, nil, fmt.Errorf("assemble service account credentials: %w", err)
		}
		fs, err := firestore.New(ctx, cfg.Firebase.ProjectID, option.WithCredentialsJSON(creds))
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Initialized Firestore backend", "project_id", cfg.Firebase.ProjectID)
		return fs, fs.Close, nil

	case config.BackendSQLite:
		db, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return db, db.Close, nil

	case config.BackendMemory:
		slog.Info("Initialized memory backend")
		return memory.New(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}
