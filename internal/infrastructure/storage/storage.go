// Package storage abre el store de documentos configurado (postgres o sqlite).
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/docstore"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Catalogo-api/pkg/config"
)

// Store store de documentos con las operaciones de mantenimiento.
type Store interface {
	repository.DocumentStore
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*postgres.DocumentStore)(nil)
	_ Store = (*sqlite.DocumentStore)(nil)
)

// Open conecta según cfg.Store.Driver y asegura el esquema. observer puede ser nil.
func Open(ctx context.Context, cfg *config.Config, observer docstore.RetryObserver) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, sqlite.Config{
			Path:        cfg.Store.SQLitePath,
			MaxAttempts: cfg.Store.TxMaxAttempts,
			BusyTimeout: cfg.Store.BusyTimeout,
		}, observer)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		store := postgres.NewDocumentStore(pool, cfg.Store.TxMaxAttempts, observer)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	}
	return nil, fmt.Errorf("storage: driver %q no soportado", cfg.Store.Driver)
}
