//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Catalogo-api/pkg/config"
)

// Ejecutar con: DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/

// openStore conecta contra DATABASE_URL y devuelve una colección propia del test,
// que se borra al terminar.
func openStore(t *testing.T) (*postgres.DocumentStore, string) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL no definida")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 8}, "catalogo-integration")
	require.NoError(t, err)
	store := postgres.NewDocumentStore(pool, 20, nil)
	require.NoError(t, store.EnsureSchema(ctx))

	collection := "it_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM documents WHERE collection = $1`, collection)
		_ = store.Close()
	})
	return store, collection
}

func TestDocumentStoreIntegration_IdaYVuelta(t *testing.T) {
	store, collection := openStore(t)
	ctx := context.Background()

	var id string
	err := store.RunInTransaction(ctx, func(tx repository.DocumentTx) error {
		id = tx.NewID(collection)
		return tx.Create(ctx, collection, id, map[string]any{
			"sku": "KIT1", "baja_logica": false,
			"componentes_kit": []any{map[string]any{"producto_id": "p1", "cantidad": "2"}},
		})
	})
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, collection, id, map[string]any{"nombre": "Kit"}))
	doc, err := store.Get(ctx, collection, id)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "KIT1", doc.Data["sku"])
	assert.Equal(t, "Kit", doc.Data["nombre"])

	q := repository.Query{Collection: collection}.Where("baja_logica", false)
	found, err := store.Query(ctx, q.WhereElem("componentes_kit", "producto_id", "p1"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)

	none, err := store.Query(ctx, q.WhereElem("componentes_kit", "producto_id", "p2"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentStoreIntegration_CreateConcurrenteUnSoloGanador(t *testing.T) {
	store, collection := openStore(t)
	kind := catalog.Kind{
		Name:       "rubro",
		Collection: collection,
		KeyField:   "codigo",
		KeyMaxLen:  3,
		NameMaxLen: 30,
	}
	engine := lifecycle.NewEngine(store, zerolog.Nop(), nil)
	ctx := context.Background()
	const n = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := engine.Create(ctx, kind, map[string]any{"codigo": "GEN", "nombre": "General"})
			mu.Lock()
			defer mu.Unlock()
			var ce *catalog.ConflictError
			switch {
			case err == nil:
				created++
			case errors.As(err, &ce) && ce.Status == catalog.StatusExistsActive:
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)

	all, err := store.Query(ctx, repository.Query{Collection: collection}.Where("codigo", "GEN"))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
