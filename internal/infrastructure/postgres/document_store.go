package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/docstore"
)

const driverName = "postgres"

// Ensure DocumentStore implements repository.DocumentStore.
var _ repository.DocumentStore = (*DocumentStore)(nil)

// Querier lo implementan *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentStore documentos JSONB en la tabla documents. Las transacciones son
// SERIALIZABLE y se repiten completas ante 40001/40P01.
type DocumentStore struct {
	pool  *pgxpool.Pool
	retry docstore.RetryPolicy
}

// NewDocumentStore construye el store sobre el pool.
func NewDocumentStore(pool *pgxpool.Pool, maxAttempts int, observer docstore.RetryObserver) *DocumentStore {
	if observer == nil {
		observer = docstore.NopRetryObserver{}
	}
	return &DocumentStore{
		pool: pool,
		retry: docstore.RetryPolicy{
			MaxAttempts: maxAttempts,
			BaseDelay:   5 * time.Millisecond,
			Retryable:   isRetryable,
			OnRetry:     func(int, error) { observer.TransactionRetried(driverName) },
		},
	}
}

// EnsureSchema crea la tabla y el índice GIN si no existen.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema postgres: %w", err)
	}
	return nil
}

// Ping verifica la conexión (health check).
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close cierra el pool.
func (s *DocumentStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	return ops{q: s.pool}.get(ctx, collection, id)
}

func (s *DocumentStore) Query(ctx context.Context, q repository.Query) ([]repository.Document, error) {
	return ops{q: s.pool}.query(ctx, q)
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return ops{q: s.pool}.update(ctx, collection, id, fields)
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	return ops{q: s.pool}.set(ctx, collection, id, data)
}

// RunInTransaction inicia una transacción serializable, ejecuta fn y hace Commit o Rollback.
func (s *DocumentStore) RunInTransaction(ctx context.Context, fn func(tx repository.DocumentTx) error) error {
	return s.retry.Run(ctx, func() error { return s.runOnce(ctx, fn) })
}

func (s *DocumentStore) runOnce(ctx context.Context, fn func(tx repository.DocumentTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&documentTx{ops: ops{q: tx}}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type documentTx struct {
	ops
}

func (t *documentTx) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	return t.get(ctx, collection, id)
}

func (t *documentTx) Query(ctx context.Context, q repository.Query) ([]repository.Document, error) {
	return t.query(ctx, q)
}

func (t *documentTx) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return t.update(ctx, collection, id, fields)
}

func (t *documentTx) Set(ctx context.Context, collection, id string, data map[string]any) error {
	return t.set(ctx, collection, id, data)
}

func (t *documentTx) Create(ctx context.Context, collection, id string, data map[string]any) error {
	return t.create(ctx, collection, id, data)
}

func (t *documentTx) NewID(string) string {
	return docstore.NewID()
}

type ops struct {
	q Querier
}

func (o ops) get(ctx context.Context, collection, id string) (*repository.Document, error) {
	var raw []byte
	err := o.q.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s/%s: %w", collection, id, err)
	}
	data, err := docstore.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, err)
	}
	return &repository.Document{ID: id, Data: data}, nil
}

func (o ops) query(ctx context.Context, q repository.Query) ([]repository.Document, error) {
	stmt, args, err := buildQuery(q)
	if err != nil {
		return nil, err
	}
	rows, err := o.q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("consultar %s: %w", q.Collection, err)
	}
	defer rows.Close()

	var docs []repository.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Collection, err)
		}
		data, err := docstore.Decode(raw)
		if err != nil {
			data = map[string]any{}
		}
		docs = append(docs, repository.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar %s: %w", q.Collection, err)
	}
	return docs, nil
}

// update mezcla los campos con el operador || de jsonb (primer nivel).
func (o ops) update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := docstore.Encode(fields)
	if err != nil {
		return err
	}
	tag, err := o.q.Exec(ctx,
		`UPDATE documents SET data = data || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("actualizar %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return nil
}

func (o ops) set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := docstore.Encode(data)
	if err != nil {
		return err
	}
	_, err = o.q.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("guardar %s/%s: %w", collection, id, err)
	}
	return nil
}

func (o ops) create(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := docstore.Encode(data)
	if err != nil {
		return err
	}
	_, err = o.q.Exec(ctx,
		`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(raw))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrDuplicate)
		}
		return fmt.Errorf("crear %s/%s: %w", collection, id, err)
	}
	return nil
}

// buildQuery traduce los filtros de igualdad a un único predicado de contención jsonb (@>),
// que aprovecha el índice GIN jsonb_path_ops. Los filtros por elemento quedan como
// {"campo":[{"elem":valor}]}.
func buildQuery(q repository.Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	stmt := `SELECT id, data FROM documents WHERE collection = $1`
	args := []any{q.Collection}
	if len(q.Filters) > 0 {
		contains := make(map[string]any, len(q.Filters))
		for _, f := range q.Filters {
			if f.Elem == "" {
				contains[f.Field] = f.Value
				continue
			}
			// un arreglo contiene a otro si contiene cada uno de sus elementos
			elems, _ := contains[f.Field].([]any)
			contains[f.Field] = append(elems, map[string]any{f.Elem: f.Value})
		}
		raw, err := json.Marshal(contains)
		if err != nil {
			return "", nil, fmt.Errorf("codificar filtros: %w", err)
		}
		args = append(args, string(raw))
		stmt += ` AND data @> $2::jsonb`
	}
	stmt += ` ORDER BY id`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		stmt += ` LIMIT $` + strconv.Itoa(len(args))
	}
	return stmt, args, nil
}
