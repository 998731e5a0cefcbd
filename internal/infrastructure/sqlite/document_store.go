// Package sqlite implementa el store de documentos sobre SQLite embebido (modernc.org/sqlite).
// Se usa en desarrollo local, en el CLI y en los tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/docstore"
)

const driverName = "sqlite"

// Ensure DocumentStore implements repository.DocumentStore.
var _ repository.DocumentStore = (*DocumentStore)(nil)

// Config opciones del store SQLite.
type Config struct {
	Path        string
	MaxAttempts int
	BusyTimeout time.Duration
}

// DocumentStore guarda documentos JSON en una tabla única. Usa una sola conexión:
// las transacciones quedan serializadas y se inician con BEGIN IMMEDIATE.
type DocumentStore struct {
	db    *sql.DB
	retry docstore.RetryPolicy
}

// Open abre (o crea) la base en cfg.Path y asegura el esquema.
func Open(ctx context.Context, cfg Config, observer docstore.RetryObserver) (*DocumentStore, error) {
	if cfg.Path == "" {
		cfg.Path = "catalogo.db"
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if observer == nil {
		observer = docstore.NopRetryObserver{}
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("crear directorio de la base: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_txlock=immediate",
		cfg.Path, cfg.BusyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &DocumentStore{
		db: db,
		retry: docstore.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			BaseDelay:   10 * time.Millisecond,
			Retryable:   isBusy,
			OnRetry:     func(int, error) { observer.TransactionRetried(driverName) },
		},
	}
	if err := s.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close libera la conexión.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

// Ping verifica la conexión (health check).
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// EnsureSchema crea la tabla de documentos si no existe.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema sqlite: %w", err)
	}
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	return ops{q: s.db}.get(ctx, collection, id)
}

func (s *DocumentStore) Query(ctx context.Context, q repository.Query) ([]repository.Document, error) {
	return ops{q: s.db}.query(ctx, q)
}

// Update lee y mezcla dentro de su propia transacción.
func (s *DocumentStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.RunInTransaction(ctx, func(tx repository.DocumentTx) error {
		return tx.Update(ctx, collection, id, fields)
	})
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	return ops{q: s.db}.set(ctx, collection, id, data)
}

// RunInTransaction ejecuta fn en una transacción inmediata; reintenta si la base está ocupada.
// Dentro de fn solo debe usarse tx: el pool tiene una única conexión.
func (s *DocumentStore) RunInTransaction(ctx context.Context, fn func(tx repository.DocumentTx) error) error {
	return s.retry.Run(ctx, func() error { return s.runOnce(ctx, fn) })
}

func (s *DocumentStore) runOnce(ctx context.Context, fn func(tx repository.DocumentTx) error) (err error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()
	if err = fn(&documentTx{ops: ops{q: sqlTx}}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}

// documentTx vista transaccional.
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

// querier lo implementan *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ops struct {
	q querier
}

func (o ops) get(ctx context.Context, collection, id string) (*repository.Document, error) {
	var raw string
	err := o.q.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s/%s: %w", collection, id, err)
	}
	data, err := docstore.Decode([]byte(raw))
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
	rows, err := o.q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("consultar %s: %w", q.Collection, err)
	}
	defer rows.Close()

	var docs []repository.Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", q.Collection, err)
		}
		data, err := docstore.Decode([]byte(raw))
		if err != nil {
			// El documento se entrega vacío; el filtro de listado lo descarta al validar.
			data = map[string]any{}
		}
		docs = append(docs, repository.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar %s: %w", q.Collection, err)
	}
	return docs, nil
}

func (o ops) update(ctx context.Context, collection, id string, fields map[string]any) error {
	current, err := o.get(ctx, collection, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	raw, err := docstore.Encode(docstore.Merge(current.Data, fields))
	if err != nil {
		return err
	}
	if _, err := o.q.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = `+nowSQL+` WHERE collection = ? AND id = ?`,
		string(raw), collection, id); err != nil {
		return fmt.Errorf("actualizar %s/%s: %w", collection, id, err)
	}
	return nil
}

func (o ops) set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := docstore.Encode(data)
	if err != nil {
		return err
	}
	if _, err := o.q.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = `+nowSQL,
		collection, id, string(raw)); err != nil {
		return fmt.Errorf("guardar %s/%s: %w", collection, id, err)
	}
	return nil
}

func (o ops) create(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := docstore.Encode(data)
	if err != nil {
		return err
	}
	if _, err := o.q.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(raw)); err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrDuplicate)
		}
		return fmt.Errorf("crear %s/%s: %w", collection, id, err)
	}
	return nil
}

// buildQuery arma el SELECT con un json_extract por filtro, o un EXISTS sobre json_each
// para los filtros por elemento. Los booleanos se comparan como 0/1 porque así los
// devuelve json_extract.
func buildQuery(q repository.Query) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}
	var b strings.Builder
	b.WriteString(`SELECT id, data FROM documents WHERE collection = ?`)
	args := []any{q.Collection}
	for _, f := range q.Filters {
		if f.Elem != "" {
			b.WriteString(` AND EXISTS (SELECT 1 FROM json_each(data, ?) WHERE json_extract(value, ?) = ?)`)
			args = append(args, "$."+f.Field, "$."+f.Elem, bindValue(f.Value))
			continue
		}
		b.WriteString(` AND json_extract(data, ?) = ?`)
		args = append(args, "$."+f.Field, bindValue(f.Value))
	}
	b.WriteString(` ORDER BY id`)
	if q.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}
	return b.String(), args, nil
}

func bindValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() & 0xff, true
	}
	return 0, false
}

// isBusy reporta si el error es transitorio por bloqueo de la base.
func isBusy(err error) bool {
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED)
}

func isConstraint(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT
}
