// Package lifecycle implementa el ciclo de vida común a todas las entidades del catálogo:
// alta con verificación de unicidad, reactivación, actualización parcial, baja lógica con
// control de huérfanos y contadores de códigos.
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// Engine aplica el protocolo de alta/reactivación/conflicto sobre cualquier tipo de entidad.
// Es seguro para uso concurrente: todo el estado vive en el store.
type Engine struct {
	store    repository.DocumentStore
	guard    *OrphanGuard
	log      zerolog.Logger
	observer Observer
}

// NewEngine construye el motor. observer puede ser nil.
func NewEngine(store repository.DocumentStore, log zerolog.Logger, observer Observer) *Engine {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{
		store:    store,
		guard:    NewOrphanGuard(store),
		log:      log.With().Str("component", "lifecycle").Logger(),
		observer: observer,
	}
}

// Create da de alta un documento si su clave de negocio está libre. La clave debe venir
// normalizada en data[kind.KeyField]. Con la clave tomada devuelve *catalog.ConflictError:
// EXISTE_ACTIVO, o EXISTE_INACTIVO con el id reactivable. Para tipos con contador, el
// contador se crea en la misma transacción.
func (e *Engine) Create(ctx context.Context, kind catalog.Kind, data map[string]any) (repository.Document, error) {
	key, _ := data[kind.KeyField].(string)
	if key == "" {
		return repository.Document{}, domain.NewValidationError(kind.KeyField, "es requerido")
	}
	doc := make(map[string]any, len(data)+1)
	for k, v := range data {
		if k != catalog.FieldID {
			doc[k] = v
		}
	}
	doc[catalog.FieldInactive] = false

	var created repository.Document
	err := e.store.RunInTransaction(ctx, func(tx repository.DocumentTx) error {
		res, err := Resolve(ctx, tx, kind, key)
		if err != nil {
			return err
		}
		switch res.State {
		case ResolutionActive:
			return &catalog.ConflictError{Status: catalog.StatusExistsActive, Kind: kind.Name, Field: kind.KeyField, Key: key}
		case ResolutionInactive:
			return &catalog.ConflictError{
				Status:     catalog.StatusExistsInactive,
				Kind:       kind.Name,
				Field:      kind.KeyField,
				Key:        key,
				InactiveID: res.ExistingID,
			}
		}

		id := tx.NewID(kind.Collection)
		if err := tx.Create(ctx, kind.Collection, id, doc); err != nil {
			return err
		}
		if kind.Sequenced {
			counter := map[string]any{catalog.CounterValueField: 0}
			if err := tx.Create(ctx, catalog.CounterCollection, id, counter); err != nil {
				return fmt.Errorf("crear contador: %w", err)
			}
		}
		created = repository.Document{ID: id, Data: doc}
		return nil
	})
	e.record(kind, OpCreate, err)
	if err != nil {
		return repository.Document{}, err
	}
	e.log.Debug().Str("collection", kind.Collection).Str("id", created.ID).Str("key", key).Msg("alta")
	return created, nil
}

// Reactivate vuelve a activar un documento dado de baja, opcionalmente con campos nuevos
// (p. ej. nombre). Falla con EXISTE_ACTIVO si otro documento activo tomó la clave.
func (e *Engine) Reactivate(ctx context.Context, kind catalog.Kind, id string, fields map[string]any) (repository.Document, error) {
	if err := CheckMutable(kind, fields); err != nil {
		return repository.Document{}, err
	}
	err := e.store.RunInTransaction(ctx, func(tx repository.DocumentTx) error {
		cur, err := tx.Get(ctx, kind.Collection, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(kind, id)
		}
		if !isInactive(cur.Data) {
			return fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrAlreadyActive)
		}
		key, _ := cur.Data[kind.KeyField].(string)
		res, err := Resolve(ctx, tx, kind, key)
		if err != nil {
			return err
		}
		if res.State == ResolutionActive && res.ExistingID != id {
			return &catalog.ConflictError{Status: catalog.StatusExistsActive, Kind: kind.Name, Field: kind.KeyField, Key: key}
		}
		patch := make(map[string]any, len(fields)+1)
		for k, v := range fields {
			patch[k] = v
		}
		patch[catalog.FieldInactive] = false
		return tx.Update(ctx, kind.Collection, id, patch)
	})
	e.record(kind, OpReactivate, err)
	if err != nil {
		return repository.Document{}, err
	}
	return e.Get(ctx, kind, id)
}

// Update aplica una actualización parcial: solo se escriben los campos presentes.
// Clave de negocio, id y baja_logica no se modifican por esta vía. No re-verifica unicidad.
// Devuelve una lectura fresca posterior al commit.
func (e *Engine) Update(ctx context.Context, kind catalog.Kind, id string, fields map[string]any) (repository.Document, error) {
	if len(fields) == 0 {
		return repository.Document{}, fmt.Errorf("no hay datos para actualizar: %w", domain.ErrInvalidInput)
	}
	if err := CheckMutable(kind, fields); err != nil {
		return repository.Document{}, err
	}
	err := e.store.RunInTransaction(ctx, func(tx repository.DocumentTx) error {
		cur, err := tx.Get(ctx, kind.Collection, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(kind, id)
		}
		return tx.Update(ctx, kind.Collection, id, fields)
	})
	e.record(kind, OpUpdate, err)
	if err != nil {
		return repository.Document{}, err
	}
	return e.Get(ctx, kind, id)
}

// SoftDelete marca baja_logica=true. Antes consulta el OrphanGuard fuera de la transacción:
// una carrera con un alta concurrente de un hijo se tolera.
func (e *Engine) SoftDelete(ctx context.Context, kind catalog.Kind, id string) error {
	err := e.softDelete(ctx, kind, id)
	e.record(kind, OpSoftDelete, err)
	return err
}

func (e *Engine) softDelete(ctx context.Context, kind catalog.Kind, id string) error {
	cur, err := e.store.Get(ctx, kind.Collection, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return notFound(kind, id)
	}
	if isInactive(cur.Data) {
		return fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrAlreadyInactive)
	}
	if err := e.guard.Check(ctx, kind, id); err != nil {
		return err
	}
	return e.store.RunInTransaction(ctx, func(tx repository.DocumentTx) error {
		cur, err := tx.Get(ctx, kind.Collection, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return notFound(kind, id)
		}
		if isInactive(cur.Data) {
			return fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrAlreadyInactive)
		}
		return tx.Update(ctx, kind.Collection, id, map[string]any{catalog.FieldInactive: true})
	})
}

// NextCode incrementa el contador del dueño y devuelve el valor nuevo. Un dueño sin contador
// (datos heredados) arranca en 0.
func (e *Engine) NextCode(ctx context.Context, kind catalog.Kind, ownerID string) (int64, error) {
	if !kind.Sequenced {
		return 0, fmt.Errorf("%s no tiene contador: %w", kind.Name, domain.ErrInvalidInput)
	}
	var next int64
	err := e.store.RunInTransaction(ctx, func(tx repository.DocumentTx) error {
		owner, err := tx.Get(ctx, kind.Collection, ownerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return notFound(kind, ownerID)
		}
		counter, err := tx.Get(ctx, catalog.CounterCollection, ownerID)
		if err != nil {
			return err
		}
		var current int64
		if counter != nil {
			if current, err = intValue(counter.Data[catalog.CounterValueField]); err != nil {
				return fmt.Errorf("contador %s: %w", ownerID, err)
			}
		}
		next = current + 1
		return tx.Set(ctx, catalog.CounterCollection, ownerID, map[string]any{catalog.CounterValueField: next})
	})
	e.record(kind, OpNextCode, err)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Get lee un documento por id, activo o no.
func (e *Engine) Get(ctx context.Context, kind catalog.Kind, id string) (repository.Document, error) {
	doc, err := e.store.Get(ctx, kind.Collection, id)
	if err != nil {
		return repository.Document{}, err
	}
	if doc == nil {
		return repository.Document{}, notFound(kind, id)
	}
	return *doc, nil
}

// GetByKey lee por clave de negocio con la misma prioridad que Resolve.
func (e *Engine) GetByKey(ctx context.Context, kind catalog.Kind, key string) (repository.Document, error) {
	res, err := Resolve(ctx, e.store, kind, key)
	if err != nil {
		return repository.Document{}, err
	}
	if res.State == ResolutionNone {
		return repository.Document{}, fmt.Errorf("%s %s=%q: %w", kind.Name, kind.KeyField, key, domain.ErrNotFound)
	}
	return e.Get(ctx, kind, res.ExistingID)
}

// CheckMutable rechaza campos que no pueden escribirse por actualización parcial.
func CheckMutable(kind catalog.Kind, fields map[string]any) error {
	for f := range fields {
		if kind.ImmutableField(f) {
			return domain.NewValidationError(f, "no es modificable")
		}
	}
	return nil
}

func (e *Engine) record(kind catalog.Kind, op string, err error) {
	e.observer.Outcome(kind.Collection, op, OutcomeOf(op, err))
}

func notFound(kind catalog.Kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind.Name, id, domain.ErrNotFound)
}

func intValue(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("valor no numérico %T", v)
}
