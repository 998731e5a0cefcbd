package lifecycle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// Record entidad tipada que el servicio sabe validar.
type Record interface {
	Validate() error
}

// ErrMalformedDocument el documento persistido no se puede leer como la entidad.
var ErrMalformedDocument = errors.New("documento mal formado")

// Service expone el motor sobre un tipo concreto: convierte entidades a documentos y
// valida cada documento leído.
type Service[T Record] struct {
	engine *Engine
	kind   catalog.Kind
}

// NewService construye el servicio tipado para kind.
func NewService[T Record](engine *Engine, kind catalog.Kind) *Service[T] {
	return &Service[T]{engine: engine, kind: kind}
}

// Kind descriptor del tipo.
func (s *Service[T]) Kind() catalog.Kind { return s.kind }

// Create valida y da de alta rec. El id de rec se ignora.
func (s *Service[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := rec.Validate(); err != nil {
		return zero, err
	}
	data, err := toData(rec)
	if err != nil {
		return zero, err
	}
	doc, err := s.engine.Create(ctx, s.kind, data)
	if err != nil {
		return zero, err
	}
	return s.decode(doc)
}

// Get lee por id.
func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := s.engine.Get(ctx, s.kind, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.decode(doc)
}

// GetByKey lee por clave de negocio (ya normalizada).
func (s *Service[T]) GetByKey(ctx context.Context, key string) (T, error) {
	doc, err := s.engine.GetByKey(ctx, s.kind, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.decode(doc)
}

// List devuelve una secuencia perezosa de entidades válidas. Los documentos que no
// validan se omiten, se registran con nivel warn y se cuentan en el observer.
func (s *Service[T]) List(ctx context.Context, vis catalog.Visibility, filters ...repository.Filter) (iter.Seq[T], error) {
	docs, err := s.engine.List(ctx, s.kind, vis, filters...)
	if err != nil {
		return nil, err
	}
	return Valid(docs, s.decode, s.skipped), nil
}

// Update valida el resultado de aplicar fields sobre el documento actual y luego
// escribe solo fields.
func (s *Service[T]) Update(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T
	if err := CheckMutable(s.kind, fields); err != nil {
		return zero, err
	}
	if err := s.validatePatch(ctx, id, fields); err != nil {
		return zero, err
	}
	doc, err := s.engine.Update(ctx, s.kind, id, fields)
	if err != nil {
		return zero, err
	}
	return s.decode(doc)
}

// Reactivate reactiva un documento dado de baja; fields opcionales se escriben en la misma transacción.
func (s *Service[T]) Reactivate(ctx context.Context, id string, fields map[string]any) (T, error) {
	var zero T
	if err := CheckMutable(s.kind, fields); err != nil {
		return zero, err
	}
	if len(fields) > 0 {
		if err := s.validatePatch(ctx, id, fields); err != nil {
			return zero, err
		}
	}
	doc, err := s.engine.Reactivate(ctx, s.kind, id, fields)
	if err != nil {
		return zero, err
	}
	return s.decode(doc)
}

// SoftDelete da de baja por id.
func (s *Service[T]) SoftDelete(ctx context.Context, id string) error {
	return s.engine.SoftDelete(ctx, s.kind, id)
}

// NextCode incrementa el contador propio del documento id.
func (s *Service[T]) NextCode(ctx context.Context, id string) (int64, error) {
	return s.engine.NextCode(ctx, s.kind, id)
}

func (s *Service[T]) validatePatch(ctx context.Context, id string, fields map[string]any) error {
	cur, err := s.engine.Get(ctx, s.kind, id)
	if err != nil {
		return err
	}
	patch, err := toJSONMap(fields)
	if err != nil {
		return err
	}
	merged := make(map[string]any, len(cur.Data)+len(patch))
	for k, v := range cur.Data {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	_, err = s.decode(repository.Document{ID: id, Data: merged})
	if errors.Is(err, ErrMalformedDocument) {
		return fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	return err
}

func (s *Service[T]) decode(doc repository.Document) (T, error) {
	var rec T
	data := make(map[string]any, len(doc.Data)+1)
	for k, v := range doc.Data {
		data[k] = v
	}
	data[catalog.FieldID] = doc.ID
	raw, err := json.Marshal(data)
	if err != nil {
		return rec, fmt.Errorf("%s/%s: %w: %v", s.kind.Collection, doc.ID, ErrMalformedDocument, err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("%s/%s: %w: %v", s.kind.Collection, doc.ID, ErrMalformedDocument, err)
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *Service[T]) skipped(doc repository.Document, err error) {
	s.engine.log.Warn().
		Err(err).
		Str("collection", s.kind.Collection).
		Str("id", doc.ID).
		Msg("documento omitido en listado")
	s.engine.observer.DocumentSkipped(s.kind.Collection)
}

// toData convierte una entidad al mapa que se persiste, sin el campo id.
func toData(v any) (map[string]any, error) {
	data, err := toJSONMap(v)
	if err != nil {
		return nil, err
	}
	delete(data, catalog.FieldID)
	return data, nil
}

// toJSONMap normaliza v a tipos JSON (string, bool, json.Number, mapas y slices).
func toJSONMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codificar entidad: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("codificar entidad: %w", err)
	}
	return out, nil
}
