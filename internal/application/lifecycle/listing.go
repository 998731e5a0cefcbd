package lifecycle

import (
	"context"
	"iter"

	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// List devuelve los documentos del tipo según la visibilidad, en orden de id.
// filters agrega condiciones de igualdad (p. ej. rubro_id).
func (e *Engine) List(ctx context.Context, kind catalog.Kind, vis catalog.Visibility, filters ...repository.Filter) ([]repository.Document, error) {
	q := repository.Query{Collection: kind.Collection, Filters: filters}
	if inactive, ok := vis.InactiveFilter(); ok {
		q = q.Where(catalog.FieldInactive, inactive)
	}
	return e.store.Query(ctx, q)
}

// Valid recorre docs de forma perezosa y entrega solo los que decode acepta.
// Cada rechazo se informa a onSkip y no interrumpe la secuencia.
func Valid[T any](docs []repository.Document, decode func(repository.Document) (T, error), onSkip func(repository.Document, error)) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, d := range docs {
			v, err := decode(d)
			if err != nil {
				if onSkip != nil {
					onSkip(d, err)
				}
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}
