package lifecycle

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// OrphanGuard impide dar de baja una entidad mientras alguna colección dependiente
// tenga documentos activos que la referencien.
type OrphanGuard struct {
	reader repository.DocumentReader
}

// NewOrphanGuard construye el guard sobre un lector del store.
func NewOrphanGuard(reader repository.DocumentReader) *OrphanGuard {
	return &OrphanGuard{reader: reader}
}

// Check devuelve *catalog.BlockedError con las colecciones que bloquean la baja, o nil.
func (g *OrphanGuard) Check(ctx context.Context, kind catalog.Kind, id string) error {
	var blocking []string
	for _, dep := range kind.Dependents {
		q := repository.Query{Collection: dep.Collection, Limit: 1}.Where(catalog.FieldInactive, false)
		if dep.Elem != "" {
			q = q.WhereElem(dep.Field, dep.Elem, id)
		} else {
			q = q.Where(dep.Field, id)
		}
		docs, err := g.reader.Query(ctx, q)
		if err != nil {
			return fmt.Errorf("verificar dependientes en %s: %w", dep.Collection, err)
		}
		if len(docs) > 0 && !slices.Contains(blocking, dep.Collection) {
			blocking = append(blocking, dep.Collection)
		}
	}
	if len(blocking) > 0 {
		return &catalog.BlockedError{Kind: kind.Name, ID: id, Dependents: blocking}
	}
	return nil
}
