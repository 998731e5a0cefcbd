package lifecycle

import (
	"context"
	"fmt"

	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// ResolutionState estado de una clave de negocio dentro de su colección.
type ResolutionState int

const (
	ResolutionNone ResolutionState = iota
	ResolutionActive
	ResolutionInactive
)

func (s ResolutionState) String() string {
	switch s {
	case ResolutionActive:
		return "ACTIVE"
	case ResolutionInactive:
		return "INACTIVE"
	}
	return "NONE"
}

// Resolution resultado de Resolve. ExistingID vacío con ResolutionNone.
type Resolution struct {
	State      ResolutionState
	ExistingID string
}

// Resolve busca la clave en la colección del tipo. Si hay un documento activo gana el de
// menor id; si solo hay inactivos, el inactivo de menor id. Solo lee: dentro de una
// transacción r es la propia tx.
func Resolve(ctx context.Context, r repository.DocumentReader, kind catalog.Kind, key string) (Resolution, error) {
	docs, err := r.Query(ctx, repository.Query{Collection: kind.Collection}.Where(kind.KeyField, key))
	if err != nil {
		return Resolution{}, fmt.Errorf("resolver %s %q: %w", kind.KeyField, key, err)
	}
	res := Resolution{State: ResolutionNone}
	for _, d := range docs {
		if !isInactive(d.Data) {
			return Resolution{State: ResolutionActive, ExistingID: d.ID}, nil
		}
		if res.State == ResolutionNone {
			res = Resolution{State: ResolutionInactive, ExistingID: d.ID}
		}
	}
	return res, nil
}

func isInactive(data map[string]any) bool {
	v, _ := data[catalog.FieldInactive].(bool)
	return v
}
