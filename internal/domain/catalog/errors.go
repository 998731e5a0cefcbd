package catalog

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Catalogo-api/internal/domain"
)

// Estados de respuesta que consume el frontend.
const (
	StatusExistsActive      = "EXISTE_ACTIVO"
	StatusExistsInactive    = "EXISTE_INACTIVO"
	StatusHasActiveChildren = "TIENE_HIJOS_ACTIVOS"
)

// ConflictError la clave de negocio ya está tomada por otro documento.
// Con Status EXISTE_INACTIVO, InactiveID identifica el documento reactivable.
type ConflictError struct {
	Status     string
	Kind       string
	Field      string
	Key        string
	InactiveID string
}

func (e *ConflictError) Error() string {
	if e.Status == StatusExistsInactive {
		return fmt.Sprintf("ya existe un %s inactivo con %s %q (id %s)", e.Kind, e.Field, e.Key, e.InactiveID)
	}
	return fmt.Sprintf("ya existe un %s activo con %s %q", e.Kind, e.Field, e.Key)
}

func (e *ConflictError) Unwrap() error { return domain.ErrConflict }

// BlockedError la baja lógica se rechaza porque hay dependientes activos.
type BlockedError struct {
	Kind       string
	ID         string
	Dependents []string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("no se puede dar de baja el %s %s: tiene elementos activos en %s",
		e.Kind, e.ID, strings.Join(e.Dependents, ", "))
}

func (e *BlockedError) Unwrap() error { return domain.ErrConflict }

// Status código de estado para el cliente.
func (e *BlockedError) Status() string { return StatusHasActiveChildren }
