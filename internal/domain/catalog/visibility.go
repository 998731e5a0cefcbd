package catalog

import (
	"fmt"

	"github.com/jhoicas/Catalogo-api/internal/domain"
)

// Visibility modo de listado respecto de la baja lógica.
type Visibility string

const (
	VisibilityActive   Visibility = "activos"
	VisibilityInactive Visibility = "inactivos"
	VisibilityAll      Visibility = "todos"
)

// ParseVisibility interpreta el parámetro estado. Vacío equivale a activos.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case "", VisibilityActive:
		return VisibilityActive, nil
	case VisibilityInactive:
		return VisibilityInactive, nil
	case VisibilityAll:
		return VisibilityAll, nil
	}
	return "", fmt.Errorf("estado %q: %w", s, domain.ErrInvalidInput)
}

// InactiveFilter devuelve el valor de baja_logica a filtrar; ok=false para todos.
func (v Visibility) InactiveFilter() (inactive bool, ok bool) {
	switch v {
	case VisibilityAll:
		return false, false
	case VisibilityInactive:
		return true, true
	default:
		return false, true
	}
}
