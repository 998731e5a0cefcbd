package lifecycle

import (
	"errors"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
)

// Operaciones del ciclo de vida (etiqueta de métricas).
const (
	OpCreate     = "create"
	OpReactivate = "reactivate"
	OpUpdate     = "update"
	OpSoftDelete = "soft_delete"
	OpNextCode   = "next_code"
)

// Resultados de una operación.
const (
	OutcomeCreated     = "CREATED"
	OutcomeReactivated = "REACTIVATED"
	OutcomeUpdated     = "UPDATED"
	OutcomeDeleted     = "DELETED"
	OutcomeIncremented = "INCREMENTED"
	OutcomeConflict    = "CONFLICT"
	OutcomeBlocked     = "BLOCKED"
	OutcomeNotFound    = "NOT_FOUND"
	OutcomeInvalid     = "INVALID"
	OutcomeError       = "ERROR"
)

var successOutcome = map[string]string{
	OpCreate:     OutcomeCreated,
	OpReactivate: OutcomeReactivated,
	OpUpdate:     OutcomeUpdated,
	OpSoftDelete: OutcomeDeleted,
	OpNextCode:   OutcomeIncremented,
}

// Observer recibe los resultados del motor. Lo implementa el registro de métricas.
type Observer interface {
	Outcome(collection, operation, outcome string)
	DocumentSkipped(collection string)
}

// NopObserver descarta todo.
type NopObserver struct{}

func (NopObserver) Outcome(string, string, string) {}
func (NopObserver) DocumentSkipped(string)         {}

// OutcomeOf clasifica el error devuelto por una operación.
func OutcomeOf(operation string, err error) string {
	if err == nil {
		return successOutcome[operation]
	}
	var blocked *catalog.BlockedError
	switch {
	case errors.As(err, &blocked):
		return OutcomeBlocked
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyActive),
		errors.Is(err, domain.ErrAlreadyInactive):
		return OutcomeConflict
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	}
	return OutcomeError
}
