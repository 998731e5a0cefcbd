package usecase

import (
	"context"
	"errors"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// listAs consume la secuencia del servicio y la mapea a DTOs. Nunca devuelve nil.
func listAs[T lifecycle.Record, R any](ctx context.Context, svc *lifecycle.Service[T], f dto.ListFilter, toDTO func(T) R, filters ...repository.Filter) ([]R, error) {
	seq, err := svc.List(ctx, f.Estado, filters...)
	if err != nil {
		return nil, err
	}
	out := make([]R, 0)
	for rec := range seq {
		out = append(out, toDTO(rec))
	}
	return out, nil
}

// requireActiveRef verifica que field referencie un documento existente y activo.
func requireActiveRef[T lifecycle.Record](ctx context.Context, svc *lifecycle.Service[T], field, id string, inactive func(T) bool) (T, error) {
	rec, err := svc.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return rec, domain.NewValidationError(field, "%s %s no existe", svc.Kind().Name, id)
	}
	if err != nil {
		return rec, err
	}
	if inactive(rec) {
		return rec, domain.NewValidationError(field, "%s %s está dado de baja", svc.Kind().Name, id)
	}
	return rec, nil
}

func ptr[T any](v T) *T { return &v }
