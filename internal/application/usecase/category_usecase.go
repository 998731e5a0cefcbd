package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// CategoryUseCase casos de uso de rubros.
type CategoryUseCase struct {
	svc *lifecycle.Service[entity.Category]
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(engine *lifecycle.Engine) *CategoryUseCase {
	return &CategoryUseCase{svc: lifecycle.NewService[entity.Category](engine, catalog.Categories)}
}

// Create da de alta un rubro con su contador.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.svc.Create(ctx, entity.Category{
		Code: catalog.NormalizeKey(in.Codigo),
		Name: in.Nombre,
	})
	if err != nil {
		return nil, err
	}
	return ptr(toCategoryResponse(c)), nil
}

func (uc *CategoryUseCase) List(ctx context.Context, f dto.ListFilter) ([]dto.CategoryResponse, error) {
	return listAs(ctx, uc.svc, f, toCategoryResponse)
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ptr(toCategoryResponse(c)), nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	fields := map[string]any{}
	if in.Nombre != nil {
		fields[catalog.FieldName] = *in.Nombre
	}
	c, err := uc.svc.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return ptr(toCategoryResponse(c)), nil
}

func (uc *CategoryUseCase) Reactivate(ctx context.Context, id string, in dto.ReactivateRequest) (*dto.CategoryResponse, error) {
	c, err := uc.svc.Reactivate(ctx, id, in.Fields())
	if err != nil {
		return nil, err
	}
	return ptr(toCategoryResponse(c)), nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.svc.SoftDelete(ctx, id)
}

// NextCode emite el siguiente número del rubro y sugiere el código de subrubro (GEN-001).
func (uc *CategoryUseCase) NextCode(ctx context.Context, id string) (*dto.CounterResponse, error) {
	c, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := uc.svc.NextCode(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CounterResponse{
		RubroID:        id,
		UltimoValor:    n,
		CodigoSugerido: fmt.Sprintf("%s-%03d", c.Code, n),
	}, nil
}

func toCategoryResponse(c entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Codigo: c.Code, Nombre: c.Name, BajaLogica: c.Inactive}
}
