package usecase

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// SubcategoryUseCase casos de uso de subrubros. El rubro padre debe estar activo
// para crear o reactivar.
type SubcategoryUseCase struct {
	svc    *lifecycle.Service[entity.Subcategory]
	rubros *lifecycle.Service[entity.Category]
}

// NewSubcategoryUseCase construye el caso de uso.
func NewSubcategoryUseCase(engine *lifecycle.Engine) *SubcategoryUseCase {
	return &SubcategoryUseCase{
		svc:    lifecycle.NewService[entity.Subcategory](engine, catalog.Subcategories),
		rubros: lifecycle.NewService[entity.Category](engine, catalog.Categories),
	}
}

func (uc *SubcategoryUseCase) Create(ctx context.Context, in dto.CreateSubcategoryRequest) (*dto.SubcategoryResponse, error) {
	if in.RubroID != "" {
		if _, err := requireActiveRef(ctx, uc.rubros, catalog.FieldCategoryID, in.RubroID, categoryInactive); err != nil {
			return nil, err
		}
	}
	s, err := uc.svc.Create(ctx, entity.Subcategory{
		Code:       catalog.NormalizeKey(in.CodigoSubrubro),
		Name:       in.Nombre,
		CategoryID: in.RubroID,
	})
	if err != nil {
		return nil, err
	}
	return ptr(toSubcategoryResponse(s)), nil
}

// List admite filtrar por rubro_id además del estado.
func (uc *SubcategoryUseCase) List(ctx context.Context, f dto.ListFilter) ([]dto.SubcategoryResponse, error) {
	var filters []repository.Filter
	if f.RubroID != "" {
		filters = append(filters, repository.Filter{Field: catalog.FieldCategoryID, Value: f.RubroID})
	}
	return listAs(ctx, uc.svc, f, toSubcategoryResponse, filters...)
}

func (uc *SubcategoryUseCase) GetByID(ctx context.Context, id string) (*dto.SubcategoryResponse, error) {
	s, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ptr(toSubcategoryResponse(s)), nil
}

func (uc *SubcategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateSubcategoryRequest) (*dto.SubcategoryResponse, error) {
	fields := map[string]any{}
	if in.Nombre != nil {
		fields[catalog.FieldName] = *in.Nombre
	}
	s, err := uc.svc.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return ptr(toSubcategoryResponse(s)), nil
}

func (uc *SubcategoryUseCase) Reactivate(ctx context.Context, id string, in dto.ReactivateRequest) (*dto.SubcategoryResponse, error) {
	cur, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Inactive {
		if _, err := requireActiveRef(ctx, uc.rubros, catalog.FieldCategoryID, cur.CategoryID, categoryInactive); err != nil {
			return nil, err
		}
	}
	s, err := uc.svc.Reactivate(ctx, id, in.Fields())
	if err != nil {
		return nil, err
	}
	return ptr(toSubcategoryResponse(s)), nil
}

func (uc *SubcategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.svc.SoftDelete(ctx, id)
}

func categoryInactive(c entity.Category) bool { return c.Inactive }

func toSubcategoryResponse(s entity.Subcategory) dto.SubcategoryResponse {
	return dto.SubcategoryResponse{
		ID:             s.ID,
		CodigoSubrubro: s.Code,
		Nombre:         s.Name,
		RubroID:        s.CategoryID,
		BajaLogica:     s.Inactive,
	}
}
