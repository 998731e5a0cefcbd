package usecase

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// UnitOfMeasureUseCase casos de uso de unidades de medida.
type UnitOfMeasureUseCase struct {
	svc *lifecycle.Service[entity.UnitOfMeasure]
}

// NewUnitOfMeasureUseCase construye el caso de uso.
func NewUnitOfMeasureUseCase(engine *lifecycle.Engine) *UnitOfMeasureUseCase {
	return &UnitOfMeasureUseCase{svc: lifecycle.NewService[entity.UnitOfMeasure](engine, catalog.UnitsOfMeasure)}
}

func (uc *UnitOfMeasureUseCase) Create(ctx context.Context, in dto.CreateUnitOfMeasureRequest) (*dto.UnitOfMeasureResponse, error) {
	u, err := uc.svc.Create(ctx, entity.UnitOfMeasure{
		Code: catalog.NormalizeKey(in.CodigoUnidad),
		Name: in.Nombre,
	})
	if err != nil {
		return nil, err
	}
	return ptr(toUnitOfMeasureResponse(u)), nil
}

func (uc *UnitOfMeasureUseCase) List(ctx context.Context, f dto.ListFilter) ([]dto.UnitOfMeasureResponse, error) {
	return listAs(ctx, uc.svc, f, toUnitOfMeasureResponse)
}

func (uc *UnitOfMeasureUseCase) GetByID(ctx context.Context, id string) (*dto.UnitOfMeasureResponse, error) {
	u, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ptr(toUnitOfMeasureResponse(u)), nil
}

func (uc *UnitOfMeasureUseCase) Update(ctx context.Context, id string, in dto.UpdateUnitOfMeasureRequest) (*dto.UnitOfMeasureResponse, error) {
	fields := map[string]any{}
	if in.Nombre != nil {
		fields[catalog.FieldName] = *in.Nombre
	}
	u, err := uc.svc.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return ptr(toUnitOfMeasureResponse(u)), nil
}

func (uc *UnitOfMeasureUseCase) Reactivate(ctx context.Context, id string, in dto.ReactivateRequest) (*dto.UnitOfMeasureResponse, error) {
	u, err := uc.svc.Reactivate(ctx, id, in.Fields())
	if err != nil {
		return nil, err
	}
	return ptr(toUnitOfMeasureResponse(u)), nil
}

func (uc *UnitOfMeasureUseCase) Delete(ctx context.Context, id string) error {
	return uc.svc.SoftDelete(ctx, id)
}

func toUnitOfMeasureResponse(u entity.UnitOfMeasure) dto.UnitOfMeasureResponse {
	return dto.UnitOfMeasureResponse{ID: u.ID, CodigoUnidad: u.Code, Nombre: u.Name, BajaLogica: u.Inactive}
}
