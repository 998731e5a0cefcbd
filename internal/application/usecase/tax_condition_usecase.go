package usecase

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// TaxConditionUseCase casos de uso de condiciones de IVA.
type TaxConditionUseCase struct {
	svc *lifecycle.Service[entity.TaxCondition]
}

// NewTaxConditionUseCase construye el caso de uso.
func NewTaxConditionUseCase(engine *lifecycle.Engine) *TaxConditionUseCase {
	return &TaxConditionUseCase{svc: lifecycle.NewService[entity.TaxCondition](engine, catalog.TaxConditions)}
}

// Create da de alta una condición. La alícuota se redondea a 2 decimales.
func (uc *TaxConditionUseCase) Create(ctx context.Context, in dto.CreateTaxConditionRequest) (*dto.TaxConditionResponse, error) {
	t := entity.TaxCondition{
		Code: catalog.NormalizeKey(in.CodigoIVA),
		Name: in.Nombre,
		Rate: in.Alicuota,
	}
	t.Normalize()
	created, err := uc.svc.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	return ptr(toTaxConditionResponse(created)), nil
}

func (uc *TaxConditionUseCase) List(ctx context.Context, f dto.ListFilter) ([]dto.TaxConditionResponse, error) {
	return listAs(ctx, uc.svc, f, toTaxConditionResponse)
}

func (uc *TaxConditionUseCase) GetByID(ctx context.Context, id string) (*dto.TaxConditionResponse, error) {
	t, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ptr(toTaxConditionResponse(t)), nil
}

func (uc *TaxConditionUseCase) Update(ctx context.Context, id string, in dto.UpdateTaxConditionRequest) (*dto.TaxConditionResponse, error) {
	fields := map[string]any{}
	if in.Nombre != nil {
		fields[catalog.FieldName] = *in.Nombre
	}
	if in.Alicuota != nil {
		fields["alicuota"] = in.Alicuota.Round(entity.RatePlaces)
	}
	t, err := uc.svc.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return ptr(toTaxConditionResponse(t)), nil
}

func (uc *TaxConditionUseCase) Reactivate(ctx context.Context, id string, in dto.ReactivateRequest) (*dto.TaxConditionResponse, error) {
	t, err := uc.svc.Reactivate(ctx, id, in.Fields())
	if err != nil {
		return nil, err
	}
	return ptr(toTaxConditionResponse(t)), nil
}

// Delete da de baja; falla si algún producto activo la usa.
func (uc *TaxConditionUseCase) Delete(ctx context.Context, id string) error {
	return uc.svc.SoftDelete(ctx, id)
}

func toTaxConditionResponse(t entity.TaxCondition) dto.TaxConditionResponse {
	return dto.TaxConditionResponse{
		ID:         t.ID,
		CodigoIVA:  t.Code,
		Nombre:     t.Name,
		Alicuota:   t.Rate,
		BajaLogica: t.Inactive,
	}
}
