package usecase

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/application/ports"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// PriceListUseCase arma la lista de precios de productos activos.
type PriceListUseCase struct {
	products *lifecycle.Service[entity.Product]
	taxes    *lifecycle.Service[entity.TaxCondition]
	units    *lifecycle.Service[entity.UnitOfMeasure]
	rubros   *lifecycle.Service[entity.Category]
	renderer ports.PriceListRenderer
	now      func() time.Time
}

// NewPriceListUseCase construye el caso de uso.
func NewPriceListUseCase(engine *lifecycle.Engine, renderer ports.PriceListRenderer) *PriceListUseCase {
	return &PriceListUseCase{
		products: lifecycle.NewService[entity.Product](engine, catalog.Products),
		taxes:    lifecycle.NewService[entity.TaxCondition](engine, catalog.TaxConditions),
		units:    lifecycle.NewService[entity.UnitOfMeasure](engine, catalog.UnitsOfMeasure),
		rubros:   lifecycle.NewService[entity.Category](engine, catalog.Categories),
		renderer: renderer,
		now:      time.Now,
	}
}

// Build arma las filas ordenadas por rubro y SKU. El precio final incluye el IVA de la
// condición del producto; las referencias se buscan también entre las dadas de baja.
func (uc *PriceListUseCase) Build(ctx context.Context) (dto.PriceList, error) {
	taxes, err := indexByID(ctx, uc.taxes, func(t entity.TaxCondition) string { return t.ID })
	if err != nil {
		return dto.PriceList{}, err
	}
	units, err := indexByID(ctx, uc.units, func(u entity.UnitOfMeasure) string { return u.ID })
	if err != nil {
		return dto.PriceList{}, err
	}
	rubros, err := indexByID(ctx, uc.rubros, func(c entity.Category) string { return c.ID })
	if err != nil {
		return dto.PriceList{}, err
	}

	seq, err := uc.products.List(ctx, catalog.VisibilityActive)
	if err != nil {
		return dto.PriceList{}, err
	}
	rows := make([]dto.PriceListRow, 0)
	for p := range seq {
		tax := taxes[p.TaxConditionID]
		rows = append(rows, dto.PriceListRow{
			SKU:         p.SKU,
			Nombre:      p.Name,
			Rubro:       rubros[p.CategoryID].Name,
			Unidad:      units[p.UnitID].Code,
			Moneda:      p.CostCurrency,
			PrecioBase:  p.BaseSalePrice.Decimal,
			Alicuota:    tax.Rate,
			PrecioFinal: p.FinalPrice(tax),
		})
	}
	slices.SortFunc(rows, func(a, b dto.PriceListRow) int {
		return cmp.Or(cmp.Compare(a.Rubro, b.Rubro), cmp.Compare(a.SKU, b.SKU))
	})
	return dto.PriceList{Titulo: "Lista de precios", Generada: uc.now(), Rows: rows}, nil
}

// Render arma la lista y la entrega al renderer.
func (uc *PriceListUseCase) Render(ctx context.Context) ([]byte, error) {
	list, err := uc.Build(ctx)
	if err != nil {
		return nil, err
	}
	return uc.renderer.Render(list)
}

func indexByID[T lifecycle.Record](ctx context.Context, svc *lifecycle.Service[T], id func(T) string) (map[string]T, error) {
	seq, err := svc.List(ctx, catalog.VisibilityAll)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T)
	for rec := range seq {
		out[id(rec)] = rec
	}
	return out, nil
}
