package usecase

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

const (
	fieldUnitID         = "unidad_medida_id"
	fieldTaxConditionID = "condicion_iva_id"
	fieldKitComponents  = catalog.FieldKitComponents
)

// ProductUseCase casos de uso de productos. Las referencias (unidad, condición de IVA,
// rubro, subrubro y componentes de kit) deben existir y estar activas al escribirlas.
type ProductUseCase struct {
	svc      *lifecycle.Service[entity.Product]
	units    *lifecycle.Service[entity.UnitOfMeasure]
	taxes    *lifecycle.Service[entity.TaxCondition]
	rubros   *lifecycle.Service[entity.Category]
	subrubro *lifecycle.Service[entity.Subcategory]
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(engine *lifecycle.Engine) *ProductUseCase {
	return &ProductUseCase{
		svc:      lifecycle.NewService[entity.Product](engine, catalog.Products),
		units:    lifecycle.NewService[entity.UnitOfMeasure](engine, catalog.UnitsOfMeasure),
		taxes:    lifecycle.NewService[entity.TaxCondition](engine, catalog.TaxConditions),
		rubros:   lifecycle.NewService[entity.Category](engine, catalog.Categories),
		subrubro: lifecycle.NewService[entity.Subcategory](engine, catalog.Subcategories),
	}
}

// Create da de alta un producto. El SKU se normaliza y los importes se cuantizan a 4 decimales.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := entity.Product{
		SKU:            catalog.NormalizeKey(in.SKU),
		Name:           in.Nombre,
		BASCode:        in.CodigoBAS,
		Notes:          in.Observaciones,
		CostPrice:      entity.NewAmount(in.PrecioCosto),
		BaseSalePrice:  entity.NewAmount(in.PrecioBaseVenta),
		CostCurrency:   catalog.NormalizeKey(in.MonedaCosto),
		UnitID:         in.UnidadMedidaID,
		TaxConditionID: in.CondicionIVAID,
		CategoryID:     in.RubroID,
		SubcategoryID:  in.SubrubroID,
		MinOrderUnits:  in.UnidadMinimaPedido,
		PackagingUnit:  toPackagingUnit(in.UnidadMinimaEmpaque),
		MinOrderStock:  in.StockMinimoPedido,
		WarehouseStock: toWarehouseStock(in.StockDepositos),
		CommittedStock: in.StockComprometido,
		IncomingStock:  in.StockEntrante,
		IsKit:          in.EsKit,
		KitComponents:  toKitComponents(in.ComponentesKit),
	}
	if p.CostCurrency == "" {
		p.CostCurrency = "ARS"
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, p, nil); err != nil {
		return nil, err
	}
	created, err := uc.svc.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return ptr(toProductResponse(created)), nil
}

func (uc *ProductUseCase) List(ctx context.Context, f dto.ListFilter) ([]dto.ProductResponse, error) {
	return listAs(ctx, uc.svc, f, toProductResponse)
}

func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ptr(toProductResponse(p)), nil
}

// GetBySKU busca por SKU (se normaliza antes de buscar). Prefiere el producto activo.
func (uc *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	p, err := uc.svc.GetByKey(ctx, catalog.NormalizeKey(sku))
	if err != nil {
		return nil, err
	}
	return ptr(toProductResponse(p)), nil
}

// Update aplica los campos presentes. Las referencias modificadas se vuelven a verificar.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	cur, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, changed := productFields(in)
	if len(changed) > 0 {
		eff := cur
		if in.UnidadMedidaID != nil {
			eff.UnitID = *in.UnidadMedidaID
		}
		if in.CondicionIVAID != nil {
			eff.TaxConditionID = *in.CondicionIVAID
		}
		if in.RubroID != nil {
			eff.CategoryID = *in.RubroID
		}
		if in.SubrubroID != nil {
			eff.SubcategoryID = *in.SubrubroID
		}
		if in.ComponentesKit != nil {
			eff.KitComponents = toKitComponents(*in.ComponentesKit)
		}
		if err := uc.checkRefs(ctx, eff, changed); err != nil {
			return nil, err
		}
	}
	p, err := uc.svc.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return ptr(toProductResponse(p)), nil
}

// Reactivate exige que las referencias vigentes del producto sigan activas.
func (uc *ProductUseCase) Reactivate(ctx context.Context, id string, in dto.ReactivateRequest) (*dto.ProductResponse, error) {
	cur, err := uc.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Inactive {
		if err := uc.checkRefs(ctx, cur, nil); err != nil {
			return nil, err
		}
	}
	p, err := uc.svc.Reactivate(ctx, id, in.Fields())
	if err != nil {
		return nil, err
	}
	return ptr(toProductResponse(p)), nil
}

// Delete da de baja el producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.svc.SoftDelete(ctx, id)
}

// checkRefs verifica las referencias de p. only limita la verificación a esos campos; nil verifica todas.
func (uc *ProductUseCase) checkRefs(ctx context.Context, p entity.Product, only map[string]bool) error {
	want := func(field string) bool { return only == nil || only[field] }

	if want(fieldUnitID) {
		if _, err := requireActiveRef(ctx, uc.units, fieldUnitID, p.UnitID, func(u entity.UnitOfMeasure) bool { return u.Inactive }); err != nil {
			return err
		}
	}
	if want(fieldTaxConditionID) {
		if _, err := requireActiveRef(ctx, uc.taxes, fieldTaxConditionID, p.TaxConditionID, func(t entity.TaxCondition) bool { return t.Inactive }); err != nil {
			return err
		}
	}
	if p.CategoryID != "" && want(catalog.FieldCategoryID) {
		if _, err := requireActiveRef(ctx, uc.rubros, catalog.FieldCategoryID, p.CategoryID, categoryInactive); err != nil {
			return err
		}
	}
	if p.SubcategoryID != "" && (want(catalog.FieldSubcategoryID) || want(catalog.FieldCategoryID)) {
		sub, err := requireActiveRef(ctx, uc.subrubro, catalog.FieldSubcategoryID, p.SubcategoryID, func(s entity.Subcategory) bool { return s.Inactive })
		if err != nil {
			return err
		}
		if sub.CategoryID != p.CategoryID {
			return domain.NewValidationError(catalog.FieldSubcategoryID, "el subrubro %s no pertenece al rubro %s", p.SubcategoryID, p.CategoryID)
		}
	}
	if want(fieldKitComponents) {
		for _, c := range p.KitComponents {
			if _, err := requireActiveRef(ctx, uc.svc, fieldKitComponents, c.ProductID, func(x entity.Product) bool { return x.Inactive }); err != nil {
				return err
			}
		}
	}
	return nil
}

// productFields traduce el patch a campos persistidos y devuelve qué referencias cambian.
func productFields(in dto.UpdateProductRequest) (map[string]any, map[string]bool) {
	fields := map[string]any{}
	changed := map[string]bool{}
	if in.Nombre != nil {
		fields[catalog.FieldName] = *in.Nombre
	}
	if in.CodigoBAS != nil {
		fields["codigo_bas"] = *in.CodigoBAS
	}
	if in.Observaciones != nil {
		fields["observaciones"] = *in.Observaciones
	}
	if in.PrecioCosto != nil {
		fields["precio_costo"] = entity.NewAmount(*in.PrecioCosto)
	}
	if in.PrecioBaseVenta != nil {
		fields["precio_base_venta"] = entity.NewAmount(*in.PrecioBaseVenta)
	}
	if in.MonedaCosto != nil {
		fields["moneda_costo"] = catalog.NormalizeKey(*in.MonedaCosto)
	}
	if in.UnidadMedidaID != nil {
		fields[fieldUnitID] = *in.UnidadMedidaID
		changed[fieldUnitID] = true
	}
	if in.CondicionIVAID != nil {
		fields[fieldTaxConditionID] = *in.CondicionIVAID
		changed[fieldTaxConditionID] = true
	}
	if in.RubroID != nil {
		fields[catalog.FieldCategoryID] = *in.RubroID
		changed[catalog.FieldCategoryID] = true
	}
	if in.SubrubroID != nil {
		fields[catalog.FieldSubcategoryID] = *in.SubrubroID
		changed[catalog.FieldSubcategoryID] = true
	}
	if in.UnidadMinimaPedido != nil {
		fields["unidad_minima_pedido"] = *in.UnidadMinimaPedido
	}
	if in.UnidadMinimaEmpaque != nil {
		fields["unidad_minima_empaque"] = toPackagingUnit(in.UnidadMinimaEmpaque)
	}
	if in.StockMinimoPedido != nil {
		fields["stock_minimo_pedido"] = *in.StockMinimoPedido
	}
	if in.StockDepositos != nil {
		fields["stock_depositos"] = toWarehouseStock(*in.StockDepositos)
	}
	if in.StockComprometido != nil {
		fields["stock_comprometido"] = *in.StockComprometido
	}
	if in.StockEntrante != nil {
		fields["stock_entrante"] = *in.StockEntrante
	}
	if in.EsKit != nil {
		fields["es_kit"] = *in.EsKit
	}
	if in.ComponentesKit != nil {
		fields[fieldKitComponents] = toKitComponents(*in.ComponentesKit)
		changed[fieldKitComponents] = true
	}
	return fields, changed
}

func toPackagingUnit(d *dto.PackagingUnitDTO) *entity.PackagingUnit {
	if d == nil {
		return nil
	}
	return &entity.PackagingUnit{Description: d.Descripcion, Units: d.Unidades}
}

func toWarehouseStock(in []dto.WarehouseStockDTO) []entity.WarehouseStock {
	out := make([]entity.WarehouseStock, 0, len(in))
	for _, ws := range in {
		out = append(out, entity.WarehouseStock{WarehouseID: ws.DepositoID, Quantity: ws.StockReal})
	}
	return out
}

func toKitComponents(in []dto.KitComponentDTO) []entity.KitComponent {
	out := make([]entity.KitComponent, 0, len(in))
	for _, c := range in {
		out = append(out, entity.KitComponent{ProductID: c.ProductoID, Quantity: c.Cantidad})
	}
	return out
}

func toProductResponse(p entity.Product) dto.ProductResponse {
	r := dto.ProductResponse{
		ID:                 p.ID,
		SKU:                p.SKU,
		Nombre:             p.Name,
		CodigoBAS:          p.BASCode,
		Observaciones:      p.Notes,
		PrecioCosto:        p.CostPrice.String(),
		PrecioBaseVenta:    p.BaseSalePrice.String(),
		MonedaCosto:        p.CostCurrency,
		UnidadMedidaID:     p.UnitID,
		CondicionIVAID:     p.TaxConditionID,
		RubroID:            p.CategoryID,
		SubrubroID:         p.SubcategoryID,
		UnidadMinimaPedido: p.MinOrderUnits,
		StockMinimoPedido:  p.MinOrderStock,
		StockDepositos:     make([]dto.WarehouseStockDTO, 0, len(p.WarehouseStock)),
		StockTotal:         p.TotalStock(),
		StockComprometido:  p.CommittedStock,
		StockEntrante:      p.IncomingStock,
		EsKit:              p.IsKit,
		ComponentesKit:     make([]dto.KitComponentDTO, 0, len(p.KitComponents)),
		BajaLogica:         p.Inactive,
	}
	if p.PackagingUnit != nil {
		r.UnidadMinimaEmpaque = &dto.PackagingUnitDTO{Descripcion: p.PackagingUnit.Description, Unidades: p.PackagingUnit.Units}
	}
	for _, ws := range p.WarehouseStock {
		r.StockDepositos = append(r.StockDepositos, dto.WarehouseStockDTO{DepositoID: ws.WarehouseID, StockReal: ws.Quantity})
	}
	for _, c := range p.KitComponents {
		r.ComponentesKit = append(r.ComponentesKit, dto.KitComponentDTO{ProductoID: c.ProductID, Cantidad: c.Quantity})
	}
	return r
}
