package entity

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// PackagingUnit unidad mínima de empaque (p. ej. "caja x 12").
type PackagingUnit struct {
	Description string          `json:"descripcion"`
	Units       decimal.Decimal `json:"unidades"`
}

// WarehouseStock stock real en un depósito.
type WarehouseStock struct {
	WarehouseID string          `json:"deposito_id"`
	Quantity    decimal.Decimal `json:"stock_real"`
}

// KitComponent producto que integra un kit y la cantidad que aporta.
type KitComponent struct {
	ProductID string          `json:"producto_id"`
	Quantity  decimal.Decimal `json:"cantidad"`
}

// Product artículo del catálogo. Los importes se cuantizan a 4 decimales y las
// cantidades son decimales.
type Product struct {
	ID             string           `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"nombre"`
	BASCode        string           `json:"codigo_bas,omitempty"`
	Notes          string           `json:"observaciones,omitempty"`
	CostPrice      Amount           `json:"precio_costo"`
	BaseSalePrice  Amount           `json:"precio_base_venta"`
	CostCurrency   string           `json:"moneda_costo"`
	UnitID         string           `json:"unidad_medida_id"`
	TaxConditionID string           `json:"condicion_iva_id"`
	CategoryID     string           `json:"rubro_id,omitempty"`
	SubcategoryID  string           `json:"subrubro_id,omitempty"`
	MinOrderUnits  decimal.Decimal  `json:"unidad_minima_pedido"`
	PackagingUnit  *PackagingUnit   `json:"unidad_minima_empaque,omitempty"`
	MinOrderStock  decimal.Decimal  `json:"stock_minimo_pedido"`
	WarehouseStock []WarehouseStock `json:"stock_depositos"`
	CommittedStock decimal.Decimal  `json:"stock_comprometido"`
	IncomingStock  decimal.Decimal  `json:"stock_entrante"`
	IsKit          bool             `json:"es_kit"`
	KitComponents  []KitComponent   `json:"componentes_kit"`
	Inactive       bool             `json:"baja_logica"`
}

// Validate aplica las reglas de longitud, no negatividad y consistencia de kits.
func (p Product) Validate() error {
	k := catalog.Products
	if err := firstError(
		requireText(k.KeyField, p.SKU, k.KeyMaxLen),
		requireText(catalog.FieldName, p.Name, k.NameMaxLen),
		maxText("codigo_bas", p.BASCode, 8),
		maxText("observaciones", p.Notes, 60),
		nonNegative("precio_costo", p.CostPrice.Decimal),
		nonNegative("precio_base_venta", p.BaseSalePrice.Decimal),
		requireText("unidad_medida_id", p.UnitID, 64),
		requireText("condicion_iva_id", p.TaxConditionID, 64),
		nonNegative("unidad_minima_pedido", p.MinOrderUnits),
		nonNegative("stock_minimo_pedido", p.MinOrderStock),
		nonNegative("stock_comprometido", p.CommittedStock),
		nonNegative("stock_entrante", p.IncomingStock),
	); err != nil {
		return err
	}
	if !currencyPattern.MatchString(p.CostCurrency) {
		return domain.NewValidationError("moneda_costo", "debe ser un código ISO 4217 de 3 letras")
	}
	if p.SubcategoryID != "" && p.CategoryID == "" {
		return domain.NewValidationError(catalog.FieldCategoryID, "es requerido cuando se indica subrubro_id")
	}
	if p.PackagingUnit != nil {
		if err := maxText("unidad_minima_empaque.descripcion", p.PackagingUnit.Description, 30); err != nil {
			return err
		}
		if !p.PackagingUnit.Units.IsPositive() {
			return domain.NewValidationError("unidad_minima_empaque.unidades", "debe ser mayor a cero")
		}
	}
	for _, ws := range p.WarehouseStock {
		if ws.WarehouseID == "" {
			return domain.NewValidationError("stock_depositos.deposito_id", "es requerido")
		}
		if err := nonNegative("stock_depositos.stock_real", ws.Quantity); err != nil {
			return err
		}
	}
	return p.validateKit()
}

func (p Product) validateKit() error {
	if !p.IsKit {
		if len(p.KitComponents) > 0 {
			return domain.NewValidationError("componentes_kit", "solo se admiten si es_kit es verdadero")
		}
		return nil
	}
	if len(p.KitComponents) == 0 {
		return domain.NewValidationError("componentes_kit", "un kit necesita al menos un componente")
	}
	seen := make(map[string]bool, len(p.KitComponents))
	for _, c := range p.KitComponents {
		if c.ProductID == "" {
			return domain.NewValidationError("componentes_kit.producto_id", "es requerido")
		}
		if p.ID != "" && c.ProductID == p.ID {
			return domain.NewValidationError("componentes_kit.producto_id", "un kit no puede contenerse a sí mismo")
		}
		if seen[c.ProductID] {
			return domain.NewValidationError("componentes_kit.producto_id", "componente repetido %s", c.ProductID)
		}
		seen[c.ProductID] = true
		if !c.Quantity.IsPositive() {
			return domain.NewValidationError("componentes_kit.cantidad", "debe ser mayor a cero")
		}
	}
	return nil
}

// TotalStock suma el stock real de todos los depósitos.
func (p Product) TotalStock() decimal.Decimal {
	total := decimal.Zero
	for _, ws := range p.WarehouseStock {
		total = total.Add(ws.Quantity)
	}
	return total
}

// FinalPrice precio base de venta con el IVA de la condición, redondeado a 2 decimales.
func (p Product) FinalPrice(tax TaxCondition) decimal.Decimal {
	return p.BaseSalePrice.Mul(tax.Multiplier()).Round(2)
}
