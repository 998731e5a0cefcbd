package entity_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

func validProduct() entity.Product {
	return entity.Product{
		SKU:            "ABC123",
		Name:           "Tornillo 5mm",
		CostPrice:      entity.MustAmount("10.12345"),
		BaseSalePrice:  entity.MustAmount("15"),
		CostCurrency:   "ARS",
		UnitID:         "u1",
		TaxConditionID: "t1",
	}
}

func TestAmount_CuantizaACuatroDecimales(t *testing.T) {
	a := entity.MustAmount("10.12345")
	assert.Equal(t, "10.1235", a.String(), "mitad hacia arriba")
	assert.Equal(t, "15.0000", entity.MustAmount("15").String())

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `"10.1235"`, string(b))

	var back entity.Amount
	require.NoError(t, json.Unmarshal([]byte(`1.00005`), &back))
	assert.Equal(t, "1.0001", back.String(), "acepta números JSON y los cuantiza")
}

func TestCategory_Validate(t *testing.T) {
	assert.NoError(t, entity.Category{Code: "GEN", Name: "General"}.Validate())

	err := entity.Category{Code: "GENX", Name: "General"}.Validate()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "codigo", ve.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = entity.Category{Code: "GEN", Name: "  "}.Validate()
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "nombre", ve.Field)
}

func TestSubcategory_RequiereRubro(t *testing.T) {
	err := entity.Subcategory{Code: "GEN-001", Name: "Varios"}.Validate()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rubro_id", ve.Field)
}

func TestTaxCondition_Validate(t *testing.T) {
	tc := entity.TaxCondition{Code: "GRA", Name: "Gravado", Rate: decimal.RequireFromString("21.005")}
	tc.Normalize()
	assert.True(t, tc.Rate.Equal(decimal.RequireFromString("21.01")))
	assert.NoError(t, tc.Validate())

	tc.Rate = decimal.NewFromInt(101)
	assert.ErrorIs(t, tc.Validate(), domain.ErrInvalidInput)

	tc.Rate = decimal.NewFromInt(-1)
	assert.ErrorIs(t, tc.Validate(), domain.ErrInvalidInput)
}

func TestUnitOfMeasure_NombreLargo(t *testing.T) {
	err := entity.UnitOfMeasure{Code: "UN", Name: strings.Repeat("x", 31)}.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *entity.Product)
		field  string
	}{
		{"valido", func(p *entity.Product) {}, ""},
		{"sku largo", func(p *entity.Product) { p.SKU = "ABCDEFGHI" }, "sku"},
		{"precio negativo", func(p *entity.Product) { p.CostPrice = entity.MustAmount("-1") }, "precio_costo"},
		{"moneda invalida", func(p *entity.Product) { p.CostCurrency = "pesos" }, "moneda_costo"},
		{"sin unidad", func(p *entity.Product) { p.UnitID = "" }, "unidad_medida_id"},
		{"subrubro sin rubro", func(p *entity.Product) { p.SubcategoryID = "s1" }, "rubro_id"},
		{"kit vacio", func(p *entity.Product) { p.IsKit = true }, "componentes_kit"},
		{"componentes sin kit", func(p *entity.Product) {
			p.KitComponents = []entity.KitComponent{{ProductID: "x", Quantity: decimal.NewFromInt(1)}}
		}, "componentes_kit"},
		{"componente cantidad cero", func(p *entity.Product) {
			p.IsKit = true
			p.KitComponents = []entity.KitComponent{{ProductID: "x"}}
		}, "componentes_kit.cantidad"},
		{"componente repetido", func(p *entity.Product) {
			p.IsKit = true
			p.KitComponents = []entity.KitComponent{
				{ProductID: "x", Quantity: decimal.NewFromInt(1)},
				{ProductID: "x", Quantity: decimal.NewFromInt(2)},
			}
		}, "componentes_kit.producto_id"},
		{"empaque sin unidades", func(p *entity.Product) {
			p.PackagingUnit = &entity.PackagingUnit{Description: "caja"}
		}, "unidad_minima_empaque.unidades"},
		{"stock negativo", func(p *entity.Product) {
			p.WarehouseStock = []entity.WarehouseStock{{WarehouseID: "d1", Quantity: decimal.NewFromInt(-3)}}
		}, "stock_depositos.stock_real"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)
			err := p.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestProduct_FinalPriceYStock(t *testing.T) {
	p := validProduct()
	p.BaseSalePrice = entity.MustAmount("100")
	p.WarehouseStock = []entity.WarehouseStock{
		{WarehouseID: "d1", Quantity: decimal.RequireFromString("2.5")},
		{WarehouseID: "d2", Quantity: decimal.RequireFromString("1.5")},
	}
	tax := entity.TaxCondition{Rate: decimal.RequireFromString("21")}

	assert.True(t, p.FinalPrice(tax).Equal(decimal.NewFromInt(121)))
	assert.True(t, p.TotalStock().Equal(decimal.NewFromInt(4)))
}
