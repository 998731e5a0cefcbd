package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/sqlite"
)

type catalogFixture struct {
	taxes    *usecase.TaxConditionUseCase
	units    *usecase.UnitOfMeasureUseCase
	rubros   *usecase.CategoryUseCase
	subs     *usecase.SubcategoryUseCase
	products *usecase.ProductUseCase
	engine   *lifecycle.Engine
}

func newCatalog(t *testing.T) *catalogFixture {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.Config{
		Path: filepath.Join(t.TempDir(), "catalogo.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine := lifecycle.NewEngine(store, zerolog.Nop(), nil)
	return &catalogFixture{
		taxes:    usecase.NewTaxConditionUseCase(engine),
		units:    usecase.NewUnitOfMeasureUseCase(engine),
		rubros:   usecase.NewCategoryUseCase(engine),
		subs:     usecase.NewSubcategoryUseCase(engine),
		products: usecase.NewProductUseCase(engine),
		engine:   engine,
	}
}

type refs struct {
	taxID, unitID, rubroID, subID string
}

func (f *catalogFixture) seedRefs(t *testing.T) refs {
	t.Helper()
	ctx := context.Background()
	tax, err := f.taxes.Create(ctx, dto.CreateTaxConditionRequest{CodigoIVA: "21", Nombre: "IVA 21%", Alicuota: decimal.NewFromInt(21)})
	require.NoError(t, err)
	unit, err := f.units.Create(ctx, dto.CreateUnitOfMeasureRequest{CodigoUnidad: "un", Nombre: "Unidad"})
	require.NoError(t, err)
	rubro, err := f.rubros.Create(ctx, dto.CreateCategoryRequest{Codigo: "gen", Nombre: "General"})
	require.NoError(t, err)
	sub, err := f.subs.Create(ctx, dto.CreateSubcategoryRequest{CodigoSubrubro: "gen-001", Nombre: "Varios", RubroID: rubro.ID})
	require.NoError(t, err)
	return refs{taxID: tax.ID, unitID: unit.ID, rubroID: rubro.ID, subID: sub.ID}
}

func productRequest(r refs, sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:             sku,
		Nombre:          "Tornillo " + sku,
		PrecioCosto:     decimal.RequireFromString("10.12345"),
		PrecioBaseVenta: decimal.NewFromInt(100),
		MonedaCosto:     "ars",
		UnidadMedidaID:  r.unitID,
		CondicionIVAID:  r.taxID,
		RubroID:         r.rubroID,
		SubrubroID:      r.subID,
		StockDepositos: []dto.WarehouseStockDTO{
			{DepositoID: "central", StockReal: decimal.NewFromInt(5)},
			{DepositoID: "norte", StockReal: decimal.RequireFromString("2.5")},
		},
	}
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, se obtuvo %v", err)
	assert.Equal(t, field, verr.Field)
}

func TestKeysAreNormalizedOnCreate(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	unit, err := f.units.GetByID(ctx, r.unitID)
	require.NoError(t, err)
	assert.Equal(t, "UN", unit.CodigoUnidad)

	_, err = f.units.Create(ctx, dto.CreateUnitOfMeasureRequest{CodigoUnidad: " Un ", Nombre: "Otra"})
	var conflict *catalog.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, catalog.StatusExistsActive, conflict.Status)
}

func TestTaxConditionRateIsRounded(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	tax, err := f.taxes.Create(ctx, dto.CreateTaxConditionRequest{CodigoIVA: "105", Nombre: "IVA 10,5%", Alicuota: decimal.RequireFromString("10.499")})
	require.NoError(t, err)
	assert.True(t, tax.Alicuota.Equal(decimal.RequireFromString("10.5")), tax.Alicuota.String())

	_, err = f.taxes.Create(ctx, dto.CreateTaxConditionRequest{CodigoIVA: "X", Nombre: "Mal", Alicuota: decimal.NewFromInt(101)})
	requireValidationField(t, err, "alicuota")
}

func TestCategoryNextCodeSuggestsSubcategoryCode(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	first, err := f.rubros.NextCode(ctx, r.rubroID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.UltimoValor)
	assert.Equal(t, "GEN-001", first.CodigoSugerido)

	second, err := f.rubros.NextCode(ctx, r.rubroID)
	require.NoError(t, err)
	assert.Equal(t, "GEN-002", second.CodigoSugerido)

	_, err = f.rubros.NextCode(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubcategoryRequiresActiveCategory(t *testing.T) {
	f := newCatalog(t)
	ctx := context.Background()

	_, err := f.subs.Create(ctx, dto.CreateSubcategoryRequest{CodigoSubrubro: "X-1", Nombre: "X", RubroID: "no-existe"})
	requireValidationField(t, err, catalog.FieldCategoryID)

	_, err = f.subs.Create(ctx, dto.CreateSubcategoryRequest{CodigoSubrubro: "X-1", Nombre: "X"})
	requireValidationField(t, err, catalog.FieldCategoryID)

	r := f.seedRefs(t)
	require.NoError(t, f.subs.Delete(ctx, r.subID))
	require.NoError(t, f.rubros.Delete(ctx, r.rubroID))

	_, err = f.subs.Create(ctx, dto.CreateSubcategoryRequest{CodigoSubrubro: "GEN-002", Nombre: "Otro", RubroID: r.rubroID})
	requireValidationField(t, err, catalog.FieldCategoryID)

	_, err = f.subs.Reactivate(ctx, r.subID, dto.ReactivateRequest{})
	requireValidationField(t, err, catalog.FieldCategoryID)

	_, err = f.rubros.Reactivate(ctx, r.rubroID, dto.ReactivateRequest{})
	require.NoError(t, err)
	sub, err := f.subs.Reactivate(ctx, r.subID, dto.ReactivateRequest{})
	require.NoError(t, err)
	assert.False(t, sub.BajaLogica)
}

func TestSubcategoryListByCategory(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	other, err := f.rubros.Create(ctx, dto.CreateCategoryRequest{Codigo: "FER", Nombre: "Ferretería"})
	require.NoError(t, err)
	_, err = f.subs.Create(ctx, dto.CreateSubcategoryRequest{CodigoSubrubro: "FER-001", Nombre: "Clavos", RubroID: other.ID})
	require.NoError(t, err)

	all, err := f.subs.List(ctx, dto.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	gen, err := f.subs.List(ctx, dto.ListFilter{RubroID: r.rubroID})
	require.NoError(t, err)
	require.Len(t, gen, 1)
	assert.Equal(t, "GEN-001", gen[0].CodigoSubrubro)

	none, err := f.subs.List(ctx, dto.ListFilter{Estado: catalog.VisibilityInactive, RubroID: r.rubroID})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProductCreateNormalizesAndQuantizes(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, productRequest(r, "ab-1"))
	require.NoError(t, err)
	assert.Equal(t, "AB-1", p.SKU)
	assert.Equal(t, "ARS", p.MonedaCosto)
	assert.Equal(t, "10.1235", p.PrecioCosto)
	assert.Equal(t, "100.0000", p.PrecioBaseVenta)
	assert.True(t, p.StockTotal.Equal(decimal.RequireFromString("7.5")))

	bySKU, err := f.products.GetBySKU(ctx, " ab-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)

	_, err = f.products.GetBySKU(ctx, "ZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDefaultsCurrency(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)

	in := productRequest(r, "P1")
	in.MonedaCosto = ""
	p, err := f.products.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ARS", p.MonedaCosto)
}

func TestProductCreateChecksReferences(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	other, err := f.rubros.Create(ctx, dto.CreateCategoryRequest{Codigo: "FER", Nombre: "Ferretería"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*dto.CreateProductRequest)
		field  string
	}{
		{"unidad inexistente", func(in *dto.CreateProductRequest) { in.UnidadMedidaID = "nope" }, "unidad_medida_id"},
		{"condicion inexistente", func(in *dto.CreateProductRequest) { in.CondicionIVAID = "nope" }, "condicion_iva_id"},
		{"rubro inexistente", func(in *dto.CreateProductRequest) { in.RubroID = "nope" }, catalog.FieldCategoryID},
		{"subrubro de otro rubro", func(in *dto.CreateProductRequest) { in.RubroID = other.ID }, catalog.FieldSubcategoryID},
		{"subrubro sin rubro", func(in *dto.CreateProductRequest) { in.RubroID = "" }, catalog.FieldCategoryID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := productRequest(r, "P1")
			tt.mutate(&in)
			_, err := f.products.Create(ctx, in)
			requireValidationField(t, err, tt.field)
		})
	}

	// nada quedó escrito
	list, err := f.products.List(ctx, dto.ListFilter{Estado: catalog.VisibilityAll})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductRejectsInactiveReference(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	require.NoError(t, f.units.Delete(ctx, r.unitID))
	_, err := f.products.Create(ctx, productRequest(r, "P1"))
	requireValidationField(t, err, "unidad_medida_id")
}

func TestProductUpdate(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, productRequest(r, "P1"))
	require.NoError(t, err)

	price := decimal.RequireFromString("12.00005")
	name := "Tornillo largo"
	updated, err := f.products.Update(ctx, p.ID, dto.UpdateProductRequest{Nombre: &name, PrecioBaseVenta: &price})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo largo", updated.Nombre)
	assert.Equal(t, "12.0001", updated.PrecioBaseVenta)
	assert.Equal(t, p.PrecioCosto, updated.PrecioCosto)
	assert.Len(t, updated.StockDepositos, 2)

	tax, err := f.taxes.Create(ctx, dto.CreateTaxConditionRequest{CodigoIVA: "0", Nombre: "Exento", Alicuota: decimal.Zero})
	require.NoError(t, err)
	require.NoError(t, f.taxes.Delete(ctx, tax.ID))
	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{CondicionIVAID: &tax.ID})
	requireValidationField(t, err, "condicion_iva_id")

	negative := decimal.NewFromInt(-1)
	_, err = f.products.Update(ctx, p.ID, dto.UpdateProductRequest{PrecioCosto: &negative})
	requireValidationField(t, err, "precio_costo")

	_, err = f.products.Update(ctx, "no-existe", dto.UpdateProductRequest{Nombre: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReferencedTaxConditionCannotBeDeleted(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	p, err := f.products.Create(ctx, productRequest(r, "P1"))
	require.NoError(t, err)

	err = f.taxes.Delete(ctx, r.taxID)
	var blocked *catalog.BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.Equal(t, []string{"productos"}, blocked.Dependents)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	require.NoError(t, f.taxes.Delete(ctx, r.taxID))

	// reactivar el producto exige su condición de IVA activa
	_, err = f.products.Reactivate(ctx, p.ID, dto.ReactivateRequest{})
	requireValidationField(t, err, "condicion_iva_id")
}

func TestKitComponentsMustBeActiveProducts(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	part, err := f.products.Create(ctx, productRequest(r, "P1"))
	require.NoError(t, err)

	kit := productRequest(r, "KIT1")
	kit.EsKit = true
	kit.ComponentesKit = []dto.KitComponentDTO{{ProductoID: part.ID, Cantidad: decimal.NewFromInt(2)}}
	created, err := f.products.Create(ctx, kit)
	require.NoError(t, err)
	require.Len(t, created.ComponentesKit, 1)
	assert.Equal(t, part.ID, created.ComponentesKit[0].ProductoID)

	// un componente no se da de baja mientras algún kit activo lo use
	err = f.products.Delete(ctx, part.ID)
	var blocked *catalog.BlockedError
	require.True(t, errors.As(err, &blocked), "se esperaba BlockedError, se obtuvo %v", err)
	assert.Equal(t, []string{"productos"}, blocked.Dependents)

	require.NoError(t, f.products.Delete(ctx, created.ID))
	require.NoError(t, f.products.Delete(ctx, part.ID))

	kit.SKU = "KIT2"
	_, err = f.products.Create(ctx, kit)
	requireValidationField(t, err, "componentes_kit")

	kit.SKU = "KIT3"
	kit.EsKit = false
	_, err = f.products.Create(ctx, kit)
	requireValidationField(t, err, "componentes_kit")
}

type capturingRenderer struct {
	got dto.PriceList
}

func (r *capturingRenderer) Render(list dto.PriceList) ([]byte, error) {
	r.got = list
	return []byte("%PDF-fake"), nil
}

func TestPriceListBuildsActiveRowsWithFinalPrice(t *testing.T) {
	f := newCatalog(t)
	r := f.seedRefs(t)
	ctx := context.Background()

	acc, err := f.rubros.Create(ctx, dto.CreateCategoryRequest{Codigo: "AAA", Nombre: "Accesorios"})
	require.NoError(t, err)

	b := productRequest(r, "B2")
	_, err = f.products.Create(ctx, b)
	require.NoError(t, err)
	a := productRequest(r, "A1")
	_, err = f.products.Create(ctx, a)
	require.NoError(t, err)
	c := productRequest(r, "C3")
	c.RubroID, c.SubrubroID = acc.ID, ""
	c.PrecioBaseVenta = decimal.RequireFromString("10.555")
	_, err = f.products.Create(ctx, c)
	require.NoError(t, err)
	gone, err := f.products.Create(ctx, productRequest(r, "Z9"))
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, gone.ID))

	renderer := &capturingRenderer{}
	out, err := usecase.NewPriceListUseCase(f.engine, renderer).Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))

	rows := renderer.got.Rows
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"C3", "A1", "B2"}, []string{rows[0].SKU, rows[1].SKU, rows[2].SKU})
	assert.Equal(t, "Accesorios", rows[0].Rubro)
	assert.Equal(t, "UN", rows[1].Unidad)
	assert.True(t, rows[1].PrecioFinal.Equal(decimal.NewFromInt(121)), rows[1].PrecioFinal.String())
	// 10.555 * 1.21 = 12.77155
	assert.True(t, rows[0].PrecioFinal.Equal(decimal.RequireFromString("12.77")), rows[0].PrecioFinal.String())
}
