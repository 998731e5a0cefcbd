package seed_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/application/seed"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/sqlite"
)

const seedYAML = `
condiciones_iva:
  - {codigo: "21", nombre: "IVA 21%", alicuota: "21"}
  - {codigo: "10.5", nombre: "IVA 10,5%", alicuota: "10.5"}
unidades_medida:
  - {codigo: un, nombre: Unidad}
rubros:
  - codigo: fer
    nombre: Ferretería
    subrubros:
      - {codigo: fer-001, nombre: Tornillos}
      - {nombre: Clavos}
productos:
  - sku: t-100
    nombre: Tornillo 1/4
    precio_costo: "10.12345"
    precio_base_venta: "100"
    unidad: un
    condicion_iva: "21"
    rubro: fer
    subrubro: fer-001
    stock:
      central: "5"
      norte: "2.5"
`

func newEngine(t *testing.T) *lifecycle.Engine {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.Config{
		Path: filepath.Join(t.TempDir(), "seed.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return lifecycle.NewEngine(store, zerolog.Nop(), nil)
}

func parse(t *testing.T, s string) *seed.File {
	t.Helper()
	f, err := seed.Parse(strings.NewReader(s), false)
	require.NoError(t, err)
	return f
}

func TestParse(t *testing.T) {
	f := parse(t, seedYAML)
	assert.Len(t, f.CondicionesIVA, 2)
	require.Len(t, f.Rubros, 1)
	assert.Len(t, f.Rubros[0].Subrubros, 2)
	require.Len(t, f.Productos, 1)
	assert.Equal(t, "2.5", f.Productos[0].Stock["norte"])

	t.Run("vacío", func(t *testing.T) {
		f, err := seed.Parse(strings.NewReader(""), false)
		require.NoError(t, err)
		assert.Empty(t, f.Productos)
	})

	t.Run("campo desconocido", func(t *testing.T) {
		_, err := seed.Parse(strings.NewReader("marcas: []\n"), false)
		assert.Error(t, err)
	})

	t.Run("latin1", func(t *testing.T) {
		// "Caña" y "Ferretería" en ISO-8859-1
		raw := []byte("rubros:\n  - {codigo: CA, nombre: \"Ca\xf1a\"}\n  - {codigo: FE, nombre: \"Ferreter\xeda\"}\n")
		f, err := seed.Parse(bytes.NewReader(raw), true)
		require.NoError(t, err)
		require.Len(t, f.Rubros, 2)
		assert.Equal(t, "Caña", f.Rubros[0].Nombre)
		assert.Equal(t, "Ferretería", f.Rubros[1].Nombre)
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	engine := newEngine(t)
	f := parse(t, seedYAML)

	report, err := seed.NewImporter(engine, zerolog.Nop(), false).Import(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 2, report[catalog.TaxConditions.Collection].Created)
	assert.Equal(t, 1, report[catalog.UnitsOfMeasure.Collection].Created)
	assert.Equal(t, 1, report[catalog.Categories.Collection].Created)
	assert.Equal(t, 2, report[catalog.Subcategories.Collection].Created)
	assert.Equal(t, 1, report[catalog.Products.Collection].Created)

	products := usecase.NewProductUseCase(engine)
	p, err := products.GetBySKU(ctx, "T-100")
	require.NoError(t, err)
	assert.Equal(t, "10.1235", p.PrecioCosto)
	assert.Equal(t, "ARS", p.MonedaCosto)
	assert.Equal(t, "7.5", p.StockTotal.String())
	assert.NotEmpty(t, p.SubrubroID)

	// el subrubro sin código recibe el siguiente del contador del rubro
	subs, err := usecase.NewSubcategoryUseCase(engine).List(ctx, dto.ListFilter{})
	require.NoError(t, err)
	codes := make([]string, 0, len(subs))
	for _, s := range subs {
		codes = append(codes, s.CodigoSubrubro)
	}
	assert.Contains(t, codes, "FER-001")
	assert.Contains(t, codes, "FER-002")

	t.Run("reimportar reutiliza los existentes", func(t *testing.T) {
		again := parse(t, strings.Replace(seedYAML, "      - {nombre: Clavos}\n", "", 1))
		report, err := seed.NewImporter(engine, zerolog.Nop(), false).Import(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, 2, report[catalog.TaxConditions.Collection].Existing)
		assert.Zero(t, report[catalog.TaxConditions.Collection].Created)
		assert.Equal(t, 1, report[catalog.Subcategories.Collection].Existing)
		assert.Equal(t, 1, report[catalog.Products.Collection].Existing)
	})

	t.Run("dados de baja", func(t *testing.T) {
		require.NoError(t, products.Delete(ctx, p.ID))
		only := &seed.File{Productos: f.Productos, CondicionesIVA: f.CondicionesIVA, Unidades: f.Unidades, Rubros: f.Rubros[:1]}
		only.Rubros[0].Subrubros = only.Rubros[0].Subrubros[:1]

		report, err := seed.NewImporter(engine, zerolog.Nop(), false).Import(ctx, only)
		require.NoError(t, err)
		assert.Equal(t, 1, report[catalog.Products.Collection].Inactive)

		report, err = seed.NewImporter(engine, zerolog.Nop(), true).Import(ctx, only)
		require.NoError(t, err)
		assert.Equal(t, 1, report[catalog.Products.Collection].Reactivated)
		got, err := products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, got.BajaLogica)
	})
}

func TestImportUnknownReference(t *testing.T) {
	f := parse(t, `
unidades_medida:
  - {codigo: un, nombre: Unidad}
productos:
  - {sku: x-1, nombre: Suelto, precio_base_venta: "1", unidad: un, condicion_iva: "27"}
`)
	_, err := seed.NewImporter(newEngine(t), zerolog.Nop(), false).Import(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `condicion_iva "27"`)
}

func TestReportCollections(t *testing.T) {
	r := seed.Report{"rubros": {}, "condiciones_iva": {}}
	assert.Equal(t, []string{"condiciones_iva", "rubros"}, r.Collections())
}
