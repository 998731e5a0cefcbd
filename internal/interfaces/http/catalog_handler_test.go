package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/Catalogo-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Catalogo-api/pkg/jwt"
)

func newCatalogApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := sqlite.Open(context.Background(), sqlite.Config{
		Path: filepath.Join(t.TempDir(), "catalogo.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine := lifecycle.NewEngine(store, zerolog.Nop(), nil)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		TaxConditionUC:  usecase.NewTaxConditionUseCase(engine),
		UnitOfMeasureUC: usecase.NewUnitOfMeasureUseCase(engine),
		CategoryUC:      usecase.NewCategoryUseCase(engine),
		SubcategoryUC:   usecase.NewSubcategoryUseCase(engine),
		ProductUC:       usecase.NewProductUseCase(engine),
		PriceListUC:     usecase.NewPriceListUseCase(engine, pdf.NewPriceListGenerator("test")),
		JWTSecret:       testJWTSecret,
		Log:             zerolog.Nop(),
	})
	return app
}

// call hace la petición con un token del rol indicado y decodifica el cuerpo JSON (si hay).
func call(t *testing.T, app *fiber.App, role, method, path string, body any) (int, map[string]any, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var obj map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &obj))
	}
	return resp.StatusCode, obj, raw
}

func listLen(t *testing.T, raw []byte) int {
	t.Helper()
	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw, &items))
	return len(items)
}

func detail(body map[string]any) map[string]any {
	d, _ := body["detail"].(map[string]any)
	return d
}

func TestCategoryLifecycleOverHTTP(t *testing.T) {
	app := newCatalogApp(t)
	admin := pkgjwt.RoleAdmin

	status, created, _ := call(t, app, admin, http.MethodPost, "/api/rubros", map[string]string{"codigo": "gen", "nombre": "General"})
	require.Equal(t, http.StatusCreated, status)
	id := created["id"].(string)
	assert.Equal(t, "GEN", created["codigo"])
	assert.Equal(t, false, created["baja_logica"])

	status, body, _ := call(t, app, admin, http.MethodPost, "/api/rubros", map[string]string{"codigo": "GEN", "nombre": "Otro"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EXISTE_ACTIVO", body["code"])
	assert.Equal(t, "codigo", detail(body)["campo"])
	assert.Equal(t, "GEN", detail(body)["codigo"])

	status, _, _ = call(t, app, admin, http.MethodDelete, "/api/rubros/"+id, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body, _ = call(t, app, admin, http.MethodDelete, "/api/rubros/"+id, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "YA_INACTIVO", body["code"])

	status, body, _ = call(t, app, admin, http.MethodPost, "/api/rubros", map[string]string{"codigo": "gen", "nombre": "General"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "EXISTE_INACTIVO", detail(body)["status"])
	assert.Equal(t, id, detail(body)["id_inactivo"])

	status, body, _ = call(t, app, admin, http.MethodPost, "/api/rubros/"+id+"/reactivar", map[string]string{"nombre": "General 2"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "General 2", body["nombre"])
	assert.Equal(t, false, body["baja_logica"])

	status, body, _ = call(t, app, admin, http.MethodPost, "/api/rubros/"+id+"/reactivar", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "YA_ACTIVO", body["code"])
}

func TestListVisibilityOverHTTP(t *testing.T) {
	app := newCatalogApp(t)
	admin := pkgjwt.RoleAdmin

	for _, code := range []string{"UN", "KG", "LT"} {
		status, _, _ := call(t, app, admin, http.MethodPost, "/api/unidades-medida", map[string]string{"codigo_unidad": code, "nombre": code})
		require.Equal(t, http.StatusCreated, status)
	}
	_, _, raw := call(t, app, admin, http.MethodGet, "/api/unidades-medida", nil)
	var units []map[string]any
	require.NoError(t, json.Unmarshal(raw, &units))
	require.Len(t, units, 3)

	status, _, _ := call(t, app, admin, http.MethodDelete, "/api/unidades-medida/"+units[0]["id"].(string), nil)
	require.Equal(t, http.StatusNoContent, status)

	_, _, active := call(t, app, pkgjwt.RoleConsulta, http.MethodGet, "/api/unidades-medida?estado=activos", nil)
	_, _, inactive := call(t, app, pkgjwt.RoleConsulta, http.MethodGet, "/api/unidades-medida?estado=inactivos", nil)
	_, _, all := call(t, app, pkgjwt.RoleConsulta, http.MethodGet, "/api/unidades-medida?estado=todos", nil)
	assert.Equal(t, 2, listLen(t, active))
	assert.Equal(t, 1, listLen(t, inactive))
	assert.Equal(t, 3, listLen(t, all))

	status, body, _ := call(t, app, admin, http.MethodGet, "/api/unidades-medida?estado=borrados", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestErrorMappingOverHTTP(t *testing.T) {
	app := newCatalogApp(t)
	admin := pkgjwt.RoleAdmin

	status, body, _ := call(t, app, admin, http.MethodGet, "/api/condiciones-iva/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])

	status, body, _ = call(t, app, admin, http.MethodPost, "/api/condiciones-iva", map[string]any{"codigo_iva": "21", "nombre": "IVA", "alicuota": 150})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	req := httptest.NewRequest(http.MethodPost, "/api/condiciones-iva", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, admin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, _, _ = call(t, app, pkgjwt.RoleConsulta, http.MethodPost, "/api/condiciones-iva", map[string]any{"codigo_iva": "21", "nombre": "IVA", "alicuota": 21})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPatchStrictOverHTTP(t *testing.T) {
	app := newCatalogApp(t)
	admin := pkgjwt.RoleAdmin

	status, created, _ := call(t, app, admin, http.MethodPost, "/api/rubros", map[string]string{"codigo": "GEN", "nombre": "General"})
	require.Equal(t, http.StatusCreated, status)
	id := created["id"].(string)

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{name: "clave de negocio", body: map[string]any{"codigo": "XXX", "nombre": "Y"}, want: "codigo"},
		{name: "id", body: map[string]any{"id": "otro"}, want: "id"},
		{name: "baja lógica", body: map[string]any{"baja_logica": true}, want: "baja_logica"},
		{name: "campo desconocido", body: map[string]any{"nombre": "Y", "color": "rojo"}, want: "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, _ := call(t, app, admin, http.MethodPatch, "/api/rubros/"+id, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION", body["code"])
			assert.Contains(t, body["message"], tt.want)
		})
	}

	// nada de lo rechazado llegó a escribirse
	status, got, _ := call(t, app, admin, http.MethodGet, "/api/rubros/"+id, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "GEN", got["codigo"])
	assert.Equal(t, "General", got["nombre"])

	status, got, _ = call(t, app, admin, http.MethodPatch, "/api/rubros/"+id, map[string]any{"nombre": "Generales"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Generales", got["nombre"])
}

func TestCategoryWithActiveChildrenOverHTTP(t *testing.T) {
	app := newCatalogApp(t)
	admin := pkgjwt.RoleCatalogo

	_, rubro, _ := call(t, app, admin, http.MethodPost, "/api/rubros", map[string]string{"codigo": "GEN", "nombre": "General"})
	rubroID := rubro["id"].(string)

	status, counter, _ := call(t, app, admin, http.MethodPost, "/api/rubros/"+rubroID+"/codigo/next", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), counter["ultimo_valor"])
	assert.Equal(t, "GEN-001", counter["codigo_sugerido"])

	status, sub, _ := call(t, app, admin, http.MethodPost, "/api/subrubros", map[string]string{
		"codigo_subrubro": counter["codigo_sugerido"].(string), "nombre": "Varios", "rubro_id": rubroID,
	})
	require.Equal(t, http.StatusCreated, status)

	_, _, filtered := call(t, app, admin, http.MethodGet, "/api/subrubros?rubro_id="+rubroID, nil)
	assert.Equal(t, 1, listLen(t, filtered))
	_, _, other := call(t, app, admin, http.MethodGet, "/api/subrubros?rubro_id=otro", nil)
	assert.Equal(t, 0, listLen(t, other))

	status, body, _ := call(t, app, admin, http.MethodDelete, "/api/rubros/"+rubroID, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "TIENE_HIJOS_ACTIVOS", body["code"])
	assert.Equal(t, []any{"subrubros"}, detail(body)["dependientes"])

	status, _, _ = call(t, app, admin, http.MethodDelete, "/api/subrubros/"+sub["id"].(string), nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _, _ = call(t, app, admin, http.MethodDelete, "/api/rubros/"+rubroID, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestProductRoutesOverHTTP(t *testing.T) {
	app := newCatalogApp(t)
	admin := pkgjwt.RoleAdmin

	_, tax, _ := call(t, app, admin, http.MethodPost, "/api/condiciones-iva", map[string]any{"codigo_iva": "21", "nombre": "IVA 21%", "alicuota": "21"})
	_, unit, _ := call(t, app, admin, http.MethodPost, "/api/unidades-medida", map[string]string{"codigo_unidad": "UN", "nombre": "Unidad"})

	status, product, _ := call(t, app, admin, http.MethodPost, "/api/productos", map[string]any{
		"sku":               "ab-1",
		"nombre":            "Tornillo",
		"precio_costo":      "10.5",
		"precio_base_venta": 100,
		"moneda_costo":      "ARS",
		"unidad_medida_id":  unit["id"],
		"condicion_iva_id":  tax["id"],
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "AB-1", product["sku"])
	assert.Equal(t, "10.5000", product["precio_costo"])
	id := product["id"].(string)

	status, bySKU, _ := call(t, app, pkgjwt.RoleConsulta, http.MethodGet, "/api/productos/sku/ab-1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, id, bySKU["id"])

	status, patched, _ := call(t, app, admin, http.MethodPatch, "/api/productos/"+id, map[string]any{"observaciones": "caja x 100"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "caja x 100", patched["observaciones"])
	assert.Equal(t, "Tornillo", patched["nombre"])
	assert.Equal(t, "100.0000", patched["precio_base_venta"])

	req := httptest.NewRequest(http.MethodGet, "/api/productos/lista-precios", nil)
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleConsulta))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	doc, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	status, body, _ := call(t, app, admin, http.MethodDelete, "/api/unidades-medida/"+unit["id"].(string), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, []any{"productos"}, detail(body)["dependientes"])
}
