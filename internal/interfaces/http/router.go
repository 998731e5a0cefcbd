package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
	"github.com/jhoicas/Catalogo-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TaxConditionUC  *usecase.TaxConditionUseCase
	UnitOfMeasureUC *usecase.UnitOfMeasureUseCase
	CategoryUC      *usecase.CategoryUseCase
	SubcategoryUC   *usecase.SubcategoryUseCase
	ProductUC       *usecase.ProductUseCase
	PriceListUC     *usecase.PriceListUseCase
	JWTSecret       string
	Log             zerolog.Logger
}

// Router registra las rutas de la API. Todo /api exige Bearer Token; las escrituras
// exigen rol admin o catalogo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	read := RequireRole(jwt.Roles()...)
	write := RequireRole(jwt.RoleAdmin, jwt.RoleCatalogo)
	log := deps.Log.With().Str("component", "http").Logger()

	// Condiciones de IVA
	NewCatalogHandler[dto.CreateTaxConditionRequest, dto.UpdateTaxConditionRequest, dto.TaxConditionResponse](catalog.TaxConditions, deps.TaxConditionUC, log).register(api.Group("/condiciones-iva"), read, write)

	// Unidades de medida
	NewCatalogHandler[dto.CreateUnitOfMeasureRequest, dto.UpdateUnitOfMeasureRequest, dto.UnitOfMeasureResponse](catalog.UnitsOfMeasure, deps.UnitOfMeasureUC, log).register(api.Group("/unidades-medida"), read, write)

	// Rubros (+ contador de códigos de subrubro)
	rubros := api.Group("/rubros")
	rubros.Post("/:id/codigo/next", write, NewCategoryHandler(deps.CategoryUC, log).NextCode)
	NewCatalogHandler[dto.CreateCategoryRequest, dto.UpdateCategoryRequest, dto.CategoryResponse](catalog.Categories, deps.CategoryUC, log).register(rubros, read, write)

	// Subrubros (?rubro_id= en el listado)
	NewCatalogHandler[dto.CreateSubcategoryRequest, dto.UpdateSubcategoryRequest, dto.SubcategoryResponse](catalog.Subcategories, deps.SubcategoryUC, log).register(api.Group("/subrubros"), read, write)

	// Productos: las rutas fijas van antes de /:id
	productos := api.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC, deps.PriceListUC, log)
	productos.Get("/lista-precios", read, productHandler.PriceList)
	productos.Get("/sku/:sku", read, productHandler.GetBySKU)
	NewCatalogHandler[dto.CreateProductRequest, dto.UpdateProductRequest, dto.ProductResponse](catalog.Products, deps.ProductUC, log).register(productos, read, write)
}
