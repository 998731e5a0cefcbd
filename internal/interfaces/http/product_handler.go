package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
)

// ProductHandler rutas propias de productos, además del CRUD común.
type ProductHandler struct {
	uc        *usecase.ProductUseCase
	priceList *usecase.PriceListUseCase
	log       zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, priceList *usecase.PriceListUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, priceList: priceList, log: log}
}

// GetBySKU godoc
// @Summary      Obtener producto por SKU
// @Tags         productos
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU (no distingue mayúsculas)"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/sku/{sku} [get]
func (h *ProductHandler) GetBySKU(c *fiber.Ctx) error {
	out, err := h.uc.GetBySKU(c.UserContext(), c.Params("sku"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PriceList godoc
// @Summary      Lista de precios en PDF
// @Tags         productos
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/productos/lista-precios [get]
func (h *ProductHandler) PriceList(c *fiber.Ctx) error {
	doc, err := h.priceList.Render(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename="lista-precios-%s.pdf"`, time.Now().Format("20060102")))
	return c.Send(doc)
}
