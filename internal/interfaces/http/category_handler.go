package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
)

// CategoryHandler rutas propias de rubros, además del CRUD común.
type CategoryHandler struct {
	uc  *usecase.CategoryUseCase
	log zerolog.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{uc: uc, log: log}
}

// NextCode godoc
// @Summary      Emitir el siguiente código de subrubro
// @Tags         rubros
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del rubro"
// @Success      200  {object}  dto.CounterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rubros/{id}/codigo/next [post]
func (h *CategoryHandler) NextCode(c *fiber.Ctx) error {
	out, err := h.uc.NextCode(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
