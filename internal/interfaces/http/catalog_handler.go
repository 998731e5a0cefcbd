package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
)

var errMalformedBody = errors.New("cuerpo mal formado")

// CatalogUseCase operaciones comunes a todos los tipos del catálogo.
// C es la entrada de alta, U la de actualización parcial y R la salida.
type CatalogUseCase[C, U, R any] interface {
	Create(ctx context.Context, in C) (*R, error)
	List(ctx context.Context, f dto.ListFilter) ([]R, error)
	GetByID(ctx context.Context, id string) (*R, error)
	Update(ctx context.Context, id string, in U) (*R, error)
	Reactivate(ctx context.Context, id string, in dto.ReactivateRequest) (*R, error)
	Delete(ctx context.Context, id string) error
}

// CatalogHandler maneja las rutas CRUD de un tipo del catálogo.
type CatalogHandler[C, U, R any] struct {
	kind catalog.Kind
	uc   CatalogUseCase[C, U, R]
	log  zerolog.Logger
}

// NewCatalogHandler construye el handler. kind define los campos que un PATCH no puede tocar.
func NewCatalogHandler[C, U, R any](kind catalog.Kind, uc CatalogUseCase[C, U, R], log zerolog.Logger) *CatalogHandler[C, U, R] {
	return &CatalogHandler[C, U, R]{kind: kind, uc: uc, log: log}
}

// Create responde 201 con el documento creado o 409 con el detalle de conflicto.
func (h *CatalogHandler[C, U, R]) Create(c *fiber.Ctx) error {
	var in C
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List acepta ?estado=activos|inactivos|todos (default activos) y ?rubro_id=.
func (h *CatalogHandler[C, U, R]) List(c *fiber.Ctx) error {
	vis, err := catalog.ParseVisibility(c.Query("estado"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), dto.ListFilter{Estado: vis, RubroID: c.Query("rubro_id")})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler[C, U, R]) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update aplica solo los campos presentes en el cuerpo y devuelve la lectura actualizada.
// El id, la clave de negocio, baja_logica y los campos desconocidos responden 400.
func (h *CatalogHandler[C, U, R]) Update(c *fiber.Ctx) error {
	var in U
	if err := decodePatch(h.kind, c.Body(), &in); err != nil {
		if errors.Is(err, errMalformedBody) {
			return invalidBody(c)
		}
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reactivate el cuerpo es opcional: {"nombre": "..."}.
func (h *CatalogHandler[C, U, R]) Reactivate(c *fiber.Ctx) error {
	var in dto.ReactivateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Reactivate(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete baja lógica; 204 sin cuerpo.
func (h *CatalogHandler[C, U, R]) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// register monta las rutas comunes sobre g. read y write son los middlewares de rol.
func (h *CatalogHandler[C, U, R]) register(g fiber.Router, read, write fiber.Handler) {
	g.Post("/", write, h.Create)
	g.Get("/", read, h.List)
	g.Get("/:id", read, h.GetByID)
	g.Patch("/:id", write, h.Update)
	g.Delete("/:id", write, h.Delete)
	g.Post("/:id/reactivar", write, h.Reactivate)
}

// decodePatch decodifica un PATCH de forma estricta: primero como mapa para rechazar los
// campos inmutables del tipo, luego sobre el DTO sin admitir campos desconocidos.
func decodePatch(kind catalog.Kind, body []byte, dst any) error {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return errMalformedBody
	}
	if err := lifecycle.CheckMutable(kind, fields); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		// encoding/json no expone un tipo para este caso
		if name, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return domain.NewValidationError(strings.Trim(name, `"`), "campo desconocido")
		}
		return errMalformedBody
	}
	return nil
}
