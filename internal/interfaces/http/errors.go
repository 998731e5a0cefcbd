package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
)

// respondError traduce un error de dominio a status y cuerpo. Solo los 500 se registran.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		verr *domain.ValidationError
		cerr *catalog.ConflictError
		berr *catalog.BlockedError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()})
	case errors.As(err, &cerr):
		return c.Status(fiber.StatusConflict).JSON(dto.ConflictResponse{
			Code:    cerr.Status,
			Message: cerr.Error(),
			Detail: dto.ConflictDetail{
				Status:     cerr.Status,
				IDInactivo: cerr.InactiveID,
				Campo:      cerr.Field,
				Codigo:     cerr.Key,
			},
		})
	case errors.As(err, &berr):
		return c.Status(fiber.StatusConflict).JSON(dto.ConflictResponse{
			Code:    berr.Status(),
			Message: berr.Error(),
			Detail:  dto.ConflictDetail{Status: berr.Status(), Dependientes: berr.Dependents},
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyInactive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "YA_INACTIVO", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyActive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "YA_ACTIVO", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
