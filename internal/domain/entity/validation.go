package entity

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/domain"
)

func requireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "es requerido")
	}
	return maxText(field, value, max)
}

func maxText(field, value string, max int) error {
	if n := utf8.RuneCountInString(value); n > max {
		return domain.NewValidationError(field, "máximo %d caracteres (tiene %d)", max, n)
	}
	return nil
}

func nonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return domain.NewValidationError(field, "no puede ser negativo")
	}
	return nil
}

// firstError devuelve el primer error no nil.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
