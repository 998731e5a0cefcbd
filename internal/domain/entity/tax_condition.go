package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
)

// RatePlaces decimales de la alícuota.
const RatePlaces = 2

var maxRate = decimal.NewFromInt(100)

// TaxCondition condición frente al IVA con su alícuota porcentual (0 a 100).
type TaxCondition struct {
	ID       string          `json:"id"`
	Code     string          `json:"codigo_iva"`
	Name     string          `json:"nombre"`
	Rate     decimal.Decimal `json:"alicuota"`
	Inactive bool            `json:"baja_logica"`
}

// Normalize redondea la alícuota a RatePlaces.
func (t *TaxCondition) Normalize() {
	t.Rate = t.Rate.Round(RatePlaces)
}

func (t TaxCondition) Validate() error {
	k := catalog.TaxConditions
	if err := firstError(
		requireText(k.KeyField, t.Code, k.KeyMaxLen),
		requireText(catalog.FieldName, t.Name, k.NameMaxLen),
		nonNegative("alicuota", t.Rate),
	); err != nil {
		return err
	}
	if t.Rate.GreaterThan(maxRate) {
		return domain.NewValidationError("alicuota", "no puede superar 100")
	}
	return nil
}

// Multiplier factor por el que se multiplica un precio neto: 1 + alícuota/100.
func (t TaxCondition) Multiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(t.Rate.Div(maxRate))
}
