package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AmountPlaces precisión fija de importes de producto.
const AmountPlaces = 4

// Amount importe cuantizado a AmountPlaces decimales (mitad hacia arriba).
// Se serializa como string con todos los decimales, p. ej. "10.5000".
type Amount struct {
	decimal.Decimal
}

// NewAmount cuantiza d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d.Round(AmountPlaces)}
}

// MustAmount parsea un literal; solo para constantes y tests.
func MustAmount(s string) Amount {
	return NewAmount(decimal.RequireFromString(s))
}

func (a Amount) String() string {
	return a.StringFixed(AmountPlaces)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = NewAmount(d)
	return nil
}
