package entity

import "github.com/jhoicas/Catalogo-api/internal/domain/catalog"

// UnitOfMeasure unidad de medida de venta o stock (UN, KG, LT...).
type UnitOfMeasure struct {
	ID       string `json:"id"`
	Code     string `json:"codigo_unidad"`
	Name     string `json:"nombre"`
	Inactive bool   `json:"baja_logica"`
}

func (u UnitOfMeasure) Validate() error {
	k := catalog.UnitsOfMeasure
	return firstError(
		requireText(k.KeyField, u.Code, k.KeyMaxLen),
		requireText(catalog.FieldName, u.Name, k.NameMaxLen),
	)
}
