package entity

import "github.com/jhoicas/Catalogo-api/internal/domain/catalog"

// Category representa un rubro: agrupador de primer nivel de productos.
// Cada rubro tiene un contador propio para numerar sus subrubros.
type Category struct {
	ID       string `json:"id"`
	Code     string `json:"codigo"`
	Name     string `json:"nombre"`
	Inactive bool   `json:"baja_logica"`
}

// Validate verifica longitudes y campos requeridos.
func (c Category) Validate() error {
	k := catalog.Categories
	return firstError(
		requireText(k.KeyField, c.Code, k.KeyMaxLen),
		requireText(catalog.FieldName, c.Name, k.NameMaxLen),
	)
}
