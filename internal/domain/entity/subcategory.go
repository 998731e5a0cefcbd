package entity

import "github.com/jhoicas/Catalogo-api/internal/domain/catalog"

// Subcategory subrubro dentro de un rubro.
type Subcategory struct {
	ID         string `json:"id"`
	Code       string `json:"codigo_subrubro"`
	Name       string `json:"nombre"`
	CategoryID string `json:"rubro_id"`
	Inactive   bool   `json:"baja_logica"`
}

func (s Subcategory) Validate() error {
	k := catalog.Subcategories
	return firstError(
		requireText(k.KeyField, s.Code, k.KeyMaxLen),
		requireText(catalog.FieldName, s.Name, k.NameMaxLen),
		requireText(catalog.FieldCategoryID, s.CategoryID, 64),
	)
}
