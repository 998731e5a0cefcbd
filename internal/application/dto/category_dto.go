package dto

// CreateCategoryRequest entrada para crear un rubro.
type CreateCategoryRequest struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// UpdateCategoryRequest actualización parcial de un rubro.
type UpdateCategoryRequest struct {
	Nombre *string `json:"nombre,omitempty"`
}

// CategoryResponse salida de rubro.
type CategoryResponse struct {
	ID         string `json:"id"`
	Codigo     string `json:"codigo"`
	Nombre     string `json:"nombre"`
	BajaLogica bool   `json:"baja_logica"`
}

// CreateSubcategoryRequest entrada para crear un subrubro.
type CreateSubcategoryRequest struct {
	CodigoSubrubro string `json:"codigo_subrubro"`
	Nombre         string `json:"nombre"`
	RubroID        string `json:"rubro_id"`
}

// UpdateSubcategoryRequest actualización parcial de un subrubro.
type UpdateSubcategoryRequest struct {
	Nombre *string `json:"nombre,omitempty"`
}

// SubcategoryResponse salida de subrubro.
type SubcategoryResponse struct {
	ID             string `json:"id"`
	CodigoSubrubro string `json:"codigo_subrubro"`
	Nombre         string `json:"nombre"`
	RubroID        string `json:"rubro_id"`
	BajaLogica     bool   `json:"baja_logica"`
}
