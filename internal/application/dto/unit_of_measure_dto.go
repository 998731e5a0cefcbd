package dto

// CreateUnitOfMeasureRequest entrada para crear una unidad de medida.
type CreateUnitOfMeasureRequest struct {
	CodigoUnidad string `json:"codigo_unidad"`
	Nombre       string `json:"nombre"`
}

// UpdateUnitOfMeasureRequest actualización parcial.
type UpdateUnitOfMeasureRequest struct {
	Nombre *string `json:"nombre,omitempty"`
}

// UnitOfMeasureResponse salida.
type UnitOfMeasureResponse struct {
	ID           string `json:"id"`
	CodigoUnidad string `json:"codigo_unidad"`
	Nombre       string `json:"nombre"`
	BajaLogica   bool   `json:"baja_logica"`
}
