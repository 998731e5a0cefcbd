package dto

import "github.com/shopspring/decimal"

// CreateTaxConditionRequest entrada para crear una condición de IVA.
type CreateTaxConditionRequest struct {
	CodigoIVA string          `json:"codigo_iva"`
	Nombre    string          `json:"nombre"`
	Alicuota  decimal.Decimal `json:"alicuota"`
}

// UpdateTaxConditionRequest actualización parcial.
type UpdateTaxConditionRequest struct {
	Nombre   *string          `json:"nombre,omitempty"`
	Alicuota *decimal.Decimal `json:"alicuota,omitempty"`
}

// TaxConditionResponse salida.
type TaxConditionResponse struct {
	ID         string          `json:"id"`
	CodigoIVA  string          `json:"codigo_iva"`
	Nombre     string          `json:"nombre"`
	Alicuota   decimal.Decimal `json:"alicuota"`
	BajaLogica bool            `json:"baja_logica"`
}
