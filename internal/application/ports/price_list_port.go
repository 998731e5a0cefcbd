package ports

import "github.com/jhoicas/Catalogo-api/internal/application/dto"

// PriceListRenderer puerto de salida que convierte una lista de precios en un documento
// (PDF en la implementación con maroto).
type PriceListRenderer interface {
	Render(list dto.PriceList) ([]byte, error)
}
