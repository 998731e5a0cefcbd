package dto

import "github.com/jhoicas/Catalogo-api/internal/domain/catalog"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConflictDetail detalle que el frontend usa para ofrecer la reactivación.
type ConflictDetail struct {
	Status       string   `json:"status"`
	IDInactivo   string   `json:"id_inactivo,omitempty"`
	Campo        string   `json:"campo,omitempty"`
	Codigo       string   `json:"codigo,omitempty"`
	Dependientes []string `json:"dependientes,omitempty"`
}

// ConflictResponse cuerpo de los 409 de unicidad y de baja bloqueada.
type ConflictResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Detail  ConflictDetail `json:"detail"`
}

// ListFilter parámetros de listado. RubroID solo aplica a subrubros.
type ListFilter struct {
	Estado  catalog.Visibility
	RubroID string
}

// ReactivateRequest cuerpo opcional de POST /:id/reactivar.
type ReactivateRequest struct {
	Nombre *string `json:"nombre,omitempty"`
}

// Fields campos a escribir junto con la reactivación.
func (r ReactivateRequest) Fields() map[string]any {
	fields := map[string]any{}
	if r.Nombre != nil {
		fields[catalog.FieldName] = *r.Nombre
	}
	return fields
}

// CounterResponse valor emitido por el contador de un rubro.
type CounterResponse struct {
	RubroID        string `json:"rubro_id"`
	UltimoValor    int64  `json:"ultimo_valor"`
	CodigoSugerido string `json:"codigo_sugerido"`
}
