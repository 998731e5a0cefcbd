package repository

import (
	"context"
	"fmt"
	"regexp"
)

// Document es un documento persistido: id asignado por el store y datos JSON.
// Los números llegan como json.Number al leer.
type Document struct {
	ID   string
	Data map[string]any
}

// Filter condición de igualdad sobre un campo de primer nivel del documento.
// Value admite string, bool y números. Con Elem, Field es un arreglo de objetos y el
// filtro se cumple si algún elemento tiene Elem igual a Value.
type Filter struct {
	Field string
	Elem  string
	Value any
}

// Query consulta sobre una colección. Los resultados se devuelven ordenados por id ascendente.
type Query struct {
	Collection string
	Filters    []Filter
	Limit      int // 0 = sin límite
}

// Where devuelve una copia de la consulta con un filtro de igualdad adicional.
func (q Query) Where(field string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Value: value})
	return q
}

// WhereElem devuelve una copia con un filtro sobre los elementos del arreglo field.
func (q Query) WhereElem(field, elem string, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Elem: elem, Value: value})
	return q
}

// WithLimit devuelve una copia de la consulta con límite de resultados.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

var fieldNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate verifica colección y nombres de campo. Los adaptadores lo llaman antes de
// interpolar rutas JSON en SQL.
func (q Query) Validate() error {
	if !fieldNamePattern.MatchString(q.Collection) {
		return fmt.Errorf("colección inválida %q", q.Collection)
	}
	for _, f := range q.Filters {
		if !fieldNamePattern.MatchString(f.Field) {
			return fmt.Errorf("campo de filtro inválido %q", f.Field)
		}
		if f.Elem != "" && !fieldNamePattern.MatchString(f.Elem) {
			return fmt.Errorf("campo de elemento inválido %q", f.Elem)
		}
		switch f.Value.(type) {
		case string, bool, int, int64, float64:
		default:
			return fmt.Errorf("valor de filtro no soportado para %q: %T", f.Field, f.Value)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("límite negativo")
	}
	return nil
}

// DocumentReader lecturas sobre el store. Get devuelve nil, nil si el documento no existe.
type DocumentReader interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, q Query) ([]Document, error)
}

// DocumentWriter escrituras sobre documentos existentes o por id conocido.
// Update mezcla los campos de primer nivel y devuelve domain.ErrNotFound si no existe.
// Set crea o reemplaza el documento completo.
type DocumentWriter interface {
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Set(ctx context.Context, collection, id string, data map[string]any) error
}

// DocumentTx vista transaccional del store. Create devuelve domain.ErrDuplicate si el id ya existe.
type DocumentTx interface {
	DocumentReader
	DocumentWriter
	NewID(collection string) string
	Create(ctx context.Context, collection, id string, data map[string]any) error
}

// DocumentStore store de documentos con transacciones serializables.
// RunInTransaction puede ejecutar fn más de una vez ante conflictos de serialización;
// fn no debe producir efectos fuera de tx.
type DocumentStore interface {
	DocumentReader
	DocumentWriter
	RunInTransaction(ctx context.Context, fn func(tx DocumentTx) error) error
}
