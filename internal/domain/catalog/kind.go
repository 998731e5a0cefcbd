package catalog

// Campos y colecciones compartidos por todos los tipos de entidad.
const (
	FieldID            = "id"
	FieldInactive      = "baja_logica"
	FieldName          = "nombre"
	CounterCollection  = "contadores"
	CounterValueField  = "ultimo_valor"
	FieldCategoryID    = "rubro_id"
	FieldSubcategoryID = "subrubro_id"
	FieldKitComponents = "componentes_kit"
	FieldKitProductID  = "producto_id"
)

// Dependent colección que referencia a otra entidad por un campo id. Con Elem, Field es
// un arreglo de objetos y la referencia está en Elem de cada elemento.
type Dependent struct {
	Collection string
	Field      string
	Elem       string
}

// Kind describe un tipo de entidad del catálogo: dónde vive, cuál es su clave de negocio
// y qué colecciones dependen de él.
type Kind struct {
	Name       string
	Collection string
	KeyField   string
	KeyMaxLen  int
	NameMaxLen int
	// Sequenced indica que la entidad tiene un contador propio en CounterCollection.
	Sequenced  bool
	Dependents []Dependent
}

// ImmutableField reporta si el campo no puede modificarse por la vía de actualización parcial.
func (k Kind) ImmutableField(field string) bool {
	return field == FieldID || field == FieldInactive || field == k.KeyField
}

var (
	TaxConditions = Kind{
		Name:       "condición de IVA",
		Collection: "condiciones_iva",
		KeyField:   "codigo_iva",
		KeyMaxLen:  4,
		NameMaxLen: 30,
		Dependents: []Dependent{{Collection: "productos", Field: "condicion_iva_id"}},
	}

	UnitsOfMeasure = Kind{
		Name:       "unidad de medida",
		Collection: "unidades_medida",
		KeyField:   "codigo_unidad",
		KeyMaxLen:  4,
		NameMaxLen: 30,
		Dependents: []Dependent{{Collection: "productos", Field: "unidad_medida_id"}},
	}

	Categories = Kind{
		Name:       "rubro",
		Collection: "rubros",
		KeyField:   "codigo",
		KeyMaxLen:  3,
		NameMaxLen: 30,
		Sequenced:  true,
		Dependents: []Dependent{
			{Collection: "subrubros", Field: FieldCategoryID},
			{Collection: "productos", Field: FieldCategoryID},
		},
	}

	Subcategories = Kind{
		Name:       "subrubro",
		Collection: "subrubros",
		KeyField:   "codigo_subrubro",
		KeyMaxLen:  10,
		NameMaxLen: 50,
		Dependents: []Dependent{{Collection: "productos", Field: FieldSubcategoryID}},
	}

	Products = Kind{
		Name:       "producto",
		Collection: "productos",
		KeyField:   "sku",
		KeyMaxLen:  8,
		NameMaxLen: 30,
		// los kits activos referencian a sus componentes
		Dependents: []Dependent{{Collection: "productos", Field: FieldKitComponents, Elem: FieldKitProductID}},
	}
)

// Kinds todos los tipos registrados, en orden de dependencia (hojas primero).
func Kinds() []Kind {
	return []Kind{TaxConditions, UnitsOfMeasure, Categories, Subcategories, Products}
}
