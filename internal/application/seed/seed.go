// Package seed importa datos iniciales del catálogo desde un archivo YAML.
// Las referencias entre entidades se escriben por código (no por id) y el
// importador las resuelve contra el store.
package seed

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// File contenido de un archivo de seed. Los importes van como string para no perder precisión.
type File struct {
	CondicionesIVA []TaxCondition `yaml:"condiciones_iva"`
	Unidades       []Unit         `yaml:"unidades_medida"`
	Rubros         []Category     `yaml:"rubros"`
	Productos      []Product      `yaml:"productos"`
}

type TaxCondition struct {
	Codigo   string `yaml:"codigo"`
	Nombre   string `yaml:"nombre"`
	Alicuota string `yaml:"alicuota"`
}

type Unit struct {
	Codigo string `yaml:"codigo"`
	Nombre string `yaml:"nombre"`
}

type Category struct {
	Codigo    string        `yaml:"codigo"`
	Nombre    string        `yaml:"nombre"`
	Subrubros []Subcategory `yaml:"subrubros"`
}

type Subcategory struct {
	Codigo string `yaml:"codigo"`
	Nombre string `yaml:"nombre"`
}

// Product referencia unidad, condición de IVA, rubro y subrubro por código.
type Product struct {
	SKU             string            `yaml:"sku"`
	Nombre          string            `yaml:"nombre"`
	CodigoBAS       string            `yaml:"codigo_bas"`
	Observaciones   string            `yaml:"observaciones"`
	PrecioCosto     string            `yaml:"precio_costo"`
	PrecioBaseVenta string            `yaml:"precio_base_venta"`
	Moneda          string            `yaml:"moneda"`
	Unidad          string            `yaml:"unidad"`
	CondicionIVA    string            `yaml:"condicion_iva"`
	Rubro           string            `yaml:"rubro"`
	Subrubro        string            `yaml:"subrubro"`
	Stock           map[string]string `yaml:"stock"` // depósito -> cantidad
}

// Parse lee un archivo YAML. Con latin1 el contenido se decodifica desde ISO-8859-1.
func Parse(r io.Reader, latin1 bool) (*File, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("seed: decodificar yaml: %w", err)
	}
	return &f, nil
}

// parseDecimal vacío equivale a cero.
func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("seed: %s %q no es un número: %w", field, s, err)
	}
	return d, nil
}
