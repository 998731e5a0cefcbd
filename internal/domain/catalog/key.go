package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey deja la clave de negocio en su forma canónica: sin espacios en los
// extremos, NFC y en mayúsculas. Dos claves iguales tras normalizar son la misma clave.
func NormalizeKey(key string) string {
	// cases.Caser guarda estado: uno por llamada.
	return cases.Upper(language.Spanish).String(norm.NFC.String(strings.TrimSpace(key)))
}
