// Package pdf genera la lista de precios de productos activos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                    │  Fecha de generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Descripción | Un. | P.Base | IVA% | P.Final   │
//	│    (un título por rubro antes de sus productos)             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: cantidad de productos                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const noCategory = "Sin rubro"

// ── Generator ─────────────────────────────────────────────────────────────────

// PriceListGenerator implementa ports.PriceListRenderer usando Maroto v2.
type PriceListGenerator struct {
	company string
}

// NewPriceListGenerator construye el generador. company se usa como autor del PDF.
func NewPriceListGenerator(company string) *PriceListGenerator {
	return &PriceListGenerator{company: company}
}

// Render genera el PDF y devuelve sus bytes.
func (g *PriceListGenerator) Render(list dto.PriceList) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(list.Titulo, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(list))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(bodyRows(list.Rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(list.Rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar lista de precios: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(list dto.PriceList) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(list.Titulo, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generada: "+list.Generada.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Un.", 1, align.Center),
		h("Precio base", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Precio final", 2, align.Right),
	)
}

// bodyRows agrega un título cada vez que cambia el rubro. rows llega ordenado por rubro.
func bodyRows(rows []dto.PriceListRow) []core.Row {
	if len(rows) == 0 {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New("No hay productos activos.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		))}
	}
	result := make([]core.Row, 0, len(rows)+8)
	current := ""
	for i, r := range rows {
		rubro := nonEmpty(r.Rubro, noCategory)
		if i == 0 || rubro != current {
			current = rubro
			result = append(result, row.New(8).Add(col.New(12).Add(
				text.New(strings.ToUpper(rubro), props.Text{
					Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3,
				}),
			)))
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(r.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(r.Nombre, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(r.Unidad, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(
				r.Moneda+" "+FormatMoney(r.PrecioBase),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				r.Alicuota.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				r.Moneda+" "+FormatMoney(r.PrecioFinal),
				props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func footerRow(count int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%d productos. Precios finales con IVA incluido.", count), props.Text{
			Size: 7, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatMoney formatea d con 2 decimales, punto de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
