package seed

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/catalog"
)

// Counts resultado por colección.
type Counts struct {
	Created     int
	Existing    int
	Reactivated int
	Inactive    int // existían dados de baja y no se reactivaron
}

// Report resultado de un Import, por colección.
type Report map[string]*Counts

// Collections colecciones con resultado, ordenadas.
func (r Report) Collections() []string {
	return slices.Sorted(maps.Keys(r))
}

func (r Report) counts(collection string) *Counts {
	c, ok := r[collection]
	if !ok {
		c = &Counts{}
		r[collection] = c
	}
	return c
}

// Importer da de alta el contenido de un File a través de los casos de uso, de modo
// que rigen las mismas validaciones que en la API. Un documento cuya clave ya existe
// activa se reutiliza; si existe dado de baja se reactiva solo con reactivate.
type Importer struct {
	engine     *lifecycle.Engine
	taxes      *usecase.TaxConditionUseCase
	units      *usecase.UnitOfMeasureUseCase
	rubros     *usecase.CategoryUseCase
	subs       *usecase.SubcategoryUseCase
	products   *usecase.ProductUseCase
	reactivate bool
	log        zerolog.Logger
}

// NewImporter construye el importador.
func NewImporter(engine *lifecycle.Engine, log zerolog.Logger, reactivate bool) *Importer {
	return &Importer{
		engine:     engine,
		taxes:      usecase.NewTaxConditionUseCase(engine),
		units:      usecase.NewUnitOfMeasureUseCase(engine),
		rubros:     usecase.NewCategoryUseCase(engine),
		subs:       usecase.NewSubcategoryUseCase(engine),
		products:   usecase.NewProductUseCase(engine),
		reactivate: reactivate,
		log:        log.With().Str("component", "seed").Logger(),
	}
}

// Import procesa el archivo en orden de dependencia y se detiene en el primer error.
func (im *Importer) Import(ctx context.Context, f *File) (Report, error) {
	report := Report{}
	taxIDs := map[string]string{}
	unitIDs := map[string]string{}
	rubroIDs := map[string]string{}
	subIDs := map[string]string{}

	for _, t := range f.CondicionesIVA {
		rate, err := parseDecimal("alicuota", t.Alicuota)
		if err != nil {
			return report, err
		}
		key := catalog.NormalizeKey(t.Codigo)
		id, err := im.ensure(ctx, report, catalog.TaxConditions, key,
			func() (string, error) {
				out, err := im.taxes.Create(ctx, dto.CreateTaxConditionRequest{CodigoIVA: key, Nombre: t.Nombre, Alicuota: rate})
				return idOf(out, err, func(r *dto.TaxConditionResponse) string { return r.ID })
			},
			func(id string) error {
				_, err := im.taxes.Reactivate(ctx, id, dto.ReactivateRequest{})
				return err
			})
		if err != nil {
			return report, err
		}
		taxIDs[key] = id
	}

	for _, u := range f.Unidades {
		key := catalog.NormalizeKey(u.Codigo)
		id, err := im.ensure(ctx, report, catalog.UnitsOfMeasure, key,
			func() (string, error) {
				out, err := im.units.Create(ctx, dto.CreateUnitOfMeasureRequest{CodigoUnidad: key, Nombre: u.Nombre})
				return idOf(out, err, func(r *dto.UnitOfMeasureResponse) string { return r.ID })
			},
			func(id string) error {
				_, err := im.units.Reactivate(ctx, id, dto.ReactivateRequest{})
				return err
			})
		if err != nil {
			return report, err
		}
		unitIDs[key] = id
	}

	for _, r := range f.Rubros {
		key := catalog.NormalizeKey(r.Codigo)
		rubroID, err := im.ensure(ctx, report, catalog.Categories, key,
			func() (string, error) {
				out, err := im.rubros.Create(ctx, dto.CreateCategoryRequest{Codigo: key, Nombre: r.Nombre})
				return idOf(out, err, func(r *dto.CategoryResponse) string { return r.ID })
			},
			func(id string) error {
				_, err := im.rubros.Reactivate(ctx, id, dto.ReactivateRequest{})
				return err
			})
		if err != nil {
			return report, err
		}
		rubroIDs[key] = rubroID

		for _, s := range r.Subrubros {
			subKey := catalog.NormalizeKey(s.Codigo)
			if subKey == "" {
				if subKey, err = im.nextFreeCode(ctx, rubroID); err != nil {
					return report, fmt.Errorf("seed: código de subrubro para %s: %w", key, err)
				}
			}
			subID, err := im.ensure(ctx, report, catalog.Subcategories, subKey,
				func() (string, error) {
					out, err := im.subs.Create(ctx, dto.CreateSubcategoryRequest{CodigoSubrubro: subKey, Nombre: s.Nombre, RubroID: rubroID})
					return idOf(out, err, func(r *dto.SubcategoryResponse) string { return r.ID })
				},
				func(id string) error {
					_, err := im.subs.Reactivate(ctx, id, dto.ReactivateRequest{})
					return err
				})
			if err != nil {
				return report, err
			}
			subIDs[subKey] = subID
		}
	}

	for _, p := range f.Productos {
		in, err := productRequest(p, taxIDs, unitIDs, rubroIDs, subIDs)
		if err != nil {
			return report, err
		}
		_, err = im.ensure(ctx, report, catalog.Products, in.SKU,
			func() (string, error) {
				out, err := im.products.Create(ctx, in)
				return idOf(out, err, func(r *dto.ProductResponse) string { return r.ID })
			},
			func(id string) error {
				_, err := im.products.Reactivate(ctx, id, dto.ReactivateRequest{})
				return err
			})
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// ensure crea el documento o resuelve el existente según el conflicto devuelto.
func (im *Importer) ensure(ctx context.Context, report Report, kind catalog.Kind, key string, create func() (string, error), reactivate func(id string) error) (string, error) {
	counts := report.counts(kind.Collection)
	id, err := create()
	if err == nil {
		counts.Created++
		im.log.Debug().Str("collection", kind.Collection).Str("key", key).Str("id", id).Msg("creado")
		return id, nil
	}
	var cerr *catalog.ConflictError
	if !errors.As(err, &cerr) {
		return "", fmt.Errorf("seed: %s %q: %w", kind.Name, key, err)
	}
	if cerr.Status == catalog.StatusExistsInactive {
		if !im.reactivate {
			counts.Inactive++
			im.log.Warn().Str("collection", kind.Collection).Str("key", key).Msg("existe dado de baja; no se reactiva")
			return cerr.InactiveID, nil
		}
		if err := reactivate(cerr.InactiveID); err != nil {
			return "", fmt.Errorf("seed: reactivar %s %q: %w", kind.Name, key, err)
		}
		counts.Reactivated++
		return cerr.InactiveID, nil
	}
	doc, err := im.engine.GetByKey(ctx, kind, key)
	if err != nil {
		return "", fmt.Errorf("seed: %s %q: %w", kind.Name, key, err)
	}
	counts.Existing++
	return doc.ID, nil
}

// nextFreeCode emite códigos con el contador del rubro hasta dar con uno libre; los
// subrubros cargados con código explícito no avanzan el contador. Un subrubro sin
// código se da de alta en cada importación.
func (im *Importer) nextFreeCode(ctx context.Context, rubroID string) (string, error) {
	for {
		next, err := im.rubros.NextCode(ctx, rubroID)
		if err != nil {
			return "", err
		}
		_, err = im.engine.GetByKey(ctx, catalog.Subcategories, next.CodigoSugerido)
		if errors.Is(err, domain.ErrNotFound) {
			return next.CodigoSugerido, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func productRequest(p Product, taxIDs, unitIDs, rubroIDs, subIDs map[string]string) (dto.CreateProductRequest, error) {
	in := dto.CreateProductRequest{
		SKU:           catalog.NormalizeKey(p.SKU),
		Nombre:        p.Nombre,
		CodigoBAS:     p.CodigoBAS,
		Observaciones: p.Observaciones,
		MonedaCosto:   p.Moneda,
	}
	var err error
	if in.PrecioCosto, err = parseDecimal("precio_costo", p.PrecioCosto); err != nil {
		return in, err
	}
	if in.PrecioBaseVenta, err = parseDecimal("precio_base_venta", p.PrecioBaseVenta); err != nil {
		return in, err
	}
	ref := func(ids map[string]string, field, code string) (string, error) {
		if code == "" {
			return "", nil
		}
		id, ok := ids[catalog.NormalizeKey(code)]
		if !ok {
			return "", fmt.Errorf("seed: producto %s: %s %q no está en el archivo", in.SKU, field, code)
		}
		return id, nil
	}
	if in.UnidadMedidaID, err = ref(unitIDs, "unidad", p.Unidad); err != nil {
		return in, err
	}
	if in.CondicionIVAID, err = ref(taxIDs, "condicion_iva", p.CondicionIVA); err != nil {
		return in, err
	}
	if in.RubroID, err = ref(rubroIDs, "rubro", p.Rubro); err != nil {
		return in, err
	}
	if in.SubrubroID, err = ref(subIDs, "subrubro", p.Subrubro); err != nil {
		return in, err
	}
	for _, deposito := range slices.Sorted(maps.Keys(p.Stock)) {
		qty, err := parseDecimal("stock."+deposito, p.Stock[deposito])
		if err != nil {
			return in, err
		}
		in.StockDepositos = append(in.StockDepositos, dto.WarehouseStockDTO{DepositoID: deposito, StockReal: qty})
	}
	return in, nil
}

func idOf[R any](out *R, err error, id func(*R) string) (string, error) {
	if err != nil {
		return "", err
	}
	return id(out), nil
}
