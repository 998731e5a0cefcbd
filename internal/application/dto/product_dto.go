package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagingUnitDTO unidad mínima de empaque.
type PackagingUnitDTO struct {
	Descripcion string          `json:"descripcion"`
	Unidades    decimal.Decimal `json:"unidades"`
}

// WarehouseStockDTO stock por depósito.
type WarehouseStockDTO struct {
	DepositoID string          `json:"deposito_id"`
	StockReal  decimal.Decimal `json:"stock_real"`
}

// KitComponentDTO componente de un kit.
type KitComponentDTO struct {
	ProductoID string          `json:"producto_id"`
	Cantidad   decimal.Decimal `json:"cantidad"`
}

// CreateProductRequest entrada para crear un producto. Los importes se cuantizan a 4 decimales.
type CreateProductRequest struct {
	SKU                 string              `json:"sku"`
	Nombre              string              `json:"nombre"`
	CodigoBAS           string              `json:"codigo_bas"`
	Observaciones       string              `json:"observaciones"`
	PrecioCosto         decimal.Decimal     `json:"precio_costo"`
	PrecioBaseVenta     decimal.Decimal     `json:"precio_base_venta"`
	MonedaCosto         string              `json:"moneda_costo"`
	UnidadMedidaID      string              `json:"unidad_medida_id"`
	CondicionIVAID      string              `json:"condicion_iva_id"`
	RubroID             string              `json:"rubro_id"`
	SubrubroID          string              `json:"subrubro_id"`
	UnidadMinimaPedido  decimal.Decimal     `json:"unidad_minima_pedido"`
	UnidadMinimaEmpaque *PackagingUnitDTO   `json:"unidad_minima_empaque,omitempty"`
	StockMinimoPedido   decimal.Decimal     `json:"stock_minimo_pedido"`
	StockDepositos      []WarehouseStockDTO `json:"stock_depositos"`
	StockComprometido   decimal.Decimal     `json:"stock_comprometido"`
	StockEntrante       decimal.Decimal     `json:"stock_entrante"`
	EsKit               bool                `json:"es_kit"`
	ComponentesKit      []KitComponentDTO   `json:"componentes_kit"`
}

// UpdateProductRequest actualización parcial; solo se escriben los campos presentes.
type UpdateProductRequest struct {
	Nombre              *string              `json:"nombre,omitempty"`
	CodigoBAS           *string              `json:"codigo_bas,omitempty"`
	Observaciones       *string              `json:"observaciones,omitempty"`
	PrecioCosto         *decimal.Decimal     `json:"precio_costo,omitempty"`
	PrecioBaseVenta     *decimal.Decimal     `json:"precio_base_venta,omitempty"`
	MonedaCosto         *string              `json:"moneda_costo,omitempty"`
	UnidadMedidaID      *string              `json:"unidad_medida_id,omitempty"`
	CondicionIVAID      *string              `json:"condicion_iva_id,omitempty"`
	RubroID             *string              `json:"rubro_id,omitempty"`
	SubrubroID          *string              `json:"subrubro_id,omitempty"`
	UnidadMinimaPedido  *decimal.Decimal     `json:"unidad_minima_pedido,omitempty"`
	UnidadMinimaEmpaque *PackagingUnitDTO    `json:"unidad_minima_empaque,omitempty"`
	StockMinimoPedido   *decimal.Decimal     `json:"stock_minimo_pedido,omitempty"`
	StockDepositos      *[]WarehouseStockDTO `json:"stock_depositos,omitempty"`
	StockComprometido   *decimal.Decimal     `json:"stock_comprometido,omitempty"`
	StockEntrante       *decimal.Decimal     `json:"stock_entrante,omitempty"`
	EsKit               *bool                `json:"es_kit,omitempty"`
	ComponentesKit      *[]KitComponentDTO   `json:"componentes_kit,omitempty"`
}

// ProductResponse salida de producto. Los importes salen como string con 4 decimales.
type ProductResponse struct {
	ID                  string              `json:"id"`
	SKU                 string              `json:"sku"`
	Nombre              string              `json:"nombre"`
	CodigoBAS           string              `json:"codigo_bas,omitempty"`
	Observaciones       string              `json:"observaciones,omitempty"`
	PrecioCosto         string              `json:"precio_costo"`
	PrecioBaseVenta     string              `json:"precio_base_venta"`
	MonedaCosto         string              `json:"moneda_costo"`
	UnidadMedidaID      string              `json:"unidad_medida_id"`
	CondicionIVAID      string              `json:"condicion_iva_id"`
	RubroID             string              `json:"rubro_id,omitempty"`
	SubrubroID          string              `json:"subrubro_id,omitempty"`
	UnidadMinimaPedido  decimal.Decimal     `json:"unidad_minima_pedido"`
	UnidadMinimaEmpaque *PackagingUnitDTO   `json:"unidad_minima_empaque,omitempty"`
	StockMinimoPedido   decimal.Decimal     `json:"stock_minimo_pedido"`
	StockDepositos      []WarehouseStockDTO `json:"stock_depositos"`
	StockTotal          decimal.Decimal     `json:"stock_total"`
	StockComprometido   decimal.Decimal     `json:"stock_comprometido"`
	StockEntrante       decimal.Decimal     `json:"stock_entrante"`
	EsKit               bool                `json:"es_kit"`
	ComponentesKit      []KitComponentDTO   `json:"componentes_kit"`
	BajaLogica          bool                `json:"baja_logica"`
}

// PriceListRow fila de la lista de precios.
type PriceListRow struct {
	SKU         string
	Nombre      string
	Rubro       string
	Unidad      string
	Moneda      string
	PrecioBase  decimal.Decimal
	Alicuota    decimal.Decimal
	PrecioFinal decimal.Decimal
}

// PriceList lista de precios de productos activos, lista para render.
type PriceList struct {
	Titulo   string
	Generada time.Time
	Rows     []PriceListRow
}
