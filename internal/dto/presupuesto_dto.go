package dto

import "github.com/shopspring/decimal"

// ─── Payload de creación / edición ───────────────────────────────────────────
// Create y update comparten exactamente el mismo payload: una edición es un
// reemplazo completo, no un diff.

type AccesorioItemRequest struct {
	AccessoryID    string           `json:"accessory_id"    validate:"required,uuid"`
	Cantidad       int              `json:"cantidad"        validate:"required,min=1"`
	AccessoryTotal *decimal.Decimal `json:"accessory_total" validate:"omitempty,min=0"`
}

type ItemPresupuestoRequest struct {
	MachineBaseID string           `json:"machine_base_id" validate:"required,uuid"`
	Cantidad      int              `json:"cantidad"        validate:"required,min=1"`
	MachineTotal  *decimal.Decimal `json:"machine_total"   validate:"omitempty,min=0"`
	Accesorios    []AccesorioItemRequest `json:"accesorios" validate:"omitempty,dive"`
}

type ImpuestoPresupuestoRequest struct {
	TaxID       string           `json:"tax_id"       validate:"required,uuid"`
	Incluido    *bool            `json:"incluido"`
	Porcentaje  *decimal.Decimal `json:"porcentaje"   validate:"omitempty,min=0,max=100"`
	MontoMinimo *decimal.Decimal `json:"monto_minimo" validate:"omitempty,min=0"`
}

type LogisticaPresupuestoRequest struct {
	LogisticsLegID string           `json:"logistics_leg_id" validate:"required,uuid"`
	Total          *decimal.Decimal `json:"total"            validate:"omitempty,min=0"`
}

type PresupuestoRequest struct {
	Fecha      string                        `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Items      []ItemPresupuestoRequest      `json:"items" validate:"required,min=1,dive"`
	Impuestos  []ImpuestoPresupuestoRequest  `json:"impuestos"  validate:"omitempty,dive"`
	Logisticas []LogisticaPresupuestoRequest `json:"logisticas" validate:"omitempty,dive"`
}

// ─── Filtros / listado ───────────────────────────────────────────────────────

type PresupuestoFilter struct {
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Estado     string `form:"estado"` // DRAFT | CERRADO | vacío = todos
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PresupuestoListItem struct {
	ID                   string          `json:"id"`
	Numero               string          `json:"numero"`
	Fecha                string          `json:"fecha"`
	Estado               string          `json:"estado"`
	TieneCompra          bool            `json:"tiene_compra"`
	CompraID             *string         `json:"compra_id"`
	BaseImponibleSnapshot decimal.Decimal `json:"base_imponible_snapshot"`
	TotalImpuestosSnapshot decimal.Decimal `json:"total_impuestos_snapshot"`
	TotalSnapshot        decimal.Decimal `json:"total_snapshot"`
	CreatedAt            string          `json:"created_at"`
	UpdatedAt            string          `json:"updated_at"`
}

type PresupuestoListResponse struct {
	Data  []PresupuestoListItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Detalle ─────────────────────────────────────────────────────────────────

type AccesorioItemResponse struct {
	ID                     string          `json:"id"`
	AccessoryID            string          `json:"accessory_id"`
	AccessoryNombre        string          `json:"accessory_nombre"`
	Cantidad               int             `json:"cantidad"`
	AccessoryTotalSnapshot decimal.Decimal `json:"accessory_total_snapshot"`
	SubtotalSnapshot       decimal.Decimal `json:"subtotal_snapshot"`
}

type ItemPresupuestoResponse struct {
	ID                      string                  `json:"id"`
	MachineBaseID           string                  `json:"machine_base_id"`
	MachineNombre           string                  `json:"machine_nombre"`
	Cantidad                int                     `json:"cantidad"`
	MachineTotalSnapshot    decimal.Decimal         `json:"machine_total_snapshot"`
	SubtotalMaquinaSnapshot decimal.Decimal         `json:"subtotal_maquina_snapshot"`
	Accesorios              []AccesorioItemResponse `json:"accesorios"`
}

type ImpuestoPresupuestoResponse struct {
	ID                    string           `json:"id"`
	TaxID                 string           `json:"tax_id"`
	TaxNombre             string           `json:"tax_nombre"`
	Incluido              bool             `json:"incluido"`
	PorcentajeSnapshot    decimal.Decimal  `json:"porcentaje_snapshot"`
	MontoMinimoSnapshot   *decimal.Decimal `json:"monto_minimo_snapshot"`
	MontoAplicadoSnapshot decimal.Decimal  `json:"monto_aplicado_snapshot"`
}

type LogisticaPresupuestoResponse struct {
	ID             string          `json:"id"`
	LogisticsLegID string          `json:"logistics_leg_id"`
	Desde          string          `json:"desde"`
	Hasta          string          `json:"hasta"`
	Tipo           string          `json:"tipo"`
	Etapa          string          `json:"etapa"`
	TotalSnapshot  decimal.Decimal `json:"total_snapshot"`
}

type PresupuestoDetailResponse struct {
	ID     string `json:"id"`
	Numero string `json:"numero"`
	Fecha  string `json:"fecha"`
	Estado string `json:"estado"`

	SubtotalMaquinasSnapshot             decimal.Decimal `json:"subtotal_maquinas_snapshot"`
	SubtotalAccesoriosSnapshot           decimal.Decimal `json:"subtotal_accesorios_snapshot"`
	SubtotalLogisticaHastaAduanaSnapshot decimal.Decimal `json:"subtotal_logistica_hasta_aduana_snapshot"`
	SubtotalLogisticaPostAduanaSnapshot  decimal.Decimal `json:"subtotal_logistica_post_aduana_snapshot"`
	BaseImponibleSnapshot                decimal.Decimal `json:"base_imponible_snapshot"`
	TotalImpuestosSnapshot               decimal.Decimal `json:"total_impuestos_snapshot"`
	CostoAduanaSnapshot                  decimal.Decimal `json:"costo_aduana_snapshot"`
	TotalSnapshot                        decimal.Decimal `json:"total_snapshot"`

	Items      []ItemPresupuestoResponse      `json:"items"`
	Impuestos  []ImpuestoPresupuestoResponse  `json:"impuestos"`
	Logisticas []LogisticaPresupuestoResponse `json:"logisticas"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ─── Acción de compra ────────────────────────────────────────────────────────

type ComprarPresupuestoRequest struct {
	FechaCompra string `json:"fecha_compra" validate:"omitempty,datetime=2006-01-02"`
	Notas       string `json:"notas"`
}

type ComprarPresupuestoResponse struct {
	OK         bool   `json:"ok"`
	PurchaseID string `json:"purchase_id"`
}
