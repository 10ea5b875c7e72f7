package dto

import "github.com/shopspring/decimal"

// ─── Filtros / listado ───────────────────────────────────────────────────────

// UnidadFilter filtra por estado y por fecha de compra de la unidad.
type UnidadFilter struct {
	Estado     string `form:"estado" validate:"omitempty,oneof=DEPOSITO ALQUILADA VENDIDA"`
	FechaDesde string `form:"fecha_desde"`
	FechaHasta string `form:"fecha_hasta"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type UnidadListItem struct {
	ID            string          `json:"id"`
	PurchaseID    string          `json:"purchase_id"`
	TotalCompra   decimal.Decimal `json:"total_compra"`
	FechaCompra   string          `json:"fecha_compra"`
	BudgetNumero  string          `json:"budget_numero"`
	MachineBaseID string          `json:"machine_base_id"`
	MachineNombre string          `json:"machine_nombre"`
	Estado        string          `json:"estado"`
	Identificador string          `json:"identificador"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

type UnidadListResponse struct {
	Data  []UnidadListItem `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Detalle ─────────────────────────────────────────────────────────────────

// IngresoUnidadResponse expone un RevenueEvent desde la perspectiva de la
// unidad. Para alquileres las fechas van desglosadas en mes/año, que es la
// granularidad con la que opera el frontend.
type IngresoUnidadResponse struct {
	ID           string           `json:"id"`
	Tipo         string           `json:"tipo"`
	Fecha        string           `json:"fecha"`
	ClienteTexto string           `json:"cliente_texto"`
	MontoTotal   decimal.Decimal  `json:"monto_total"`
	MontoMensual *decimal.Decimal `json:"monto_mensual"`
	Notas        string           `json:"notas"`

	InicioYear           *int `json:"inicio_year"`
	InicioMonth          *int `json:"inicio_month"`
	RetornoEstimadaYear  *int `json:"retorno_estimada_year"`
	RetornoEstimadaMonth *int `json:"retorno_estimada_month"`
	RetornoRealYear      *int `json:"retorno_real_year"`
	RetornoRealMonth     *int `json:"retorno_real_month"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type UnidadDetailResponse struct {
	ID            string          `json:"id"`
	PurchaseID    string          `json:"purchase_id"`
	FechaCompra   string          `json:"fecha_compra"`
	BudgetNumero  string          `json:"budget_numero"`
	MachineBaseID string          `json:"machine_base_id"`
	MachineNombre string          `json:"machine_nombre"`
	Estado        string          `json:"estado"`
	Identificador string          `json:"identificador"`
	TotalCompra   decimal.Decimal `json:"total_compra"`
	NotasCompra   string          `json:"notas_compra"`

	Accesorios []AccesorioItemResponse `json:"accesorios"`
	Venta      *IngresoUnidadResponse  `json:"venta"`
	Alquileres []IngresoUnidadResponse `json:"alquileres"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ─── Transiciones de ciclo de vida ───────────────────────────────────────────

type MarcarAlquiladaRequest struct {
	InicioYear  int `json:"inicio_year"  validate:"required,min=2000,max=2100"`
	InicioMonth int `json:"inicio_month" validate:"required,min=1,max=12"`

	RetornoEstimadaYear  int `json:"retorno_estimada_year"  validate:"required,min=2000,max=2100"`
	RetornoEstimadaMonth int `json:"retorno_estimada_month" validate:"required,min=1,max=12"`

	MontoMensual decimal.Decimal `json:"monto_mensual" validate:"required"`
	Notas        string          `json:"notas"`
}

type FinalizarAlquilerRequest struct {
	RetornoRealYear  int `json:"retorno_real_year"  validate:"required,min=2000,max=2100"`
	RetornoRealMonth int `json:"retorno_real_month" validate:"required,min=1,max=12"`
}

type MarcarVendidaRequest struct {
	FechaVenta   string          `json:"fecha_venta" validate:"required,datetime=2006-01-02"`
	MontoTotal   decimal.Decimal `json:"monto_total" validate:"required"`
	ClienteTexto string          `json:"cliente_texto" validate:"omitempty,max=200"`
	Notas        string          `json:"notas"`
}
