package dto

import "github.com/shopspring/decimal"

// ─── Máquinas / Accesorios ───────────────────────────────────────────────────

type CrearMachineBaseRequest struct {
	Nombre string          `json:"nombre" validate:"required,max=200"`
	Total  decimal.Decimal `json:"total"  validate:"min=0"`
}

type ActualizarMachineBaseRequest struct {
	Nombre *string          `json:"nombre" validate:"omitempty,max=200"`
	Total  *decimal.Decimal `json:"total"  validate:"omitempty,min=0"`
}

type MachineBaseResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type CrearAccessoryRequest struct {
	Nombre string          `json:"nombre" validate:"required,max=200"`
	Total  decimal.Decimal `json:"total"  validate:"min=0"`
}

type ActualizarAccessoryRequest struct {
	Nombre *string          `json:"nombre" validate:"omitempty,max=200"`
	Total  *decimal.Decimal `json:"total"  validate:"omitempty,min=0"`
}

type AccessoryResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// ─── Impuestos ───────────────────────────────────────────────────────────────

type CrearTaxRequest struct {
	Nombre         string           `json:"nombre"          validate:"required,max=200"`
	Porcentaje     decimal.Decimal  `json:"porcentaje"      validate:"min=0,max=100"`
	MontoMinimo    *decimal.Decimal `json:"monto_minimo"    validate:"omitempty,min=0"`
	SiempreIncluir bool             `json:"siempre_incluir"`
}

type ActualizarTaxRequest struct {
	Nombre         *string          `json:"nombre"          validate:"omitempty,max=200"`
	Porcentaje     *decimal.Decimal `json:"porcentaje"      validate:"omitempty,min=0,max=100"`
	MontoMinimo    *decimal.Decimal `json:"monto_minimo"    validate:"omitempty,min=0"`
	SiempreIncluir *bool            `json:"siempre_incluir"`
}

type TaxResponse struct {
	ID             string           `json:"id"`
	Nombre         string           `json:"nombre"`
	Porcentaje     decimal.Decimal  `json:"porcentaje"`
	MontoMinimo    *decimal.Decimal `json:"monto_minimo"`
	SiempreIncluir bool             `json:"siempre_incluir"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
}

// ─── Tramos logísticos ───────────────────────────────────────────────────────

type CrearLogisticsLegRequest struct {
	Desde string          `json:"desde" validate:"required,max=200"`
	Hasta string          `json:"hasta" validate:"required,max=200"`
	Tipo  string          `json:"tipo"  validate:"required,oneof=TERRESTRE AEREO MARITIMO"`
	Etapa string          `json:"etapa" validate:"required,oneof=HASTA_ADUANA POST_ADUANA"`
	Total decimal.Decimal `json:"total" validate:"min=0"`
}

type ActualizarLogisticsLegRequest struct {
	Desde *string          `json:"desde" validate:"omitempty,max=200"`
	Hasta *string          `json:"hasta" validate:"omitempty,max=200"`
	Tipo  *string          `json:"tipo"  validate:"omitempty,oneof=TERRESTRE AEREO MARITIMO"`
	Etapa *string          `json:"etapa" validate:"omitempty,oneof=HASTA_ADUANA POST_ADUANA"`
	Total *decimal.Decimal `json:"total" validate:"omitempty,min=0"`
}

type LogisticsLegResponse struct {
	ID        string          `json:"id"`
	Desde     string          `json:"desde"`
	Hasta     string          `json:"hasta"`
	Tipo      string          `json:"tipo"`
	Etapa     string          `json:"etapa"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// CatalogoFilter pagina los listados del catálogo.
type CatalogoFilter struct {
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CatalogoListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
