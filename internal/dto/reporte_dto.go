package dto

import "github.com/shopspring/decimal"

// ReporteFinanzasFilter define el rango de fechas (inclusive) del reporte.
type ReporteFinanzasFilter struct {
	Desde string `form:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"required,datetime=2006-01-02"`
}

type ReporteFinanzasDia struct {
	Fecha    string          `json:"fecha"`
	Ingresos decimal.Decimal `json:"ingresos"`
	Egresos  decimal.Decimal `json:"egresos"`
	Ganancia decimal.Decimal `json:"ganancia"`
}

type ReporteFinanzasTotales struct {
	Ingresos decimal.Decimal `json:"ingresos"`
	Egresos  decimal.Decimal `json:"egresos"`
	Ganancia decimal.Decimal `json:"ganancia"`
}

type ReporteFinanzasResponse struct {
	Desde       string                 `json:"desde"`
	Hasta       string                 `json:"hasta"`
	Totales     ReporteFinanzasTotales `json:"totales"`
	SerieDiaria []ReporteFinanzasDia   `json:"serie_diaria"`
}
