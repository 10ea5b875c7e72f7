package repository

import (
	"context"
	"time"

	"github.com/RamsesGirala/machinery-ops/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TotalPorDia es una fila agregada del reporte: fecha y suma del día.
type TotalPorDia struct {
	Fecha time.Time       `gorm:"column:fecha"`
	Total decimal.Decimal `gorm:"column:total"`
}

type ReporteRepository interface {
	// SumVentasPorDia agrupa los ingresos de tipo VENTA por fecha del evento.
	SumVentasPorDia(ctx context.Context, desde, hasta time.Time) ([]TotalPorDia, error)
	// SumAlquileresCerradosPorDia agrupa los alquileres con retorno real
	// dentro del rango, reconocidos en la fecha de retorno.
	SumAlquileresCerradosPorDia(ctx context.Context, desde, hasta time.Time) ([]TotalPorDia, error)
	SumComprasPorDia(ctx context.Context, desde, hasta time.Time) ([]TotalPorDia, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) SumVentasPorDia(ctx context.Context, desde, hasta time.Time) ([]TotalPorDia, error) {
	var filas []TotalPorDia
	err := r.db.WithContext(ctx).Model(&model.RevenueEvent{}).
		Select("fecha, COALESCE(SUM(monto_total), 0) AS total").
		Where("tipo = ?", model.IngresoVenta).
		Where("fecha BETWEEN ? AND ?", desde, hasta).
		Group("fecha").
		Order("fecha ASC").
		Scan(&filas).Error
	return filas, err
}

func (r *reporteRepo) SumAlquileresCerradosPorDia(ctx context.Context, desde, hasta time.Time) ([]TotalPorDia, error) {
	var filas []TotalPorDia
	err := r.db.WithContext(ctx).Model(&model.RevenueEvent{}).
		Select("fecha_retorno_real AS fecha, COALESCE(SUM(monto_total), 0) AS total").
		Where("tipo = ?", model.IngresoAlquiler).
		Where("fecha_retorno_real IS NOT NULL").
		Where("fecha_retorno_real BETWEEN ? AND ?", desde, hasta).
		Group("fecha_retorno_real").
		Order("fecha ASC").
		Scan(&filas).Error
	return filas, err
}

func (r *reporteRepo) SumComprasPorDia(ctx context.Context, desde, hasta time.Time) ([]TotalPorDia, error) {
	var filas []TotalPorDia
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("fecha_compra AS fecha, COALESCE(SUM(total_snapshot), 0) AS total").
		Where("fecha_compra BETWEEN ? AND ?", desde, hasta).
		Group("fecha_compra").
		Order("fecha ASC").
		Scan(&filas).Error
	return filas, err
}
