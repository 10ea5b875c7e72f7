package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RamsesGirala/machinery-ops/internal/apierror"
	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/money"
	"github.com/RamsesGirala/machinery-ops/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReporteService arma el rollup financiero diario. Ingresos: ventas por
// fecha del evento más alquileres cerrados por fecha de retorno real.
// Egresos: compras por fecha de compra. La serie cubre todos los días del
// rango, con ceros donde no hubo movimiento.
type ReporteService interface {
	Finanzas(ctx context.Context, filter dto.ReporteFinanzasFilter) (*dto.ReporteFinanzasResponse, error)
}

type reporteService struct {
	repo     repository.ReporteRepository
	rdb      *redis.Client
	cacheTTL time.Duration
}

// NewReporteService builds the service; rdb may be nil to disable caching.
func NewReporteService(repo repository.ReporteRepository, rdb *redis.Client, cacheTTL time.Duration) ReporteService {
	return &reporteService{repo: repo, rdb: rdb, cacheTTL: cacheTTL}
}

func (s *reporteService) Finanzas(ctx context.Context, filter dto.ReporteFinanzasFilter) (*dto.ReporteFinanzasResponse, error) {
	desde, err := time.Parse("2006-01-02", filter.Desde)
	if err != nil {
		return nil, apierror.Validation("desde inválida, se espera YYYY-MM-DD", nil)
	}
	hasta, err := time.Parse("2006-01-02", filter.Hasta)
	if err != nil {
		return nil, apierror.Validation("hasta inválida, se espera YYYY-MM-DD", nil)
	}
	if desde.After(hasta) {
		return nil, apierror.Validation("desde debe ser anterior o igual a hasta", nil)
	}

	cacheKey := fmt.Sprintf("reporte:finanzas:%s:%s", filter.Desde, filter.Hasta)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ReporteFinanzasResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	ventas, err := s.repo.SumVentasPorDia(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	alquileres, err := s.repo.SumAlquileresCerradosPorDia(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	compras, err := s.repo.SumComprasPorDia(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}

	ingresosPorDia := map[string]decimal.Decimal{}
	for _, fila := range ventas {
		key := fila.Fecha.Format("2006-01-02")
		ingresosPorDia[key] = ingresosPorDia[key].Add(fila.Total)
	}
	for _, fila := range alquileres {
		key := fila.Fecha.Format("2006-01-02")
		ingresosPorDia[key] = ingresosPorDia[key].Add(fila.Total)
	}
	egresosPorDia := map[string]decimal.Decimal{}
	for _, fila := range compras {
		key := fila.Fecha.Format("2006-01-02")
		egresosPorDia[key] = egresosPorDia[key].Add(fila.Total)
	}

	serie := make([]dto.ReporteFinanzasDia, 0)
	totalIngresos := decimal.Zero
	totalEgresos := decimal.Zero
	for dia := desde; !dia.After(hasta); dia = dia.AddDate(0, 0, 1) {
		key := dia.Format("2006-01-02")
		ingresos := money.Round(ingresosPorDia[key])
		egresos := money.Round(egresosPorDia[key])
		serie = append(serie, dto.ReporteFinanzasDia{
			Fecha:    key,
			Ingresos: ingresos,
			Egresos:  egresos,
			Ganancia: money.Round(ingresos.Sub(egresos)),
		})
		totalIngresos = totalIngresos.Add(ingresos)
		totalEgresos = totalEgresos.Add(egresos)
	}

	resp := &dto.ReporteFinanzasResponse{
		Desde: filter.Desde,
		Hasta: filter.Hasta,
		Totales: dto.ReporteFinanzasTotales{
			Ingresos: money.Round(totalIngresos),
			Egresos:  money.Round(totalEgresos),
			Ganancia: money.Round(totalIngresos.Sub(totalEgresos)),
		},
		SerieDiaria: serie,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("no se pudo cachear el reporte")
			}
		}
	}
	return resp, nil
}
