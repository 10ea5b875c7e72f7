package service

import (
	"context"
	"errors"
	"time"

	"github.com/RamsesGirala/machinery-ops/internal/apierror"
	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/model"
	"github.com/RamsesGirala/machinery-ops/internal/money"
	"github.com/RamsesGirala/machinery-ops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnidadService maneja el ciclo de vida de las unidades compradas:
// DEPOSITO ⇄ ALQUILADA y DEPOSITO → VENDIDA (terminal). Toda transición
// lee el estado bajo lock exclusivo de la fila.
type UnidadService interface {
	Listar(ctx context.Context, filter dto.UnidadFilter) (*dto.UnidadListResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.UnidadDetailResponse, error)
	MarcarAlquilada(ctx context.Context, id uuid.UUID, req dto.MarcarAlquiladaRequest) error
	FinalizarAlquiler(ctx context.Context, id uuid.UUID, req dto.FinalizarAlquilerRequest) error
	MarcarVendida(ctx context.Context, id uuid.UUID, req dto.MarcarVendidaRequest) error
}

type unidadService struct {
	repo repository.UnidadRepository
}

func NewUnidadService(repo repository.UnidadRepository) UnidadService {
	return &unidadService{repo: repo}
}

// mesesInclusivos cuenta meses calendario entre dos meses, ambos
// inclusive: enero a marzo son 3.
func mesesInclusivos(inicio, fin time.Time) int64 {
	return int64(fin.Year()*12+int(fin.Month())) - int64(inicio.Year()*12+int(inicio.Month())) + 1
}

// primeroDeMes normaliza un año/mes al día 1, la granularidad con la que
// opera el calendario de alquileres.
func primeroDeMes(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// ── MarcarAlquilada ───────────────────────────────────────────────────────────

func (s *unidadService) MarcarAlquilada(ctx context.Context, id uuid.UUID, req dto.MarcarAlquiladaRequest) error {
	inicio := primeroDeMes(req.InicioYear, req.InicioMonth)
	retornoEstimada := primeroDeMes(req.RetornoEstimadaYear, req.RetornoEstimadaMonth)
	if retornoEstimada.Before(inicio) {
		return apierror.Validation("El retorno estimado no puede ser anterior al inicio", nil)
	}
	if req.MontoMensual.LessThanOrEqual(decimal.Zero) {
		return apierror.Validation("monto_mensual debe ser mayor a cero", nil)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		unidad, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Unidad no encontrada", nil)
			}
			return err
		}
		if unidad.Estado != model.UnidadDeposito {
			return apierror.Conflict("Sólo una unidad en DEPOSITO puede alquilarse", map[string]any{
				"estado": unidad.Estado,
			})
		}

		meses := mesesInclusivos(inicio, retornoEstimada)
		mensual := money.Round(req.MontoMensual)
		total := money.Round(mensual.Mul(decimal.NewFromInt(meses)))

		ev := &model.RevenueEvent{
			Tipo:                 model.IngresoAlquiler,
			Fecha:                inicio,
			MontoTotal:           total,
			MontoMensual:         &mensual,
			FechaRetornoEstimada: &retornoEstimada,
			Notas:                req.Notas,
		}
		if err := s.repo.CreateEventoTx(tx, ev); err != nil {
			return err
		}
		if err := s.repo.CreateEventoUnidadTx(tx, &model.RevenueEventUnit{
			RevenueEventID:  ev.ID,
			PurchasedUnitID: unidad.ID,
		}); err != nil {
			return err
		}
		return s.repo.UpdateEstadoTx(tx, unidad.ID, model.UnidadAlquilada)
	})
}

// ── FinalizarAlquiler ─────────────────────────────────────────────────────────
// Recalcula el total con los meses efectivamente transcurridos y devuelve
// la unidad a DEPOSITO. Una unidad ALQUILADA sin alquiler abierto es una
// inconsistencia de datos, no un conflicto: NOT_FOUND.

func (s *unidadService) FinalizarAlquiler(ctx context.Context, id uuid.UUID, req dto.FinalizarAlquilerRequest) error {
	retornoReal := primeroDeMes(req.RetornoRealYear, req.RetornoRealMonth)

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		unidad, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Unidad no encontrada", nil)
			}
			return err
		}
		if unidad.Estado != model.UnidadAlquilada {
			return apierror.Conflict("La unidad no está alquilada", map[string]any{"estado": unidad.Estado})
		}

		ev, err := s.repo.FindAlquilerAbiertoTx(tx, unidad.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("La unidad no tiene un alquiler abierto", nil)
			}
			return err
		}
		if retornoReal.Before(ev.Fecha) {
			return apierror.Validation("El retorno real no puede ser anterior al inicio del alquiler", nil)
		}

		meses := mesesInclusivos(ev.Fecha, retornoReal)
		mensual := decimal.Zero
		if ev.MontoMensual != nil {
			mensual = *ev.MontoMensual
		}
		ev.MontoTotal = money.Round(mensual.Mul(decimal.NewFromInt(meses)))
		ev.FechaRetornoReal = &retornoReal

		if err := s.repo.UpdateEventoCierreTx(tx, ev); err != nil {
			return err
		}
		return s.repo.UpdateEstadoTx(tx, unidad.ID, model.UnidadDeposito)
	})
}

// ── MarcarVendida ─────────────────────────────────────────────────────────────

func (s *unidadService) MarcarVendida(ctx context.Context, id uuid.UUID, req dto.MarcarVendidaRequest) error {
	fechaVenta, err := time.Parse("2006-01-02", req.FechaVenta)
	if err != nil {
		return apierror.Validation("fecha_venta inválida, se espera YYYY-MM-DD", nil)
	}
	if req.MontoTotal.LessThanOrEqual(decimal.Zero) {
		return apierror.Validation("monto_total debe ser mayor a cero", nil)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		unidad, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Unidad no encontrada", nil)
			}
			return err
		}
		if unidad.Estado != model.UnidadDeposito {
			return apierror.Conflict("Sólo una unidad en DEPOSITO puede venderse", map[string]any{
				"estado": unidad.Estado,
			})
		}

		ev := &model.RevenueEvent{
			Tipo:         model.IngresoVenta,
			Fecha:        fechaVenta,
			ClienteTexto: req.ClienteTexto,
			MontoTotal:   money.Round(req.MontoTotal),
			Notas:        req.Notas,
		}
		if err := s.repo.CreateEventoTx(tx, ev); err != nil {
			return err
		}
		if err := s.repo.CreateEventoUnidadTx(tx, &model.RevenueEventUnit{
			RevenueEventID:  ev.ID,
			PurchasedUnitID: unidad.ID,
		}); err != nil {
			return err
		}
		return s.repo.UpdateEstadoTx(tx, unidad.ID, model.UnidadVendida)
	})
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *unidadService) Listar(ctx context.Context, filter dto.UnidadFilter) (*dto.UnidadListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	unidades, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UnidadListItem, 0, len(unidades))
	for i := range unidades {
		items = append(items, *unidadToListItem(&unidades[i]))
	}
	return &dto.UnidadListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *unidadService) Obtener(ctx context.Context, id uuid.UUID) (*dto.UnidadDetailResponse, error) {
	unidad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Unidad no encontrada", nil)
		}
		return nil, err
	}
	eventos, err := s.repo.ListEventos(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &dto.UnidadDetailResponse{
		ID:            unidad.ID.String(),
		MachineBaseID: unidad.MachineBaseID.String(),
		Estado:        unidad.Estado,
		Identificador: unidad.Identificador,
		CreatedAt:     unidad.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt:     unidad.UpdatedAt.UTC().Format(tsLayout),
	}
	if unidad.MachineBase != nil {
		detail.MachineNombre = unidad.MachineBase.Nombre
	}
	if unidad.Purchase != nil {
		detail.PurchaseID = unidad.Purchase.ID.String()
		detail.FechaCompra = unidad.Purchase.FechaCompra.Format("2006-01-02")
		detail.TotalCompra = unidad.Purchase.TotalSnapshot
		detail.NotasCompra = unidad.Purchase.Notas
		if unidad.Purchase.Budget != nil {
			detail.BudgetNumero = unidad.Purchase.Budget.Numero
		}
	}

	accesorios := make([]dto.AccesorioItemResponse, 0)
	if unidad.BudgetItem != nil {
		for i := range unidad.BudgetItem.Accesorios {
			acc := &unidad.BudgetItem.Accesorios[i]
			nombre := ""
			if acc.Accessory != nil {
				nombre = acc.Accessory.Nombre
			}
			accesorios = append(accesorios, dto.AccesorioItemResponse{
				ID:                     acc.ID.String(),
				AccessoryID:            acc.AccessoryID.String(),
				AccessoryNombre:        nombre,
				Cantidad:               acc.Cantidad,
				AccessoryTotalSnapshot: acc.AccessoryTotalSnapshot,
				SubtotalSnapshot:       acc.SubtotalSnapshot,
			})
		}
	}
	detail.Accesorios = accesorios

	alquileres := make([]dto.IngresoUnidadResponse, 0)
	for i := range eventos {
		ev := &eventos[i]
		resp := eventoToResponse(ev)
		switch ev.Tipo {
		case model.IngresoVenta:
			if detail.Venta == nil {
				detail.Venta = resp
			}
		case model.IngresoAlquiler:
			alquileres = append(alquileres, *resp)
		}
	}
	detail.Alquileres = alquileres
	return detail, nil
}

func unidadToListItem(u *model.PurchasedUnit) *dto.UnidadListItem {
	item := &dto.UnidadListItem{
		ID:            u.ID.String(),
		PurchaseID:    u.PurchaseID.String(),
		MachineBaseID: u.MachineBaseID.String(),
		Estado:        u.Estado,
		Identificador: u.Identificador,
		CreatedAt:     u.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt:     u.UpdatedAt.UTC().Format(tsLayout),
	}
	if u.MachineBase != nil {
		item.MachineNombre = u.MachineBase.Nombre
	}
	if u.Purchase != nil {
		item.FechaCompra = u.Purchase.FechaCompra.Format("2006-01-02")
		item.TotalCompra = u.Purchase.TotalSnapshot
		if u.Purchase.Budget != nil {
			item.BudgetNumero = u.Purchase.Budget.Numero
		}
	}
	return item
}

func eventoToResponse(ev *model.RevenueEvent) *dto.IngresoUnidadResponse {
	resp := &dto.IngresoUnidadResponse{
		ID:           ev.ID.String(),
		Tipo:         ev.Tipo,
		Fecha:        ev.Fecha.Format("2006-01-02"),
		ClienteTexto: ev.ClienteTexto,
		MontoTotal:   ev.MontoTotal,
		MontoMensual: ev.MontoMensual,
		Notas:        ev.Notas,
		CreatedAt:    ev.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt:    ev.UpdatedAt.UTC().Format(tsLayout),
	}
	if ev.Tipo == model.IngresoAlquiler {
		y, m := ev.Fecha.Year(), int(ev.Fecha.Month())
		resp.InicioYear, resp.InicioMonth = &y, &m
		if ev.FechaRetornoEstimada != nil {
			ey, em := ev.FechaRetornoEstimada.Year(), int(ev.FechaRetornoEstimada.Month())
			resp.RetornoEstimadaYear, resp.RetornoEstimadaMonth = &ey, &em
		}
		if ev.FechaRetornoReal != nil {
			ry, rm := ev.FechaRetornoReal.Year(), int(ev.FechaRetornoReal.Month())
			resp.RetornoRealYear, resp.RetornoRealMonth = &ry, &rm
		}
	}
	return resp
}
