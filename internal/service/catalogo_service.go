package service

import (
	"context"
	"errors"

	"github.com/RamsesGirala/machinery-ops/internal/apierror"
	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/model"
	"github.com/RamsesGirala/machinery-ops/internal/money"
	"github.com/RamsesGirala/machinery-ops/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// CatalogoService cubre el CRUD de las cuatro entidades de catálogo.
// El borrado de una entidad referenciada por alguna línea de presupuesto
// rebota contra el FK protect de Postgres y se traduce a CONFLICT.
type CatalogoService interface {
	CrearMaquina(ctx context.Context, req dto.CrearMachineBaseRequest) (*dto.MachineBaseResponse, error)
	ObtenerMaquina(ctx context.Context, id uuid.UUID) (*dto.MachineBaseResponse, error)
	ListarMaquinas(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.MachineBaseResponse], error)
	ActualizarMaquina(ctx context.Context, id uuid.UUID, req dto.ActualizarMachineBaseRequest) (*dto.MachineBaseResponse, error)
	EliminarMaquina(ctx context.Context, id uuid.UUID) error

	CrearAccesorio(ctx context.Context, req dto.CrearAccessoryRequest) (*dto.AccessoryResponse, error)
	ObtenerAccesorio(ctx context.Context, id uuid.UUID) (*dto.AccessoryResponse, error)
	ListarAccesorios(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.AccessoryResponse], error)
	ActualizarAccesorio(ctx context.Context, id uuid.UUID, req dto.ActualizarAccessoryRequest) (*dto.AccessoryResponse, error)
	EliminarAccesorio(ctx context.Context, id uuid.UUID) error

	CrearImpuesto(ctx context.Context, req dto.CrearTaxRequest) (*dto.TaxResponse, error)
	ObtenerImpuesto(ctx context.Context, id uuid.UUID) (*dto.TaxResponse, error)
	ListarImpuestos(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.TaxResponse], error)
	ActualizarImpuesto(ctx context.Context, id uuid.UUID, req dto.ActualizarTaxRequest) (*dto.TaxResponse, error)
	EliminarImpuesto(ctx context.Context, id uuid.UUID) error

	CrearTramo(ctx context.Context, req dto.CrearLogisticsLegRequest) (*dto.LogisticsLegResponse, error)
	ObtenerTramo(ctx context.Context, id uuid.UUID) (*dto.LogisticsLegResponse, error)
	ListarTramos(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.LogisticsLegResponse], error)
	ActualizarTramo(ctx context.Context, id uuid.UUID, req dto.ActualizarLogisticsLegRequest) (*dto.LogisticsLegResponse, error)
	EliminarTramo(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	maquinas   repository.MachineBaseRepository
	accesorios repository.AccessoryRepository
	impuestos  repository.TaxRepository
	tramos     repository.LogisticsLegRepository
}

func NewCatalogoService(
	maquinas repository.MachineBaseRepository,
	accesorios repository.AccessoryRepository,
	impuestos repository.TaxRepository,
	tramos repository.LogisticsLegRepository,
) CatalogoService {
	return &catalogoService{
		maquinas:   maquinas,
		accesorios: accesorios,
		impuestos:  impuestos,
		tramos:     tramos,
	}
}

const tsLayout = "2006-01-02T15:04:05Z"

// translateDeleteErr maps a foreign key violation (23503) to CONFLICT.
func translateDeleteErr(err error, entidad string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apierror.Conflict("La entidad está referenciada por un presupuesto y no puede eliminarse", map[string]any{
			"entidad": entidad,
		})
	}
	return err
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg, nil)
	}
	return err
}

// ─── Máquinas ────────────────────────────────────────────────────────────────

func maquinaToResponse(m *model.MachineBase) *dto.MachineBaseResponse {
	return &dto.MachineBaseResponse{
		ID:        m.ID.String(),
		Nombre:    m.Nombre,
		Total:     m.Total,
		CreatedAt: m.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt: m.UpdatedAt.UTC().Format(tsLayout),
	}
}

func (s *catalogoService) CrearMaquina(ctx context.Context, req dto.CrearMachineBaseRequest) (*dto.MachineBaseResponse, error) {
	m := &model.MachineBase{Nombre: req.Nombre, Total: money.Round(req.Total)}
	if err := s.maquinas.Create(ctx, m); err != nil {
		return nil, err
	}
	return maquinaToResponse(m), nil
}

func (s *catalogoService) ObtenerMaquina(ctx context.Context, id uuid.UUID) (*dto.MachineBaseResponse, error) {
	m, err := s.maquinas.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Máquina no encontrada")
	}
	return maquinaToResponse(m), nil
}

func (s *catalogoService) ListarMaquinas(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.MachineBaseResponse], error) {
	normalizeCatalogoFilter(&filter)
	rows, total, err := s.maquinas.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MachineBaseResponse, 0, len(rows))
	for i := range rows {
		data = append(data, *maquinaToResponse(&rows[i]))
	}
	return &dto.CatalogoListResponse[dto.MachineBaseResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) ActualizarMaquina(ctx context.Context, id uuid.UUID, req dto.ActualizarMachineBaseRequest) (*dto.MachineBaseResponse, error) {
	m, err := s.maquinas.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Máquina no encontrada")
	}
	if req.Nombre != nil {
		m.Nombre = *req.Nombre
	}
	if req.Total != nil {
		m.Total = money.Round(*req.Total)
	}
	if err := s.maquinas.Update(ctx, m); err != nil {
		return nil, err
	}
	return maquinaToResponse(m), nil
}

func (s *catalogoService) EliminarMaquina(ctx context.Context, id uuid.UUID) error {
	if _, err := s.maquinas.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Máquina no encontrada")
	}
	return translateDeleteErr(s.maquinas.Delete(ctx, id), "machine_base")
}

// ─── Accesorios ──────────────────────────────────────────────────────────────

func accesorioToResponse(a *model.Accessory) *dto.AccessoryResponse {
	return &dto.AccessoryResponse{
		ID:        a.ID.String(),
		Nombre:    a.Nombre,
		Total:     a.Total,
		CreatedAt: a.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt: a.UpdatedAt.UTC().Format(tsLayout),
	}
}

func (s *catalogoService) CrearAccesorio(ctx context.Context, req dto.CrearAccessoryRequest) (*dto.AccessoryResponse, error) {
	a := &model.Accessory{Nombre: req.Nombre, Total: money.Round(req.Total)}
	if err := s.accesorios.Create(ctx, a); err != nil {
		return nil, err
	}
	return accesorioToResponse(a), nil
}

func (s *catalogoService) ObtenerAccesorio(ctx context.Context, id uuid.UUID) (*dto.AccessoryResponse, error) {
	a, err := s.accesorios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Accesorio no encontrado")
	}
	return accesorioToResponse(a), nil
}

func (s *catalogoService) ListarAccesorios(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.AccessoryResponse], error) {
	normalizeCatalogoFilter(&filter)
	rows, total, err := s.accesorios.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AccessoryResponse, 0, len(rows))
	for i := range rows {
		data = append(data, *accesorioToResponse(&rows[i]))
	}
	return &dto.CatalogoListResponse[dto.AccessoryResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) ActualizarAccesorio(ctx context.Context, id uuid.UUID, req dto.ActualizarAccessoryRequest) (*dto.AccessoryResponse, error) {
	a, err := s.accesorios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Accesorio no encontrado")
	}
	if req.Nombre != nil {
		a.Nombre = *req.Nombre
	}
	if req.Total != nil {
		a.Total = money.Round(*req.Total)
	}
	if err := s.accesorios.Update(ctx, a); err != nil {
		return nil, err
	}
	return accesorioToResponse(a), nil
}

func (s *catalogoService) EliminarAccesorio(ctx context.Context, id uuid.UUID) error {
	if _, err := s.accesorios.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Accesorio no encontrado")
	}
	return translateDeleteErr(s.accesorios.Delete(ctx, id), "accessory")
}

// ─── Impuestos ───────────────────────────────────────────────────────────────

func impuestoToResponse(t *model.Tax) *dto.TaxResponse {
	return &dto.TaxResponse{
		ID:             t.ID.String(),
		Nombre:         t.Nombre,
		Porcentaje:     t.Porcentaje,
		MontoMinimo:    t.MontoMinimo,
		SiempreIncluir: t.SiempreIncluir,
		CreatedAt:      t.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt:      t.UpdatedAt.UTC().Format(tsLayout),
	}
}

func (s *catalogoService) CrearImpuesto(ctx context.Context, req dto.CrearTaxRequest) (*dto.TaxResponse, error) {
	t := &model.Tax{
		Nombre:         req.Nombre,
		Porcentaje:     req.Porcentaje,
		SiempreIncluir: req.SiempreIncluir,
	}
	if req.MontoMinimo != nil {
		min := money.Round(*req.MontoMinimo)
		t.MontoMinimo = &min
	}
	if err := s.impuestos.Create(ctx, t); err != nil {
		return nil, err
	}
	return impuestoToResponse(t), nil
}

func (s *catalogoService) ObtenerImpuesto(ctx context.Context, id uuid.UUID) (*dto.TaxResponse, error) {
	t, err := s.impuestos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Impuesto no encontrado")
	}
	return impuestoToResponse(t), nil
}

func (s *catalogoService) ListarImpuestos(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.TaxResponse], error) {
	normalizeCatalogoFilter(&filter)
	rows, total, err := s.impuestos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.TaxResponse, 0, len(rows))
	for i := range rows {
		data = append(data, *impuestoToResponse(&rows[i]))
	}
	return &dto.CatalogoListResponse[dto.TaxResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) ActualizarImpuesto(ctx context.Context, id uuid.UUID, req dto.ActualizarTaxRequest) (*dto.TaxResponse, error) {
	t, err := s.impuestos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Impuesto no encontrado")
	}
	if req.Nombre != nil {
		t.Nombre = *req.Nombre
	}
	if req.Porcentaje != nil {
		t.Porcentaje = *req.Porcentaje
	}
	if req.MontoMinimo != nil {
		min := money.Round(*req.MontoMinimo)
		t.MontoMinimo = &min
	}
	if req.SiempreIncluir != nil {
		t.SiempreIncluir = *req.SiempreIncluir
	}
	if err := s.impuestos.Update(ctx, t); err != nil {
		return nil, err
	}
	return impuestoToResponse(t), nil
}

func (s *catalogoService) EliminarImpuesto(ctx context.Context, id uuid.UUID) error {
	if _, err := s.impuestos.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Impuesto no encontrado")
	}
	return translateDeleteErr(s.impuestos.Delete(ctx, id), "tax")
}

// ─── Tramos logísticos ───────────────────────────────────────────────────────

func tramoToResponse(l *model.LogisticsLeg) *dto.LogisticsLegResponse {
	return &dto.LogisticsLegResponse{
		ID:        l.ID.String(),
		Desde:     l.Desde,
		Hasta:     l.Hasta,
		Tipo:      l.Tipo,
		Etapa:     l.Etapa,
		Total:     l.Total,
		CreatedAt: l.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt: l.UpdatedAt.UTC().Format(tsLayout),
	}
}

func (s *catalogoService) CrearTramo(ctx context.Context, req dto.CrearLogisticsLegRequest) (*dto.LogisticsLegResponse, error) {
	l := &model.LogisticsLeg{
		Desde: req.Desde,
		Hasta: req.Hasta,
		Tipo:  req.Tipo,
		Etapa: req.Etapa,
		Total: money.Round(req.Total),
	}
	if err := s.tramos.Create(ctx, l); err != nil {
		return nil, err
	}
	return tramoToResponse(l), nil
}

func (s *catalogoService) ObtenerTramo(ctx context.Context, id uuid.UUID) (*dto.LogisticsLegResponse, error) {
	l, err := s.tramos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Tramo logístico no encontrado")
	}
	return tramoToResponse(l), nil
}

func (s *catalogoService) ListarTramos(ctx context.Context, filter dto.CatalogoFilter) (*dto.CatalogoListResponse[dto.LogisticsLegResponse], error) {
	normalizeCatalogoFilter(&filter)
	rows, total, err := s.tramos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LogisticsLegResponse, 0, len(rows))
	for i := range rows {
		data = append(data, *tramoToResponse(&rows[i]))
	}
	return &dto.CatalogoListResponse[dto.LogisticsLegResponse]{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) ActualizarTramo(ctx context.Context, id uuid.UUID, req dto.ActualizarLogisticsLegRequest) (*dto.LogisticsLegResponse, error) {
	l, err := s.tramos.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Tramo logístico no encontrado")
	}
	if req.Desde != nil {
		l.Desde = *req.Desde
	}
	if req.Hasta != nil {
		l.Hasta = *req.Hasta
	}
	if req.Tipo != nil {
		l.Tipo = *req.Tipo
	}
	if req.Etapa != nil {
		l.Etapa = *req.Etapa
	}
	if req.Total != nil {
		l.Total = money.Round(*req.Total)
	}
	if err := s.tramos.Update(ctx, l); err != nil {
		return nil, err
	}
	return tramoToResponse(l), nil
}

func (s *catalogoService) EliminarTramo(ctx context.Context, id uuid.UUID) error {
	if _, err := s.tramos.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Tramo logístico no encontrado")
	}
	return translateDeleteErr(s.tramos.Delete(ctx, id), "logistics_leg")
}

func normalizeCatalogoFilter(f *dto.CatalogoFilter) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
}
