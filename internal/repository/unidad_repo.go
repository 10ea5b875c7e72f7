package repository

import (
	"context"

	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnidadRepository interface {
	// FindByID precarga compra, presupuesto, máquina y los accesorios del
	// item de origen (vista de detalle).
	FindByID(ctx context.Context, id uuid.UUID) (*model.PurchasedUnit, error)
	// FindByIDForUpdateTx toma el lock exclusivo de la unidad antes de leer
	// su estado: a lo sumo una transición concurrente por unidad.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PurchasedUnit, error)
	List(ctx context.Context, filter dto.UnidadFilter) ([]model.PurchasedUnit, int64, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error

	CreateEventoTx(tx *gorm.DB, ev *model.RevenueEvent) error
	CreateEventoUnidadTx(tx *gorm.DB, link *model.RevenueEventUnit) error
	UpdateEventoCierreTx(tx *gorm.DB, ev *model.RevenueEvent) error
	// FindAlquilerAbiertoTx devuelve el alquiler abierto más reciente de la
	// unidad (fecha_retorno_real IS NULL); gorm.ErrRecordNotFound si no hay.
	FindAlquilerAbiertoTx(tx *gorm.DB, unidadID uuid.UUID) (*model.RevenueEvent, error)
	// ListEventos devuelve todos los eventos de la unidad, más recientes primero.
	ListEventos(ctx context.Context, unidadID uuid.UUID) ([]model.RevenueEvent, error)

	DB() *gorm.DB
}

type unidadRepo struct{ db *gorm.DB }

func NewUnidadRepository(db *gorm.DB) UnidadRepository { return &unidadRepo{db: db} }

func (r *unidadRepo) DB() *gorm.DB { return r.db }

func (r *unidadRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PurchasedUnit, error) {
	var u model.PurchasedUnit
	err := r.db.WithContext(ctx).
		Preload("Purchase.Budget").
		Preload("MachineBase").
		Preload("BudgetItem.Accesorios.Accessory").
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *unidadRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.PurchasedUnit, error) {
	var u model.PurchasedUnit
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *unidadRepo) List(ctx context.Context, filter dto.UnidadFilter) ([]model.PurchasedUnit, int64, error) {
	var unidades []model.PurchasedUnit
	var total int64

	q := r.db.WithContext(ctx).Model(&model.PurchasedUnit{}).
		Joins("JOIN purchase ON purchase.id = purchased_unit.purchase_id")

	if filter.Estado != "" {
		q = q.Where("purchased_unit.estado = ?", filter.Estado)
	}
	if filter.FechaDesde != "" {
		q = q.Where("purchase.fecha_compra >= ?", filter.FechaDesde)
	}
	if filter.FechaHasta != "" {
		q = q.Where("purchase.fecha_compra <= ?", filter.FechaHasta)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Purchase.Budget").Preload("MachineBase").
		Order("purchase.fecha_compra DESC, purchased_unit.created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&unidades).Error
	return unidades, total, err
}

func (r *unidadRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.PurchasedUnit{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *unidadRepo) CreateEventoTx(tx *gorm.DB, ev *model.RevenueEvent) error {
	return tx.Create(ev).Error
}

func (r *unidadRepo) CreateEventoUnidadTx(tx *gorm.DB, link *model.RevenueEventUnit) error {
	return tx.Create(link).Error
}

func (r *unidadRepo) UpdateEventoCierreTx(tx *gorm.DB, ev *model.RevenueEvent) error {
	return tx.Model(&model.RevenueEvent{}).Where("id = ?", ev.ID).Updates(map[string]interface{}{
		"fecha_retorno_real": ev.FechaRetornoReal,
		"monto_total":        ev.MontoTotal,
	}).Error
}

func (r *unidadRepo) FindAlquilerAbiertoTx(tx *gorm.DB, unidadID uuid.UUID) (*model.RevenueEvent, error) {
	var ev model.RevenueEvent
	err := tx.
		Joins("JOIN revenue_event_unit ON revenue_event_unit.revenue_event_id = revenue_event.id").
		Where("revenue_event_unit.purchased_unit_id = ?", unidadID).
		Where("revenue_event.tipo = ?", model.IngresoAlquiler).
		Where("revenue_event.fecha_retorno_real IS NULL").
		Order("revenue_event.fecha DESC, revenue_event.created_at DESC").
		First(&ev).Error
	return &ev, err
}

func (r *unidadRepo) ListEventos(ctx context.Context, unidadID uuid.UUID) ([]model.RevenueEvent, error) {
	var eventos []model.RevenueEvent
	err := r.db.WithContext(ctx).
		Joins("JOIN revenue_event_unit ON revenue_event_unit.revenue_event_id = revenue_event.id").
		Where("revenue_event_unit.purchased_unit_id = ?", unidadID).
		Order("revenue_event.fecha DESC, revenue_event.created_at DESC").
		Find(&eventos).Error
	return eventos, err
}
