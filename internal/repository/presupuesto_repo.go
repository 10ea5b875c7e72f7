package repository

import (
	"context"
	"time"

	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PresupuestoRepository interface {
	CreateTx(tx *gorm.DB, b *model.Budget) error
	// FindByID precarga todas las colecciones hijas para el detalle.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	// FindByIDForUpdateTx toma el lock exclusivo de la fila (SELECT ... FOR
	// UPDATE): a lo sumo una transición de estado concurrente por presupuesto.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Budget, error)
	List(ctx context.Context, filter dto.PresupuestoFilter) ([]model.Budget, int64, error)
	UpdateFechaTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) error
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	UpdateSnapshotsTx(tx *gorm.DB, b *model.Budget) error
	// DeleteChildrenTx borra items (y sus accesorios), impuestos y tramos.
	// El update de un presupuesto es un full replace, no un diff.
	DeleteChildrenTx(tx *gorm.DB, budgetID uuid.UUID) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	CreateItemTx(tx *gorm.DB, item *model.BudgetItem) error
	CreateItemAccessoryTx(tx *gorm.DB, acc *model.BudgetItemAccessory) error
	CreateTaxAppliedTx(tx *gorm.DB, ta *model.BudgetTaxApplied) error
	CreateSelectedLegTx(tx *gorm.DB, leg *model.BudgetSelectedLogisticsLeg) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type presupuestoRepo struct{ db *gorm.DB }

func NewPresupuestoRepository(db *gorm.DB) PresupuestoRepository { return &presupuestoRepo{db: db} }

func (r *presupuestoRepo) DB() *gorm.DB { return r.db }

func (r *presupuestoRepo) CreateTx(tx *gorm.DB, b *model.Budget) error {
	return tx.Create(b).Error
}

func (r *presupuestoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var b model.Budget
	err := r.db.WithContext(ctx).
		Preload("Items.MachineBase").
		Preload("Items.Accesorios.Accessory").
		Preload("Impuestos.Tax").
		Preload("Logisticas.LogisticsLeg").
		First(&b, "id = ?", id).Error
	return &b, err
}

func (r *presupuestoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Budget, error) {
	var b model.Budget
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, "id = ?", id).Error
	return &b, err
}

func (r *presupuestoRepo) List(ctx context.Context, filter dto.PresupuestoFilter) ([]model.Budget, int64, error) {
	var budgets []model.Budget
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Budget{})
	if filter.FechaDesde != "" {
		q = q.Where("fecha >= ?", filter.FechaDesde)
	}
	if filter.FechaHasta != "" {
		q = q.Where("fecha <= ?", filter.FechaHasta)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("fecha DESC, created_at DESC").Limit(filter.Limit).Offset(offset).Find(&budgets).Error
	return budgets, total, err
}

func (r *presupuestoRepo) UpdateFechaTx(tx *gorm.DB, id uuid.UUID, fecha time.Time) error {
	return tx.Model(&model.Budget{}).Where("id = ?", id).Update("fecha", fecha).Error
}

func (r *presupuestoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Budget{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *presupuestoRepo) UpdateSnapshotsTx(tx *gorm.DB, b *model.Budget) error {
	return tx.Model(&model.Budget{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"subtotal_maquinas_snapshot":               b.SubtotalMaquinasSnapshot,
		"subtotal_accesorios_snapshot":             b.SubtotalAccesoriosSnapshot,
		"subtotal_logistica_hasta_aduana_snapshot": b.SubtotalLogisticaHastaAduanaSnapshot,
		"subtotal_logistica_post_aduana_snapshot":  b.SubtotalLogisticaPostAduanaSnapshot,
		"base_imponible_snapshot":                  b.BaseImponibleSnapshot,
		"total_impuestos_snapshot":                 b.TotalImpuestosSnapshot,
		"costo_aduana_snapshot":                    b.CostoAduanaSnapshot,
		"total_snapshot":                           b.TotalSnapshot,
	}).Error
}

func (r *presupuestoRepo) DeleteChildrenTx(tx *gorm.DB, budgetID uuid.UUID) error {
	// Accesorios primero: dependen de los items del presupuesto.
	if err := tx.Where(
		"budget_item_id IN (?)",
		tx.Session(&gorm.Session{NewDB: true}).Model(&model.BudgetItem{}).Select("id").Where("budget_id = ?", budgetID),
	).Delete(&model.BudgetItemAccessory{}).Error; err != nil {
		return err
	}
	if err := tx.Where("budget_id = ?", budgetID).Delete(&model.BudgetItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("budget_id = ?", budgetID).Delete(&model.BudgetSelectedLogisticsLeg{}).Error; err != nil {
		return err
	}
	return tx.Where("budget_id = ?", budgetID).Delete(&model.BudgetTaxApplied{}).Error
}

func (r *presupuestoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Budget{}, "id = ?", id).Error
}

func (r *presupuestoRepo) CreateItemTx(tx *gorm.DB, item *model.BudgetItem) error {
	return tx.Create(item).Error
}

func (r *presupuestoRepo) CreateItemAccessoryTx(tx *gorm.DB, acc *model.BudgetItemAccessory) error {
	return tx.Create(acc).Error
}

func (r *presupuestoRepo) CreateTaxAppliedTx(tx *gorm.DB, ta *model.BudgetTaxApplied) error {
	return tx.Create(ta).Error
}

func (r *presupuestoRepo) CreateSelectedLegTx(tx *gorm.DB, leg *model.BudgetSelectedLogisticsLeg) error {
	return tx.Create(leg).Error
}
