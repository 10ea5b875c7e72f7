package repository

import (
	"context"

	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Los repos del catálogo exponen además variantes *Tx: el pricing engine
// resuelve y eventualmente pisa precios DENTRO de la transacción del
// presupuesto (contrato de override, last-writer-wins).

type MachineBaseRepository interface {
	Create(ctx context.Context, m *model.MachineBase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MachineBase, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MachineBase, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.MachineBase, int64, error)
	Update(ctx context.Context, m *model.MachineBase) error
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AccessoryRepository interface {
	Create(ctx context.Context, a *model.Accessory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Accessory, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Accessory, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Accessory, int64, error)
	Update(ctx context.Context, a *model.Accessory) error
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TaxRepository interface {
	Create(ctx context.Context, t *model.Tax) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tax, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Tax, error)
	// ListSiempreIncluirTx devuelve los impuestos de inclusión automática
	// ordenados por nombre (set por defecto cuando el payload no trae impuestos).
	ListSiempreIncluirTx(tx *gorm.DB) ([]model.Tax, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Tax, int64, error)
	Update(ctx context.Context, t *model.Tax) error
	UpdatePorcentajeTx(tx *gorm.DB, id uuid.UUID, porcentaje decimal.Decimal) error
	UpdateMontoMinimoTx(tx *gorm.DB, id uuid.UUID, montoMinimo decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type LogisticsLegRepository interface {
	Create(ctx context.Context, l *model.LogisticsLeg) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LogisticsLeg, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.LogisticsLeg, error)
	List(ctx context.Context, filter dto.CatalogoFilter) ([]model.LogisticsLeg, int64, error)
	Update(ctx context.Context, l *model.LogisticsLeg) error
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ─── MachineBase ─────────────────────────────────────────────────────────────

type machineBaseRepo struct{ db *gorm.DB }

func NewMachineBaseRepository(db *gorm.DB) MachineBaseRepository { return &machineBaseRepo{db: db} }

func (r *machineBaseRepo) Create(ctx context.Context, m *model.MachineBase) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *machineBaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MachineBase, error) {
	var m model.MachineBase
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	return &m, err
}

func (r *machineBaseRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.MachineBase, error) {
	var m model.MachineBase
	err := tx.First(&m, "id = ?", id).Error
	return &m, err
}

func (r *machineBaseRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.MachineBase, int64, error) {
	var rows []model.MachineBase
	var total int64

	q := r.db.WithContext(ctx).Model(&model.MachineBase{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *machineBaseRepo) Update(ctx context.Context, m *model.MachineBase) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *machineBaseRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.MachineBase{}).Where("id = ?", id).Update("total", total).Error
}

func (r *machineBaseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MachineBase{}, "id = ?", id).Error
}

// ─── Accessory ───────────────────────────────────────────────────────────────

type accessoryRepo struct{ db *gorm.DB }

func NewAccessoryRepository(db *gorm.DB) AccessoryRepository { return &accessoryRepo{db: db} }

func (r *accessoryRepo) Create(ctx context.Context, a *model.Accessory) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accessoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Accessory, error) {
	var a model.Accessory
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *accessoryRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Accessory, error) {
	var a model.Accessory
	err := tx.First(&a, "id = ?", id).Error
	return &a, err
}

func (r *accessoryRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Accessory, int64, error) {
	var rows []model.Accessory
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Accessory{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *accessoryRepo) Update(ctx context.Context, a *model.Accessory) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *accessoryRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Accessory{}).Where("id = ?", id).Update("total", total).Error
}

func (r *accessoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Accessory{}, "id = ?", id).Error
}

// ─── Tax ─────────────────────────────────────────────────────────────────────

type taxRepo struct{ db *gorm.DB }

func NewTaxRepository(db *gorm.DB) TaxRepository { return &taxRepo{db: db} }

func (r *taxRepo) Create(ctx context.Context, t *model.Tax) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taxRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tax, error) {
	var t model.Tax
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *taxRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Tax, error) {
	var t model.Tax
	err := tx.First(&t, "id = ?", id).Error
	return &t, err
}

func (r *taxRepo) ListSiempreIncluirTx(tx *gorm.DB) ([]model.Tax, error) {
	var rows []model.Tax
	err := tx.Where("siempre_incluir = true").Order("nombre ASC").Find(&rows).Error
	return rows, err
}

func (r *taxRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.Tax, int64, error) {
	var rows []model.Tax
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Tax{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *taxRepo) Update(ctx context.Context, t *model.Tax) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *taxRepo) UpdatePorcentajeTx(tx *gorm.DB, id uuid.UUID, porcentaje decimal.Decimal) error {
	return tx.Model(&model.Tax{}).Where("id = ?", id).Update("porcentaje", porcentaje).Error
}

func (r *taxRepo) UpdateMontoMinimoTx(tx *gorm.DB, id uuid.UUID, montoMinimo decimal.Decimal) error {
	return tx.Model(&model.Tax{}).Where("id = ?", id).Update("monto_minimo", montoMinimo).Error
}

func (r *taxRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tax{}, "id = ?", id).Error
}

// ─── LogisticsLeg ────────────────────────────────────────────────────────────

type logisticsLegRepo struct{ db *gorm.DB }

func NewLogisticsLegRepository(db *gorm.DB) LogisticsLegRepository { return &logisticsLegRepo{db: db} }

func (r *logisticsLegRepo) Create(ctx context.Context, l *model.LogisticsLeg) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *logisticsLegRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LogisticsLeg, error) {
	var l model.LogisticsLeg
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *logisticsLegRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.LogisticsLeg, error) {
	var l model.LogisticsLeg
	err := tx.First(&l, "id = ?", id).Error
	return &l, err
}

func (r *logisticsLegRepo) List(ctx context.Context, filter dto.CatalogoFilter) ([]model.LogisticsLeg, int64, error) {
	var rows []model.LogisticsLeg
	var total int64

	q := r.db.WithContext(ctx).Model(&model.LogisticsLeg{})
	if filter.Nombre != "" {
		q = q.Where("desde ILIKE ? OR hasta ILIKE ?", "%"+filter.Nombre+"%", "%"+filter.Nombre+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("etapa ASC, desde ASC, hasta ASC, tipo ASC").Limit(filter.Limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *logisticsLegRepo) Update(ctx context.Context, l *model.LogisticsLeg) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *logisticsLegRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.LogisticsLeg{}).Where("id = ?", id).Update("total", total).Error
}

func (r *logisticsLegRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.LogisticsLeg{}, "id = ?", id).Error
}
