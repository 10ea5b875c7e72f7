package repository

import (
	"context"
	"errors"

	"github.com/RamsesGirala/machinery-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraRepository interface {
	CreateTx(tx *gorm.DB, p *model.Purchase) error
	FindByBudgetID(ctx context.Context, budgetID uuid.UUID) (*model.Purchase, error)
	// ExistsByBudgetIDTx es el "tiene compra" explícito: un existence query
	// contra purchase, nunca una excepción tragada sobre la relación inversa.
	ExistsByBudgetIDTx(tx *gorm.DB, budgetID uuid.UUID) (bool, error)
	FindByBudgetIDTx(tx *gorm.DB, budgetID uuid.UUID) (*model.Purchase, error)
	// MapByBudgetIDs resuelve compra_id por presupuesto para los listados.
	MapByBudgetIDs(ctx context.Context, budgetIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
	CreateUnidadTx(tx *gorm.DB, u *model.PurchasedUnit) error
	ListItemsTx(tx *gorm.DB, budgetID uuid.UUID) ([]model.BudgetItem, error)
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) CreateTx(tx *gorm.DB, p *model.Purchase) error {
	return tx.Create(p).Error
}

func (r *compraRepo) FindByBudgetID(ctx context.Context, budgetID uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).Where("budget_id = ?", budgetID).First(&p).Error
	return &p, err
}

func (r *compraRepo) ExistsByBudgetIDTx(tx *gorm.DB, budgetID uuid.UUID) (bool, error) {
	var p model.Purchase
	err := tx.Select("id").Where("budget_id = ?", budgetID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *compraRepo) FindByBudgetIDTx(tx *gorm.DB, budgetID uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := tx.Where("budget_id = ?", budgetID).First(&p).Error
	return &p, err
}

func (r *compraRepo) MapByBudgetIDs(ctx context.Context, budgetIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	result := make(map[uuid.UUID]uuid.UUID, len(budgetIDs))
	if len(budgetIDs) == 0 {
		return result, nil
	}
	var compras []model.Purchase
	if err := r.db.WithContext(ctx).Select("id", "budget_id").
		Where("budget_id IN ?", budgetIDs).Find(&compras).Error; err != nil {
		return nil, err
	}
	for _, c := range compras {
		result[c.BudgetID] = c.ID
	}
	return result, nil
}

func (r *compraRepo) CreateUnidadTx(tx *gorm.DB, u *model.PurchasedUnit) error {
	return tx.Create(u).Error
}

func (r *compraRepo) ListItemsTx(tx *gorm.DB, budgetID uuid.UUID) ([]model.BudgetItem, error) {
	var items []model.BudgetItem
	err := tx.Where("budget_id = ?", budgetID).Order("created_at ASC").Find(&items).Error
	return items, err
}
