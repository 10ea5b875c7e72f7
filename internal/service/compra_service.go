package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/RamsesGirala/machinery-ops/internal/apierror"
	"github.com/RamsesGirala/machinery-ops/internal/model"
	"github.com/RamsesGirala/machinery-ops/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraService materializa un presupuesto CERRADO en una compra.
// CreateFromBudgetTx corre siempre dentro de la transacción del caller y
// re-valida estado y ausencia de compra por su cuenta: si dos requests
// cierran el mismo presupuesto a la vez, uno de los dos rebota acá.
type CompraService interface {
	CreateFromBudgetTx(tx *gorm.DB, budgetID uuid.UUID, fechaCompra time.Time, notas string) (*model.Purchase, error)
}

type compraService struct {
	repo            repository.CompraRepository
	presupuestoRepo repository.PresupuestoRepository
}

func NewCompraService(repo repository.CompraRepository, presupuestoRepo repository.PresupuestoRepository) CompraService {
	return &compraService{repo: repo, presupuestoRepo: presupuestoRepo}
}

func (s *compraService) CreateFromBudgetTx(tx *gorm.DB, budgetID uuid.UUID, fechaCompra time.Time, notas string) (*model.Purchase, error) {
	budget, err := s.presupuestoRepo.FindByIDForUpdateTx(tx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Presupuesto no encontrado", nil)
		}
		return nil, err
	}
	if budget.Estado != model.BudgetCerrado {
		return nil, apierror.Conflict("El presupuesto debe estar CERRADO para generar la compra", map[string]any{
			"estado": budget.Estado,
		})
	}
	existe, err := s.repo.ExistsByBudgetIDTx(tx, budgetID)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.BudgetAlreadyPurchased(map[string]any{"budget_id": budgetID.String()})
	}

	if fechaCompra.IsZero() {
		now := time.Now().UTC()
		fechaCompra = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	purchase := &model.Purchase{
		BudgetID:      budgetID,
		FechaCompra:   fechaCompra,
		TotalSnapshot: budget.TotalSnapshot,
		Notas:         notas,
	}
	if err := s.repo.CreateTx(tx, purchase); err != nil {
		return nil, err
	}

	// Cada item se expande en `cantidad` unidades físicas rastreables,
	// todas arrancando en DEPOSITO.
	items, err := s.repo.ListItemsTx(tx, budgetID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		for seq := 1; seq <= item.Cantidad; seq++ {
			unidad := &model.PurchasedUnit{
				PurchaseID:    purchase.ID,
				BudgetItemID:  item.ID,
				MachineBaseID: item.MachineBaseID,
				Estado:        model.UnidadDeposito,
				Identificador: fmt.Sprintf("%s-%s-%d", budget.Numero, item.MachineBaseID, seq),
			}
			if err := s.repo.CreateUnidadTx(tx, unidad); err != nil {
				return nil, err
			}
		}
	}
	return purchase, nil
}
