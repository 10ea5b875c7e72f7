package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
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

type PresupuestoService interface {
	Crear(ctx context.Context, req dto.PresupuestoRequest) (*dto.PresupuestoDetailResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.PresupuestoRequest) (*dto.PresupuestoDetailResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PresupuestoDetailResponse, error)
	Listar(ctx context.Context, filter dto.PresupuestoFilter) (*dto.PresupuestoListResponse, error)
	MarcarComprado(ctx context.Context, id uuid.UUID, req dto.ComprarPresupuestoRequest) (*dto.ComprarPresupuestoResponse, error)
}

type presupuestoService struct {
	repo       repository.PresupuestoRepository
	compraRepo repository.CompraRepository
	maquinas   repository.MachineBaseRepository
	accesorios repository.AccessoryRepository
	impuestos  repository.TaxRepository
	tramos     repository.LogisticsLegRepository
	compras    CompraService
}

func NewPresupuestoService(
	repo repository.PresupuestoRepository,
	compraRepo repository.CompraRepository,
	maquinas repository.MachineBaseRepository,
	accesorios repository.AccessoryRepository,
	impuestos repository.TaxRepository,
	tramos repository.LogisticsLegRepository,
	compras CompraService,
) PresupuestoService {
	return &presupuestoService{
		repo:       repo,
		compraRepo: compraRepo,
		maquinas:   maquinas,
		accesorios: accesorios,
		impuestos:  impuestos,
		tramos:     tramos,
		compras:    compras,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// genNumero builds a correlative that is unique for all practical
// purposes without a sequence: timestamp to the microsecond plus a
// random hex suffix.
func genNumero(now time.Time) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("PRESU-%s-%06d-%s",
		now.Format("20060102-150405"),
		now.Nanosecond()/1000,
		strings.ToUpper(hex.EncodeToString(buf)),
	)
}

func parseFecha(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *presupuestoService) Crear(ctx context.Context, req dto.PresupuestoRequest) (*dto.PresupuestoDetailResponse, error) {
	fecha, err := parseFecha(req.Fecha, time.Now().UTC())
	if err != nil {
		return nil, apierror.Validation("fecha inválida, se espera YYYY-MM-DD", nil)
	}

	now := time.Now().UTC()
	budget := &model.Budget{
		Numero: genNumero(now),
		Fecha:  fecha,
		Estado: model.BudgetDraft,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, budget); err != nil {
			return err
		}
		return s.applyPayload(tx, budget, req)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Obtener(ctx, budget.ID)
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Una edición es un full replace: se borran todos los hijos y se vuelve a
// correr el motor de precios con el payload nuevo, en una sola transacción.

func (s *presupuestoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.PresupuestoRequest) (*dto.PresupuestoDetailResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		budget, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Presupuesto no encontrado", nil)
			}
			return err
		}
		if budget.Estado != model.BudgetDraft {
			return apierror.BudgetEditNotAllowed(map[string]any{"estado": budget.Estado})
		}
		tieneCompra, err := s.compraRepo.ExistsByBudgetIDTx(tx, id)
		if err != nil {
			return err
		}
		if tieneCompra {
			return apierror.BudgetAlreadyPurchased(map[string]any{"budget_id": id.String()})
		}

		if req.Fecha != "" {
			fecha, err := parseFecha(req.Fecha, time.Time{})
			if err != nil {
				return apierror.Validation("fecha inválida, se espera YYYY-MM-DD", nil)
			}
			if err := s.repo.UpdateFechaTx(tx, id, fecha); err != nil {
				return err
			}
		}

		if err := s.repo.DeleteChildrenTx(tx, id); err != nil {
			return err
		}
		return s.applyPayload(tx, budget, req)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.Obtener(ctx, id)
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *presupuestoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		budget, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Presupuesto no encontrado", nil)
			}
			return err
		}
		if budget.Estado != model.BudgetDraft {
			return apierror.BudgetDeleteNotAllowed(map[string]any{"estado": budget.Estado})
		}
		tieneCompra, err := s.compraRepo.ExistsByBudgetIDTx(tx, id)
		if err != nil {
			return err
		}
		if tieneCompra {
			return apierror.BudgetDeleteNotAllowed(map[string]any{"motivo": "tiene compra asociada"})
		}
		return s.repo.DeleteTx(tx, id)
	})
}

// ── MarcarComprado ────────────────────────────────────────────────────────────
// Cierra el presupuesto y delega en CompraService la creación de la compra
// y la expansión de unidades, todo bajo la misma transacción. CompraService
// re-valida estado y ausencia de compra por su cuenta.

func (s *presupuestoService) MarcarComprado(ctx context.Context, id uuid.UUID, req dto.ComprarPresupuestoRequest) (*dto.ComprarPresupuestoResponse, error) {
	fechaCompra, err := parseFecha(req.FechaCompra, time.Now().UTC())
	if err != nil {
		return nil, apierror.Validation("fecha_compra inválida, se espera YYYY-MM-DD", nil)
	}

	var purchaseID uuid.UUID
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		budget, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Presupuesto no encontrado", nil)
			}
			return err
		}
		if budget.Estado != model.BudgetDraft {
			return apierror.Conflict("El presupuesto no está en estado DRAFT", map[string]any{"estado": budget.Estado})
		}
		tieneCompra, err := s.compraRepo.ExistsByBudgetIDTx(tx, id)
		if err != nil {
			return err
		}
		if tieneCompra {
			return apierror.BudgetAlreadyPurchased(map[string]any{"budget_id": id.String()})
		}

		if err := s.repo.UpdateEstadoTx(tx, id, model.BudgetCerrado); err != nil {
			return err
		}

		purchase, err := s.compras.CreateFromBudgetTx(tx, id, fechaCompra, req.Notas)
		if err != nil {
			return err
		}
		purchaseID = purchase.ID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &dto.ComprarPresupuestoResponse{OK: true, PurchaseID: purchaseID.String()}, nil
}

// ── Motor de precios ──────────────────────────────────────────────────────────
// applyPayload resuelve cada id contra el catálogo, aplica overrides de
// precio (pisando el catálogo cuando difieren, last-writer-wins), crea los
// hijos con sus snapshots y persiste los ocho agregados del presupuesto.
//
// Orden de cálculo:
//   subtotal_maquinas, subtotal_accesorios, logística por etapa,
//   base_imponible = maq + acc + hasta_aduana,
//   impuestos sobre la base (mínimo manda si aplica),
//   costo_aduana = hasta_aduana + impuestos,
//   total = base + impuestos + post_aduana.

func (s *presupuestoService) applyPayload(tx *gorm.DB, budget *model.Budget, req dto.PresupuestoRequest) error {
	if len(req.Items) == 0 {
		return apierror.Validation("El presupuesto requiere al menos un item", nil)
	}

	subtotalMaquinas := decimal.Zero
	subtotalAccesorios := decimal.Zero

	for _, itemReq := range req.Items {
		machineID, err := uuid.Parse(itemReq.MachineBaseID)
		if err != nil {
			return apierror.Validation("machine_base_id inválido", map[string]any{"valor": itemReq.MachineBaseID})
		}
		machine, err := s.maquinas.FindByIDTx(tx, machineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Máquina no encontrada", map[string]any{"machine_base_id": itemReq.MachineBaseID})
			}
			return err
		}

		machineTotal, err := s.resolveOverride(tx, machine.Total, itemReq.MachineTotal, func(v decimal.Decimal) error {
			return s.maquinas.UpdateTotalTx(tx, machineID, v)
		})
		if err != nil {
			return err
		}

		subtotalMaquina := money.Round(machineTotal.Mul(decimal.NewFromInt(int64(itemReq.Cantidad))))
		item := &model.BudgetItem{
			BudgetID:                budget.ID,
			MachineBaseID:           machineID,
			Cantidad:                itemReq.Cantidad,
			MachineTotalSnapshot:    machineTotal,
			SubtotalMaquinaSnapshot: subtotalMaquina,
		}
		if err := s.repo.CreateItemTx(tx, item); err != nil {
			return err
		}
		subtotalMaquinas = subtotalMaquinas.Add(subtotalMaquina)

		for _, accReq := range itemReq.Accesorios {
			accID, err := uuid.Parse(accReq.AccessoryID)
			if err != nil {
				return apierror.Validation("accessory_id inválido", map[string]any{"valor": accReq.AccessoryID})
			}
			accessory, err := s.accesorios.FindByIDTx(tx, accID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apierror.NotFound("Accesorio no encontrado", map[string]any{"accessory_id": accReq.AccessoryID})
				}
				return err
			}

			accTotal, err := s.resolveOverride(tx, accessory.Total, accReq.AccessoryTotal, func(v decimal.Decimal) error {
				return s.accesorios.UpdateTotalTx(tx, accID, v)
			})
			if err != nil {
				return err
			}

			subtotalAcc := money.Round(accTotal.Mul(decimal.NewFromInt(int64(accReq.Cantidad))))
			if err := s.repo.CreateItemAccessoryTx(tx, &model.BudgetItemAccessory{
				BudgetItemID:           item.ID,
				AccessoryID:            accID,
				Cantidad:               accReq.Cantidad,
				AccessoryTotalSnapshot: accTotal,
				SubtotalSnapshot:       subtotalAcc,
			}); err != nil {
				return err
			}
			subtotalAccesorios = subtotalAccesorios.Add(subtotalAcc)
		}
	}

	subtotalMaquinas = money.Round(subtotalMaquinas)
	subtotalAccesorios = money.Round(subtotalAccesorios)

	// Logística, partida por etapa.
	logHasta := decimal.Zero
	logPost := decimal.Zero
	for _, legReq := range req.Logisticas {
		legID, err := uuid.Parse(legReq.LogisticsLegID)
		if err != nil {
			return apierror.Validation("logistics_leg_id inválido", map[string]any{"valor": legReq.LogisticsLegID})
		}
		leg, err := s.tramos.FindByIDTx(tx, legID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NotFound("Tramo logístico no encontrado", map[string]any{"logistics_leg_id": legReq.LogisticsLegID})
			}
			return err
		}

		legTotal, err := s.resolveOverride(tx, leg.Total, legReq.Total, func(v decimal.Decimal) error {
			return s.tramos.UpdateTotalTx(tx, legID, v)
		})
		if err != nil {
			return err
		}

		if err := s.repo.CreateSelectedLegTx(tx, &model.BudgetSelectedLogisticsLeg{
			BudgetID:       budget.ID,
			LogisticsLegID: legID,
			TotalSnapshot:  legTotal,
		}); err != nil {
			return err
		}
		if leg.Etapa == model.EtapaHastaAduana {
			logHasta = logHasta.Add(legTotal)
		} else {
			logPost = logPost.Add(legTotal)
		}
	}
	logHasta = money.Round(logHasta)
	logPost = money.Round(logPost)

	baseImponible := money.Round(subtotalMaquinas.Add(subtotalAccesorios).Add(logHasta))

	// Impuestos: los del payload, o el set siempre_incluir por defecto.
	resueltos, err := s.resolveImpuestos(tx, req.Impuestos)
	if err != nil {
		return err
	}

	totalImpuestos := decimal.Zero
	for _, ri := range resueltos {
		montoAplicado := decimal.Zero
		if ri.incluido {
			montoPct := money.Round(baseImponible.Mul(ri.porcentaje).Div(decimal.NewFromInt(100)))
			montoAplicado = montoPct
			if ri.montoMinimo != nil {
				montoAplicado = money.Max(montoPct, *ri.montoMinimo)
			}
			montoAplicado = money.Round(montoAplicado)
			totalImpuestos = totalImpuestos.Add(montoAplicado)
		}
		if err := s.repo.CreateTaxAppliedTx(tx, &model.BudgetTaxApplied{
			BudgetID:              budget.ID,
			TaxID:                 ri.taxID,
			Incluido:              ri.incluido,
			PorcentajeSnapshot:    ri.porcentaje,
			MontoMinimoSnapshot:   ri.montoMinimo,
			MontoAplicadoSnapshot: montoAplicado,
		}); err != nil {
			return err
		}
	}
	totalImpuestos = money.Round(totalImpuestos)

	costoAduana := money.Round(logHasta.Add(totalImpuestos))
	total := money.Round(baseImponible.Add(totalImpuestos).Add(logPost))

	budget.SubtotalMaquinasSnapshot = subtotalMaquinas
	budget.SubtotalAccesoriosSnapshot = subtotalAccesorios
	budget.SubtotalLogisticaHastaAduanaSnapshot = logHasta
	budget.SubtotalLogisticaPostAduanaSnapshot = logPost
	budget.BaseImponibleSnapshot = baseImponible
	budget.TotalImpuestosSnapshot = totalImpuestos
	budget.CostoAduanaSnapshot = costoAduana
	budget.TotalSnapshot = total
	return s.repo.UpdateSnapshotsTx(tx, budget)
}

// resolveOverride aplica el contrato de override de precio: un valor
// presente y distinto de cero reemplaza al de catálogo y, si difiere del
// catálogo redondeado, lo pisa dentro de la misma transacción.
func (s *presupuestoService) resolveOverride(tx *gorm.DB, catalogo decimal.Decimal, override *decimal.Decimal, persist func(decimal.Decimal) error) (decimal.Decimal, error) {
	catalogoR := money.Round(catalogo)
	if override == nil || override.IsZero() {
		return catalogoR, nil
	}
	valor := money.Round(*override)
	if !valor.Equal(catalogoR) {
		if err := persist(valor); err != nil {
			return decimal.Zero, err
		}
	}
	return valor, nil
}

type impuestoResuelto struct {
	taxID       uuid.UUID
	incluido    bool
	porcentaje  decimal.Decimal
	montoMinimo *decimal.Decimal
}

func (s *presupuestoService) resolveImpuestos(tx *gorm.DB, reqs []dto.ImpuestoPresupuestoRequest) ([]impuestoResuelto, error) {
	if len(reqs) == 0 {
		defaults, err := s.impuestos.ListSiempreIncluirTx(tx)
		if err != nil {
			return nil, err
		}
		resueltos := make([]impuestoResuelto, 0, len(defaults))
		for i := range defaults {
			resueltos = append(resueltos, impuestoResuelto{
				taxID:       defaults[i].ID,
				incluido:    true,
				porcentaje:  defaults[i].Porcentaje,
				montoMinimo: defaults[i].MontoMinimo,
			})
		}
		return resueltos, nil
	}

	resueltos := make([]impuestoResuelto, 0, len(reqs))
	for _, impReq := range reqs {
		taxID, err := uuid.Parse(impReq.TaxID)
		if err != nil {
			return nil, apierror.Validation("tax_id inválido", map[string]any{"valor": impReq.TaxID})
		}
		tax, err := s.impuestos.FindByIDTx(tx, taxID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.NotFound("Impuesto no encontrado", map[string]any{"tax_id": impReq.TaxID})
			}
			return nil, err
		}

		porcentaje := tax.Porcentaje
		if impReq.Porcentaje != nil && !impReq.Porcentaje.IsZero() {
			porcentaje = money.Round(*impReq.Porcentaje)
			if !porcentaje.Equal(money.Round(tax.Porcentaje)) {
				if err := s.impuestos.UpdatePorcentajeTx(tx, taxID, porcentaje); err != nil {
					return nil, err
				}
			}
		}

		// El override de mínimo sólo aplica cuando el impuesto YA tiene
		// mínimo en el catálogo; sin mínimo catalogado se ignora.
		montoMinimo := tax.MontoMinimo
		if tax.MontoMinimo != nil && impReq.MontoMinimo != nil && !impReq.MontoMinimo.IsZero() {
			min := money.Round(*impReq.MontoMinimo)
			if !min.Equal(money.Round(*tax.MontoMinimo)) {
				if err := s.impuestos.UpdateMontoMinimoTx(tx, taxID, min); err != nil {
					return nil, err
				}
			}
			montoMinimo = &min
		}

		incluido := true
		if impReq.Incluido != nil {
			incluido = *impReq.Incluido
		}

		resueltos = append(resueltos, impuestoResuelto{
			taxID:       taxID,
			incluido:    incluido,
			porcentaje:  porcentaje,
			montoMinimo: montoMinimo,
		})
	}
	return resueltos, nil
}

// ── Lectura ───────────────────────────────────────────────────────────────────

func (s *presupuestoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PresupuestoDetailResponse, error) {
	budget, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Presupuesto no encontrado", nil)
		}
		return nil, err
	}
	return budgetToDetail(budget), nil
}

func (s *presupuestoService) Listar(ctx context.Context, filter dto.PresupuestoFilter) (*dto.PresupuestoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	budgets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(budgets))
	for i := range budgets {
		ids = append(ids, budgets[i].ID)
	}
	compras, err := s.compraRepo.MapByBudgetIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.PresupuestoListItem, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		item := dto.PresupuestoListItem{
			ID:                     b.ID.String(),
			Numero:                 b.Numero,
			Fecha:                  b.Fecha.Format("2006-01-02"),
			Estado:                 b.Estado,
			BaseImponibleSnapshot:  b.BaseImponibleSnapshot,
			TotalImpuestosSnapshot: b.TotalImpuestosSnapshot,
			TotalSnapshot:          b.TotalSnapshot,
			CreatedAt:              b.CreatedAt.UTC().Format(tsLayout),
			UpdatedAt:              b.UpdatedAt.UTC().Format(tsLayout),
		}
		if compraID, ok := compras[b.ID]; ok {
			item.TieneCompra = true
			cid := compraID.String()
			item.CompraID = &cid
		}
		items = append(items, item)
	}
	return &dto.PresupuestoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// budgetToDetail arma la vista de detalle con el orden estable que espera
// el frontend: items por nombre de máquina, impuestos incluidos por nombre,
// tramos HASTA_ADUANA primero.
func budgetToDetail(b *model.Budget) *dto.PresupuestoDetailResponse {
	items := make([]dto.ItemPresupuestoResponse, 0, len(b.Items))
	for i := range b.Items {
		item := &b.Items[i]
		nombre := ""
		if item.MachineBase != nil {
			nombre = item.MachineBase.Nombre
		}
		accesorios := make([]dto.AccesorioItemResponse, 0, len(item.Accesorios))
		for j := range item.Accesorios {
			acc := &item.Accesorios[j]
			accNombre := ""
			if acc.Accessory != nil {
				accNombre = acc.Accessory.Nombre
			}
			accesorios = append(accesorios, dto.AccesorioItemResponse{
				ID:                     acc.ID.String(),
				AccessoryID:            acc.AccessoryID.String(),
				AccessoryNombre:        accNombre,
				Cantidad:               acc.Cantidad,
				AccessoryTotalSnapshot: acc.AccessoryTotalSnapshot,
				SubtotalSnapshot:       acc.SubtotalSnapshot,
			})
		}
		sort.Slice(accesorios, func(x, y int) bool {
			if accesorios[x].AccessoryNombre != accesorios[y].AccessoryNombre {
				return accesorios[x].AccessoryNombre < accesorios[y].AccessoryNombre
			}
			return accesorios[x].ID < accesorios[y].ID
		})
		items = append(items, dto.ItemPresupuestoResponse{
			ID:                      item.ID.String(),
			MachineBaseID:           item.MachineBaseID.String(),
			MachineNombre:           nombre,
			Cantidad:                item.Cantidad,
			MachineTotalSnapshot:    item.MachineTotalSnapshot,
			SubtotalMaquinaSnapshot: item.SubtotalMaquinaSnapshot,
			Accesorios:              accesorios,
		})
	}
	sort.Slice(items, func(x, y int) bool {
		if items[x].MachineNombre != items[y].MachineNombre {
			return items[x].MachineNombre < items[y].MachineNombre
		}
		return items[x].ID < items[y].ID
	})

	impuestos := make([]dto.ImpuestoPresupuestoResponse, 0, len(b.Impuestos))
	for i := range b.Impuestos {
		imp := &b.Impuestos[i]
		if !imp.Incluido {
			continue
		}
		taxNombre := ""
		if imp.Tax != nil {
			taxNombre = imp.Tax.Nombre
		}
		impuestos = append(impuestos, dto.ImpuestoPresupuestoResponse{
			ID:                    imp.ID.String(),
			TaxID:                 imp.TaxID.String(),
			TaxNombre:             taxNombre,
			Incluido:              imp.Incluido,
			PorcentajeSnapshot:    imp.PorcentajeSnapshot,
			MontoMinimoSnapshot:   imp.MontoMinimoSnapshot,
			MontoAplicadoSnapshot: imp.MontoAplicadoSnapshot,
		})
	}
	sort.Slice(impuestos, func(x, y int) bool {
		if impuestos[x].TaxNombre != impuestos[y].TaxNombre {
			return impuestos[x].TaxNombre < impuestos[y].TaxNombre
		}
		return impuestos[x].ID < impuestos[y].ID
	})

	logisticas := make([]dto.LogisticaPresupuestoResponse, 0, len(b.Logisticas))
	for i := range b.Logisticas {
		leg := &b.Logisticas[i]
		resp := dto.LogisticaPresupuestoResponse{
			ID:             leg.ID.String(),
			LogisticsLegID: leg.LogisticsLegID.String(),
			TotalSnapshot:  leg.TotalSnapshot,
		}
		if leg.LogisticsLeg != nil {
			resp.Desde = leg.LogisticsLeg.Desde
			resp.Hasta = leg.LogisticsLeg.Hasta
			resp.Tipo = leg.LogisticsLeg.Tipo
			resp.Etapa = leg.LogisticsLeg.Etapa
		}
		logisticas = append(logisticas, resp)
	}
	sort.Slice(logisticas, func(x, y int) bool {
		lx, ly := &logisticas[x], &logisticas[y]
		if lx.Etapa != ly.Etapa {
			return lx.Etapa == model.EtapaHastaAduana
		}
		if lx.Desde != ly.Desde {
			return lx.Desde < ly.Desde
		}
		if lx.Hasta != ly.Hasta {
			return lx.Hasta < ly.Hasta
		}
		if lx.Tipo != ly.Tipo {
			return lx.Tipo < ly.Tipo
		}
		return lx.ID < ly.ID
	})

	return &dto.PresupuestoDetailResponse{
		ID:     b.ID.String(),
		Numero: b.Numero,
		Fecha:  b.Fecha.Format("2006-01-02"),
		Estado: b.Estado,

		SubtotalMaquinasSnapshot:             b.SubtotalMaquinasSnapshot,
		SubtotalAccesoriosSnapshot:           b.SubtotalAccesoriosSnapshot,
		SubtotalLogisticaHastaAduanaSnapshot: b.SubtotalLogisticaHastaAduanaSnapshot,
		SubtotalLogisticaPostAduanaSnapshot:  b.SubtotalLogisticaPostAduanaSnapshot,
		BaseImponibleSnapshot:                b.BaseImponibleSnapshot,
		TotalImpuestosSnapshot:               b.TotalImpuestosSnapshot,
		CostoAduanaSnapshot:                  b.CostoAduanaSnapshot,
		TotalSnapshot:                        b.TotalSnapshot,

		Items:      items,
		Impuestos:  impuestos,
		Logisticas: logisticas,

		CreatedAt: b.CreatedAt.UTC().Format(tsLayout),
		UpdatedAt: b.UpdatedAt.UTC().Format(tsLayout),
	}
}
