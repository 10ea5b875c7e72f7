package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/RamsesGirala/machinery-ops/internal/dto"
	"github.com/RamsesGirala/machinery-ops/internal/model"
	"github.com/RamsesGirala/machinery-ops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stubs in memoria para los repos. Con DB() == nil los services corren la
// transacción como fn(nil), así que los *Tx ignoran el tx.

// ── Catálogo ─────────────────────────────────────────────────────────────────

type stubMaquinaRepo struct {
	maquinas      map[uuid.UUID]*model.MachineBase
	updatedTotals map[uuid.UUID]decimal.Decimal
	deleteErr     error
}

func newStubMaquinaRepo() *stubMaquinaRepo {
	return &stubMaquinaRepo{
		maquinas:      make(map[uuid.UUID]*model.MachineBase),
		updatedTotals: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubMaquinaRepo) add(nombre string, total string) *model.MachineBase {
	m := &model.MachineBase{ID: uuid.New(), Nombre: nombre, Total: mustDec(total)}
	r.maquinas[m.ID] = m
	return m
}

func (r *stubMaquinaRepo) Create(_ context.Context, m *model.MachineBase) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.maquinas[m.ID] = m
	return nil
}

func (r *stubMaquinaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MachineBase, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubMaquinaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.MachineBase, error) {
	m, ok := r.maquinas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMaquinaRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.MachineBase, int64, error) {
	out := make([]model.MachineBase, 0, len(r.maquinas))
	for _, m := range r.maquinas {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMaquinaRepo) Update(_ context.Context, m *model.MachineBase) error {
	r.maquinas[m.ID] = m
	return nil
}

func (r *stubMaquinaRepo) UpdateTotalTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	r.maquinas[id].Total = total
	r.updatedTotals[id] = total
	return nil
}

func (r *stubMaquinaRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.maquinas, id)
	return nil
}

var _ repository.MachineBaseRepository = (*stubMaquinaRepo)(nil)

type stubAccesorioRepo struct {
	accesorios    map[uuid.UUID]*model.Accessory
	updatedTotals map[uuid.UUID]decimal.Decimal
}

func newStubAccesorioRepo() *stubAccesorioRepo {
	return &stubAccesorioRepo{
		accesorios:    make(map[uuid.UUID]*model.Accessory),
		updatedTotals: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubAccesorioRepo) add(nombre string, total string) *model.Accessory {
	a := &model.Accessory{ID: uuid.New(), Nombre: nombre, Total: mustDec(total)}
	r.accesorios[a.ID] = a
	return a
}

func (r *stubAccesorioRepo) Create(_ context.Context, a *model.Accessory) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.accesorios[a.ID] = a
	return nil
}

func (r *stubAccesorioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Accessory, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubAccesorioRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Accessory, error) {
	a, ok := r.accesorios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAccesorioRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.Accessory, int64, error) {
	out := make([]model.Accessory, 0, len(r.accesorios))
	for _, a := range r.accesorios {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *stubAccesorioRepo) Update(_ context.Context, a *model.Accessory) error {
	r.accesorios[a.ID] = a
	return nil
}

func (r *stubAccesorioRepo) UpdateTotalTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	r.accesorios[id].Total = total
	r.updatedTotals[id] = total
	return nil
}

func (r *stubAccesorioRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.accesorios, id)
	return nil
}

var _ repository.AccessoryRepository = (*stubAccesorioRepo)(nil)

type stubTaxRepo struct {
	impuestos          map[uuid.UUID]*model.Tax
	updatedPorcentajes map[uuid.UUID]decimal.Decimal
	updatedMinimos     map[uuid.UUID]decimal.Decimal
}

func newStubTaxRepo() *stubTaxRepo {
	return &stubTaxRepo{
		impuestos:          make(map[uuid.UUID]*model.Tax),
		updatedPorcentajes: make(map[uuid.UUID]decimal.Decimal),
		updatedMinimos:     make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubTaxRepo) add(nombre, porcentaje string, siempre bool, minimo *string) *model.Tax {
	t := &model.Tax{ID: uuid.New(), Nombre: nombre, Porcentaje: mustDec(porcentaje), SiempreIncluir: siempre}
	if minimo != nil {
		m := mustDec(*minimo)
		t.MontoMinimo = &m
	}
	r.impuestos[t.ID] = t
	return t
}

func (r *stubTaxRepo) Create(_ context.Context, t *model.Tax) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.impuestos[t.ID] = t
	return nil
}

func (r *stubTaxRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tax, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubTaxRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Tax, error) {
	t, ok := r.impuestos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTaxRepo) ListSiempreIncluirTx(_ *gorm.DB) ([]model.Tax, error) {
	out := make([]model.Tax, 0)
	for _, t := range r.impuestos {
		if t.SiempreIncluir {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTaxRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.Tax, int64, error) {
	out := make([]model.Tax, 0, len(r.impuestos))
	for _, t := range r.impuestos {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTaxRepo) Update(_ context.Context, t *model.Tax) error {
	r.impuestos[t.ID] = t
	return nil
}

func (r *stubTaxRepo) UpdatePorcentajeTx(_ *gorm.DB, id uuid.UUID, p decimal.Decimal) error {
	r.impuestos[id].Porcentaje = p
	r.updatedPorcentajes[id] = p
	return nil
}

func (r *stubTaxRepo) UpdateMontoMinimoTx(_ *gorm.DB, id uuid.UUID, m decimal.Decimal) error {
	r.impuestos[id].MontoMinimo = &m
	r.updatedMinimos[id] = m
	return nil
}

func (r *stubTaxRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.impuestos, id)
	return nil
}

var _ repository.TaxRepository = (*stubTaxRepo)(nil)

type stubTramoRepo struct {
	tramos map[uuid.UUID]*model.LogisticsLeg
}

func newStubTramoRepo() *stubTramoRepo {
	return &stubTramoRepo{tramos: make(map[uuid.UUID]*model.LogisticsLeg)}
}

func (r *stubTramoRepo) add(desde, hasta, tipo, etapa, total string) *model.LogisticsLeg {
	l := &model.LogisticsLeg{ID: uuid.New(), Desde: desde, Hasta: hasta, Tipo: tipo, Etapa: etapa, Total: mustDec(total)}
	r.tramos[l.ID] = l
	return l
}

func (r *stubTramoRepo) Create(_ context.Context, l *model.LogisticsLeg) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.tramos[l.ID] = l
	return nil
}

func (r *stubTramoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.LogisticsLeg, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubTramoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.LogisticsLeg, error) {
	l, ok := r.tramos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubTramoRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.LogisticsLeg, int64, error) {
	out := make([]model.LogisticsLeg, 0, len(r.tramos))
	for _, l := range r.tramos {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *stubTramoRepo) Update(_ context.Context, l *model.LogisticsLeg) error {
	r.tramos[l.ID] = l
	return nil
}

func (r *stubTramoRepo) UpdateTotalTx(_ *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	r.tramos[id].Total = total
	return nil
}

func (r *stubTramoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.tramos, id)
	return nil
}

var _ repository.LogisticsLegRepository = (*stubTramoRepo)(nil)

// ── Presupuestos ─────────────────────────────────────────────────────────────

type stubPresupuestoRepo struct {
	budgets   map[uuid.UUID]*model.Budget
	items     []*model.BudgetItem
	itemAccs  []*model.BudgetItemAccessory
	taxRows   []*model.BudgetTaxApplied
	legRows   []*model.BudgetSelectedLogisticsLeg
	deleted   []uuid.UUID
	impuestos *stubTaxRepo
	maquinas  *stubMaquinaRepo
	tramos    *stubTramoRepo
}

func newStubPresupuestoRepo(maquinas *stubMaquinaRepo, impuestos *stubTaxRepo, tramos *stubTramoRepo) *stubPresupuestoRepo {
	return &stubPresupuestoRepo{
		budgets:   make(map[uuid.UUID]*model.Budget),
		impuestos: impuestos,
		maquinas:  maquinas,
		tramos:    tramos,
	}
}

func (r *stubPresupuestoRepo) CreateTx(_ *gorm.DB, b *model.Budget) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.budgets[b.ID] = b
	return nil
}

func (r *stubPresupuestoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Budget, error) {
	b, ok := r.budgets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *b
	copia.Items = nil
	copia.Impuestos = nil
	copia.Logisticas = nil
	for _, item := range r.items {
		if item.BudgetID != id {
			continue
		}
		ic := *item
		if m, ok := r.maquinas.maquinas[item.MachineBaseID]; ok {
			ic.MachineBase = m
		}
		for _, acc := range r.itemAccs {
			if acc.BudgetItemID == item.ID {
				ic.Accesorios = append(ic.Accesorios, *acc)
			}
		}
		copia.Items = append(copia.Items, ic)
	}
	for _, row := range r.taxRows {
		if row.BudgetID != id {
			continue
		}
		tc := *row
		if t, ok := r.impuestos.impuestos[row.TaxID]; ok {
			tc.Tax = t
		}
		copia.Impuestos = append(copia.Impuestos, tc)
	}
	for _, row := range r.legRows {
		if row.BudgetID != id {
			continue
		}
		lc := *row
		if l, ok := r.tramos.tramos[row.LogisticsLegID]; ok {
			lc.LogisticsLeg = l
		}
		copia.Logisticas = append(copia.Logisticas, lc)
	}
	return &copia, nil
}

func (r *stubPresupuestoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Budget, error) {
	b, ok := r.budgets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubPresupuestoRepo) List(_ context.Context, _ dto.PresupuestoFilter) ([]model.Budget, int64, error) {
	out := make([]model.Budget, 0, len(r.budgets))
	for _, b := range r.budgets {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *stubPresupuestoRepo) UpdateFechaTx(_ *gorm.DB, id uuid.UUID, fecha time.Time) error {
	r.budgets[id].Fecha = fecha
	return nil
}

func (r *stubPresupuestoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	r.budgets[id].Estado = estado
	return nil
}

func (r *stubPresupuestoRepo) UpdateSnapshotsTx(_ *gorm.DB, b *model.Budget) error {
	r.budgets[b.ID] = b
	return nil
}

func (r *stubPresupuestoRepo) DeleteChildrenTx(_ *gorm.DB, budgetID uuid.UUID) error {
	keepItems := r.items[:0]
	itemIDs := make(map[uuid.UUID]bool)
	for _, item := range r.items {
		if item.BudgetID == budgetID {
			itemIDs[item.ID] = true
			continue
		}
		keepItems = append(keepItems, item)
	}
	r.items = keepItems

	keepAccs := r.itemAccs[:0]
	for _, acc := range r.itemAccs {
		if !itemIDs[acc.BudgetItemID] {
			keepAccs = append(keepAccs, acc)
		}
	}
	r.itemAccs = keepAccs

	keepTaxes := r.taxRows[:0]
	for _, row := range r.taxRows {
		if row.BudgetID != budgetID {
			keepTaxes = append(keepTaxes, row)
		}
	}
	r.taxRows = keepTaxes

	keepLegs := r.legRows[:0]
	for _, row := range r.legRows {
		if row.BudgetID != budgetID {
			keepLegs = append(keepLegs, row)
		}
	}
	r.legRows = keepLegs
	return nil
}

func (r *stubPresupuestoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.budgets, id)
	r.deleted = append(r.deleted, id)
	return r.DeleteChildrenTx(nil, id)
}

func (r *stubPresupuestoRepo) CreateItemTx(_ *gorm.DB, item *model.BudgetItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items = append(r.items, item)
	return nil
}

func (r *stubPresupuestoRepo) CreateItemAccessoryTx(_ *gorm.DB, acc *model.BudgetItemAccessory) error {
	if acc.ID == uuid.Nil {
		acc.ID = uuid.New()
	}
	r.itemAccs = append(r.itemAccs, acc)
	return nil
}

func (r *stubPresupuestoRepo) CreateTaxAppliedTx(_ *gorm.DB, ta *model.BudgetTaxApplied) error {
	if ta.ID == uuid.Nil {
		ta.ID = uuid.New()
	}
	r.taxRows = append(r.taxRows, ta)
	return nil
}

func (r *stubPresupuestoRepo) CreateSelectedLegTx(_ *gorm.DB, leg *model.BudgetSelectedLogisticsLeg) error {
	if leg.ID == uuid.Nil {
		leg.ID = uuid.New()
	}
	r.legRows = append(r.legRows, leg)
	return nil
}

func (r *stubPresupuestoRepo) DB() *gorm.DB { return nil }

var _ repository.PresupuestoRepository = (*stubPresupuestoRepo)(nil)

// ── Compras ──────────────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras     map[uuid.UUID]*model.Purchase // key: budgetID
	unidades    []*model.PurchasedUnit
	presupuesto *stubPresupuestoRepo
}

func newStubCompraRepo(presupuesto *stubPresupuestoRepo) *stubCompraRepo {
	return &stubCompraRepo{
		compras:     make(map[uuid.UUID]*model.Purchase),
		presupuesto: presupuesto,
	}
}

func (r *stubCompraRepo) CreateTx(_ *gorm.DB, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.compras[p.BudgetID] = p
	return nil
}

func (r *stubCompraRepo) FindByBudgetID(_ context.Context, budgetID uuid.UUID) (*model.Purchase, error) {
	return r.FindByBudgetIDTx(nil, budgetID)
}

func (r *stubCompraRepo) ExistsByBudgetIDTx(_ *gorm.DB, budgetID uuid.UUID) (bool, error) {
	_, ok := r.compras[budgetID]
	return ok, nil
}

func (r *stubCompraRepo) FindByBudgetIDTx(_ *gorm.DB, budgetID uuid.UUID) (*model.Purchase, error) {
	p, ok := r.compras[budgetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubCompraRepo) MapByBudgetIDs(_ context.Context, budgetIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	out := make(map[uuid.UUID]uuid.UUID)
	for _, id := range budgetIDs {
		if p, ok := r.compras[id]; ok {
			out[id] = p.ID
		}
	}
	return out, nil
}

func (r *stubCompraRepo) CreateUnidadTx(_ *gorm.DB, u *model.PurchasedUnit) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.unidades = append(r.unidades, u)
	return nil
}

func (r *stubCompraRepo) ListItemsTx(_ *gorm.DB, budgetID uuid.UUID) ([]model.BudgetItem, error) {
	out := make([]model.BudgetItem, 0)
	for _, item := range r.presupuesto.items {
		if item.BudgetID == budgetID {
			out = append(out, *item)
		}
	}
	return out, nil
}

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── Unidades ─────────────────────────────────────────────────────────────────

type stubUnidadRepo struct {
	unidades map[uuid.UUID]*model.PurchasedUnit
	eventos  []*model.RevenueEvent
	links    []*model.RevenueEventUnit
	seq      int
}

func newStubUnidadRepo() *stubUnidadRepo {
	return &stubUnidadRepo{unidades: make(map[uuid.UUID]*model.PurchasedUnit)}
}

func (r *stubUnidadRepo) addUnidad(estado string) *model.PurchasedUnit {
	u := &model.PurchasedUnit{ID: uuid.New(), Estado: estado}
	r.unidades[u.ID] = u
	return u
}

func (r *stubUnidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchasedUnit, error) {
	return r.FindByIDForUpdateTx(nil, id)
}

func (r *stubUnidadRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.PurchasedUnit, error) {
	u, ok := r.unidades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUnidadRepo) List(_ context.Context, _ dto.UnidadFilter) ([]model.PurchasedUnit, int64, error) {
	out := make([]model.PurchasedUnit, 0, len(r.unidades))
	for _, u := range r.unidades {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUnidadRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	r.unidades[id].Estado = estado
	return nil
}

func (r *stubUnidadRepo) CreateEventoTx(_ *gorm.DB, ev *model.RevenueEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	r.seq++
	ev.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	r.eventos = append(r.eventos, ev)
	return nil
}

func (r *stubUnidadRepo) CreateEventoUnidadTx(_ *gorm.DB, link *model.RevenueEventUnit) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	r.links = append(r.links, link)
	return nil
}

func (r *stubUnidadRepo) UpdateEventoCierreTx(_ *gorm.DB, ev *model.RevenueEvent) error {
	for _, stored := range r.eventos {
		if stored.ID == ev.ID {
			stored.FechaRetornoReal = ev.FechaRetornoReal
			stored.MontoTotal = ev.MontoTotal
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUnidadRepo) FindAlquilerAbiertoTx(_ *gorm.DB, unidadID uuid.UUID) (*model.RevenueEvent, error) {
	var mejor *model.RevenueEvent
	for _, link := range r.links {
		if link.PurchasedUnitID != unidadID {
			continue
		}
		for _, ev := range r.eventos {
			if ev.ID != link.RevenueEventID || ev.Tipo != model.IngresoAlquiler || ev.FechaRetornoReal != nil {
				continue
			}
			if mejor == nil || ev.Fecha.After(mejor.Fecha) ||
				(ev.Fecha.Equal(mejor.Fecha) && ev.CreatedAt.After(mejor.CreatedAt)) {
				mejor = ev
			}
		}
	}
	if mejor == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return mejor, nil
}

func (r *stubUnidadRepo) ListEventos(_ context.Context, unidadID uuid.UUID) ([]model.RevenueEvent, error) {
	out := make([]model.RevenueEvent, 0)
	for _, link := range r.links {
		if link.PurchasedUnitID != unidadID {
			continue
		}
		for _, ev := range r.eventos {
			if ev.ID == link.RevenueEventID {
				out = append(out, *ev)
			}
		}
	}
	return out, nil
}

func (r *stubUnidadRepo) DB() *gorm.DB { return nil }

var _ repository.UnidadRepository = (*stubUnidadRepo)(nil)

// ── Reportes ─────────────────────────────────────────────────────────────────

type stubReporteRepo struct {
	ventas     []repository.TotalPorDia
	alquileres []repository.TotalPorDia
	compras    []repository.TotalPorDia
}

func (r *stubReporteRepo) SumVentasPorDia(_ context.Context, _, _ time.Time) ([]repository.TotalPorDia, error) {
	return r.ventas, nil
}

func (r *stubReporteRepo) SumAlquileresCerradosPorDia(_ context.Context, _, _ time.Time) ([]repository.TotalPorDia, error) {
	return r.alquileres, nil
}

func (r *stubReporteRepo) SumComprasPorDia(_ context.Context, _, _ time.Time) ([]repository.TotalPorDia, error) {
	return r.compras, nil
}

var _ repository.ReporteRepository = (*stubReporteRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("uuid inválido %q: %v", s, err)
	}
	return id
}

func decPtr(s string) *decimal.Decimal {
	v := mustDec(s)
	return &v
}

func boolPtr(b bool) *bool { return &b }
