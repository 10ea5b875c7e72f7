package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de un presupuesto. CERRADO is terminal: it is set in the same
// transaction that creates the Purchase.
const (
	BudgetDraft   = "DRAFT"
	BudgetCerrado = "CERRADO"
)

// Budget is the aggregate root of a cost estimate. The eight snapshot
// fields are computed once per create/update together with the child
// rows and are never re-derived on read; an edit deletes and regenerates
// every child inside one transaction, so snapshots and children are
// always mutually consistent.
type Budget struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero string    `gorm:"uniqueIndex;not null"`
	Fecha  time.Time `gorm:"type:date;not null;index"`
	Estado string    `gorm:"type:varchar(10);not null;default:'DRAFT';index"`

	SubtotalMaquinasSnapshot             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SubtotalAccesoriosSnapshot           decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SubtotalLogisticaHastaAduanaSnapshot decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SubtotalLogisticaPostAduanaSnapshot  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	BaseImponibleSnapshot                decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalImpuestosSnapshot               decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CostoAduanaSnapshot                  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalSnapshot                        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Items      []BudgetItem                 `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
	Impuestos  []BudgetTaxApplied           `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
	Logisticas []BudgetSelectedLogisticsLeg `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
}

func (Budget) TableName() string { return "budget" }

// BudgetItem captures one machine line: the machine price and quantity
// at entry time plus the computed line subtotal. The machine row is
// protected against deletion while referenced.
type BudgetItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BudgetID      uuid.UUID `gorm:"type:uuid;not null;index"`
	MachineBaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad      int       `gorm:"not null"`

	MachineTotalSnapshot    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SubtotalMaquinaSnapshot decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	MachineBase *MachineBase          `gorm:"foreignKey:MachineBaseID;constraint:OnDelete:RESTRICT"`
	Accesorios  []BudgetItemAccessory `gorm:"foreignKey:BudgetItemID;constraint:OnDelete:CASCADE"`
}

func (BudgetItem) TableName() string { return "budget_item" }

// BudgetItemAccessory is an accessory line nested under a BudgetItem;
// unique per (item, accessory).
type BudgetItemAccessory struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BudgetItemID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_budget_item_accessory"`
	AccessoryID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_budget_item_accessory"`
	Cantidad     int       `gorm:"not null"`

	AccessoryTotalSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SubtotalSnapshot       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Accessory *Accessory `gorm:"foreignKey:AccessoryID;constraint:OnDelete:RESTRICT"`
}

func (BudgetItemAccessory) TableName() string { return "budget_item_accessory" }

// BudgetTaxApplied records one tax evaluation for a budget. Taxes with
// Incluido=false are kept for audit visibility but their
// MontoAplicadoSnapshot is zero and they contribute nothing to totals.
type BudgetTaxApplied struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BudgetID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_budget_tax"`
	TaxID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_budget_tax"`
	Incluido bool      `gorm:"not null;default:true"`

	PorcentajeSnapshot    decimal.Decimal  `gorm:"type:decimal(6,2);not null;default:0"`
	MontoMinimoSnapshot   *decimal.Decimal `gorm:"type:decimal(14,2)"`
	MontoAplicadoSnapshot decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Tax *Tax `gorm:"foreignKey:TaxID;constraint:OnDelete:RESTRICT"`
}

func (BudgetTaxApplied) TableName() string { return "budget_tax_applied" }

// BudgetSelectedLogisticsLeg pins the leg price at selection time;
// unique per (budget, leg).
type BudgetSelectedLogisticsLeg struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BudgetID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_budget_selected_logistics_leg"`
	LogisticsLegID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_budget_selected_logistics_leg"`

	TotalSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	LogisticsLeg *LogisticsLeg `gorm:"foreignKey:LogisticsLegID;constraint:OnDelete:RESTRICT"`
}

func (BudgetSelectedLogisticsLeg) TableName() string { return "budget_selected_logistics_leg" }
