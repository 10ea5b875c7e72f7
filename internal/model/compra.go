package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de una unidad comprada.
// DEPOSITO -> ALQUILADA -> DEPOSITO (loop) -> VENDIDA (terminal);
// DEPOSITO -> VENDIDA directo también es legal.
const (
	UnidadDeposito  = "DEPOSITO"
	UnidadAlquilada = "ALQUILADA"
	UnidadVendida   = "VENDIDA"
)

// Purchase is the one-to-one realization of a CERRADO budget. It
// snapshots the budget's grand total and the purchase date; the budget
// row is protected against deletion while the purchase exists.
type Purchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BudgetID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	FechaCompra   time.Time       `gorm:"type:date;not null;index"`
	TotalSnapshot decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Notas         string          `gorm:"not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Budget   *Budget         `gorm:"foreignKey:BudgetID;constraint:OnDelete:RESTRICT"`
	Unidades []PurchasedUnit `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

func (Purchase) TableName() string { return "purchase" }

// PurchasedUnit is one physical tracked machine, expanded from a budget
// item's cantidad at purchase time. Mutated only by lifecycle
// transitions under an exclusive row lock.
type PurchasedUnit struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BudgetItemID  uuid.UUID `gorm:"type:uuid;not null;index"`
	MachineBaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado        string    `gorm:"type:varchar(12);not null;default:'DEPOSITO';index"`
	// Identificador: "<numero presupuesto>-<machine id>-<secuencia>"
	Identificador string `gorm:"not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Purchase    *Purchase    `gorm:"foreignKey:PurchaseID"`
	BudgetItem  *BudgetItem  `gorm:"foreignKey:BudgetItemID;constraint:OnDelete:RESTRICT"`
	MachineBase *MachineBase `gorm:"foreignKey:MachineBaseID;constraint:OnDelete:RESTRICT"`
}

func (PurchasedUnit) TableName() string { return "purchased_unit" }
