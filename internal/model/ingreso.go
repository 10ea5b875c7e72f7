package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de evento de ingreso.
const (
	IngresoVenta    = "VENTA"
	IngresoAlquiler = "ALQUILER"
)

// RevenueEvent is a sale or a rental period.
//
// VENTA: Fecha is the exact sale date, MontoTotal the flat amount;
// monthly amount and return dates are always nil.
//
// ALQUILER: the calendar works at month/year granularity, stored as the
// 1st of the month. Fecha is the start month, FechaRetornoEstimada the
// estimated return month, FechaRetornoReal the actual return month (nil
// while the rental is open). MontoTotal = MontoMensual × elapsed whole
// months inclusive, recomputed when the rental closes. If present,
// FechaRetornoReal must be >= Fecha.
type RevenueEvent struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo string    `gorm:"type:varchar(10);not null;index"`

	Fecha        time.Time `gorm:"type:date;not null;index"`
	ClienteTexto string    `gorm:"not null;default:''"`

	MontoTotal   decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	MontoMensual *decimal.Decimal `gorm:"type:decimal(14,2)"`

	FechaRetornoEstimada *time.Time `gorm:"type:date"`
	FechaRetornoReal     *time.Time `gorm:"type:date"`

	Notas     string `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Unidades []RevenueEventUnit `gorm:"foreignKey:RevenueEventID;constraint:OnDelete:CASCADE"`
}

func (RevenueEvent) TableName() string { return "revenue_event" }

// RevenueEventUnit joins an event to the unit it covers. One unit per
// event today; the join table leaves room for multi-unit events without
// a schema change.
type RevenueEventUnit struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RevenueEventID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_revenue_event_unit"`
	PurchasedUnitID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_revenue_event_unit"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	RevenueEvent  *RevenueEvent  `gorm:"foreignKey:RevenueEventID"`
	PurchasedUnit *PurchasedUnit `gorm:"foreignKey:PurchasedUnitID;constraint:OnDelete:RESTRICT"`
}

func (RevenueEventUnit) TableName() string { return "revenue_event_unit" }
