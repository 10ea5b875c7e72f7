package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de transporte de un tramo logístico.
const (
	LogisticaTerrestre = "TERRESTRE"
	LogisticaAereo     = "AEREO"
	LogisticaMaritimo  = "MARITIMO"
)

// Etapas de un tramo logístico respecto del despacho aduanero.
// HASTA_ADUANA integra la base imponible; POST_ADUANA no.
const (
	EtapaHastaAduana = "HASTA_ADUANA"
	EtapaPostAduana  = "POST_ADUANA"
)

// MachineBase is a catalog machine with its current unit price.
// The price drifts: any budget line that uses a different total
// overwrites it (last writer wins, see PresupuestoService).
type MachineBase struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"uniqueIndex;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MachineBase) TableName() string { return "machine_base" }

// Accessory is a catalog accessory; same price-drift contract as MachineBase.
type Accessory struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"uniqueIndex;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Accessory) TableName() string { return "accessory" }

// Tax is a catalog tax rate. MontoMinimo, when set, floors the applied
// amount; a nil MontoMinimo means the tax has no floor and payload
// overrides for it are ignored entirely.
type Tax struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre         string           `gorm:"uniqueIndex;not null"`
	Porcentaje     decimal.Decimal  `gorm:"type:decimal(6,2);not null"`
	MontoMinimo    *decimal.Decimal `gorm:"type:decimal(14,2)"`
	SiempreIncluir bool             `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Tax) TableName() string { return "tax" }

// LogisticsLeg is a priced route segment. Etapa decides which logistics
// subtotal it feeds during pricing.
type LogisticsLeg struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Desde     string          `gorm:"not null;uniqueIndex:uq_logistics_leg_route"`
	Hasta     string          `gorm:"not null;uniqueIndex:uq_logistics_leg_route"`
	Tipo      string          `gorm:"type:varchar(20);not null;index;uniqueIndex:uq_logistics_leg_route"`
	Etapa     string          `gorm:"type:varchar(20);not null;index;uniqueIndex:uq_logistics_leg_route"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LogisticsLeg) TableName() string { return "logistics_leg" }
