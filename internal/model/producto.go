package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is an ordinary mutable catalog entity. It may belong to a caja
// (register-scoped catalog) or be global. The ledger only reads products to
// denormalize name/price into sale line items.
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"index;not null"`
	Precio    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	ImagenURL *string
	CajaID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Caja *Caja `gorm:"foreignKey:CajaID"`
}

func (Producto) TableName() string { return "productos" }
