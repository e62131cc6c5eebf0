package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados de pago de una transacción.
const (
	PagadoSi = "SI"
	PagadoNo = "NO"
)

// Transaccion is a finalized sale. It is immutable once created: every sale
// produces exactly one MovimientoCaja of tipo VENTA for Total, even at
// Pago == 0, and a sale with Pagado == NO produces or updates exactly one
// Deudor for the unpaid remainder.
type Transaccion struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Cliente string          `gorm:"not null;index"`
	Grupo   string          `gorm:"not null"`
	Total   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Pago is the amount tendered; Cambio = Pago - Total when positive.
	Pago   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cambio decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Pagado string          `gorm:"type:varchar(2);not null"`
	CajaID *uuid.UUID      `gorm:"type:uuid;index"`
	Fecha  time.Time       `gorm:"index;not null"`

	Items []TransaccionItem `gorm:"foreignKey:TransaccionID"`
	Caja  *Caja             `gorm:"foreignKey:CajaID"`
}

func (Transaccion) TableName() string { return "transacciones" }

// TransaccionItem is a denormalized line item: product name and price are
// copied at sale time, not live references to the catalog.
type TransaccionItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransaccionID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Nombre         string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (TransaccionItem) TableName() string { return "transaccion_items" }
