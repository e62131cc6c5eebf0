package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Caja is a named cash till. It is never hard-deleted: Activa is flipped off
// instead, so historical movements always resolve to a register.
// The running balance is NOT stored here — it is derived from the last
// MovimientoCaja of the register's scope (SaldoInicial when there is none).
type Caja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string          `gorm:"uniqueIndex;not null"`
	Descripcion  *string
	Activa       bool            `gorm:"not null;default:true"`
	SaldoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt    time.Time
}

// TableName overrides GORM's default pluralization (cajas, not cajae).
func (Caja) TableName() string { return "cajas" }

// Tipos de operación de caja.
const (
	OperacionVenta   = "VENTA"
	OperacionIngreso = "INGRESO"
	OperacionEgreso  = "EGRESO"
	OperacionAjuste  = "AJUSTE"
)

// MovimientoCaja is an immutable event in the cash ledger. CajaID is nil for
// movements in the global scope. Saldo snapshots the balance of the scope
// right after applying this movement, so each scope's movements ordered by
// (fecha, id) form a strictly derived sequence.
// Movements are NEVER updated or deleted — corrections are new AJUSTE entries.
type MovimientoCaja struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CajaID        *uuid.UUID      `gorm:"type:uuid;index"`
	TipoOperacion string          `gorm:"type:varchar(20);not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descripcion   string
	Fecha         time.Time `gorm:"index;not null"`

	Caja *Caja `gorm:"foreignKey:CajaID"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }
