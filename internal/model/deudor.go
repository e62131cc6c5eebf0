package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Deudor is a customer with outstanding credit, identified by (Nombre, Grupo).
// The record only exists while Deuda > 0: it is created on the first unpaid
// sale and deleted the moment a payment brings the debt to exactly zero.
type Deudor struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre            string          `gorm:"not null;uniqueIndex:idx_deudor_nombre_grupo"`
	Grupo             string          `gorm:"not null;uniqueIndex:idx_deudor_nombre_grupo"`
	Deuda             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CajaID            *uuid.UUID      `gorm:"type:uuid"`
	FechaPrimeraDeuda time.Time       `gorm:"not null"`
	UltimaCompra      time.Time       `gorm:"not null"`
}

func (Deudor) TableName() string { return "deudores" }
