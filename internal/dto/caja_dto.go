package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearCajaRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=1,max=200"`
	Descripcion  *string         `json:"descripcion"`
	Activa       *bool           `json:"activa"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
}

type ActualizarCajaRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,min=1,max=200"`
	Descripcion *string `json:"descripcion"`
	Activa      *bool   `json:"activa"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  *string         `json:"descripcion"`
	Activa       bool            `json:"activa"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial"`
	CreatedAt    string          `json:"created_at"`
}

// SaldoResponse is the current derived balance of a scope. CajaID and
// CajaNombre are nil for the global scope; UltimaActualizacion is nil when
// the scope has no movements yet.
type SaldoResponse struct {
	Saldo                decimal.Decimal `json:"saldo"`
	UltimaActualizacion  *string         `json:"ultima_actualizacion"`
	CajaID               *string         `json:"caja_id,omitempty"`
	CajaNombre           *string         `json:"caja_nombre,omitempty"`
}
