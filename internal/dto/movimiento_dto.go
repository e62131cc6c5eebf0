package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarMovimientoRequest struct {
	TipoOperacion string          `json:"tipo_operacion" validate:"required,oneof=VENTA INGRESO EGRESO AJUSTE"`
	Monto         decimal.Decimal `json:"monto"          validate:"required"`
	Descripcion   string          `json:"descripcion"`
	CajaID        *string         `json:"caja_id"        validate:"omitempty,uuid"`
}

// IngresoEgresoRequest backs the /ingreso and /egreso convenience endpoints;
// the amount is always interpreted as positive.
type IngresoEgresoRequest struct {
	Monto       decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"required,min=3"`
	CajaID      *string         `json:"caja_id"     validate:"omitempty,uuid"`
}

// AjusteRequest carries a signed amount (positive or negative, never zero).
type AjusteRequest struct {
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Descripcion string          `json:"descripcion"`
	CajaID      *string         `json:"caja_id"     validate:"omitempty,uuid"`
}

type MovimientoFilter struct {
	FechaDesde    *time.Time
	FechaHasta    *time.Time
	TipoOperacion string
	CajaID        *uuid.UUID
	Skip          int
	Limit         int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID            string          `json:"id"`
	CajaID        *string         `json:"caja_id"`
	TipoOperacion string          `json:"tipo_operacion"`
	Monto         decimal.Decimal `json:"monto"`
	Saldo         decimal.Decimal `json:"saldo"`
	Descripcion   string          `json:"descripcion"`
	Fecha         string          `json:"fecha"`
}

// CorteDiarioResponse is the daily cash cut for one scope: opening balance is
// the saldo of the last movement strictly before the day start, closing
// balance the saldo of the last movement in or before the day end.
type CorteDiarioResponse struct {
	Fecha        string          `json:"fecha"`
	CajaID       *string         `json:"caja_id,omitempty"`
	SaldoInicial decimal.Decimal `json:"saldo_inicial"`
	Ingresos     decimal.Decimal `json:"ingresos"`
	Egresos      decimal.Decimal `json:"egresos"`
	Ajustes      decimal.Decimal `json:"ajustes"`
	SaldoActual  decimal.Decimal `json:"saldo_actual"`
	Diferencia   decimal.Decimal `json:"diferencia"`
}
