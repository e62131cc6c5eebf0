package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemTransaccionRequest struct {
	Nombre         string          `json:"nombre"          validate:"required,min=1"`
	Cantidad       int             `json:"cantidad"        validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	Subtotal       decimal.Decimal `json:"subtotal"        validate:"min=0"`
}

// RegistrarTransaccionRequest describes a finalized sale. Pagado is the
// caller-supplied policy flag: whether the sale is paid in full (SI) or on
// credit (NO) is decided by the invoking workflow, not by this backend.
type RegistrarTransaccionRequest struct {
	Cliente   string                   `json:"cliente"   validate:"required,min=1,max=200"`
	Grupo     string                   `json:"grupo"     validate:"required,min=1,max=200"`
	Productos []ItemTransaccionRequest `json:"productos" validate:"required,min=1,dive"`
	Total     decimal.Decimal          `json:"total"     validate:"required,gt=0"`
	Pago      decimal.Decimal          `json:"pago"      validate:"min=0"`
	Pagado    string                   `json:"pagado"    validate:"required,oneof=SI NO"`
	CajaID    *string                  `json:"caja_id"   validate:"omitempty,uuid"`
}

type TransaccionFilter struct {
	FechaDesde *time.Time
	FechaHasta *time.Time
	Cliente    string
	Grupo      string
	CajaID     *uuid.UUID
	Pagado     string
	Skip       int
	Limit      int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemTransaccionResponse struct {
	Nombre         string          `json:"nombre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type TransaccionResponse struct {
	ID        string                    `json:"id"`
	Cliente   string                    `json:"cliente"`
	Grupo     string                    `json:"grupo"`
	Productos []ItemTransaccionResponse `json:"productos"`
	Total     decimal.Decimal           `json:"total"`
	Pago      decimal.Decimal           `json:"pago"`
	Cambio    decimal.Decimal           `json:"cambio"`
	Pagado    string                    `json:"pagado"`
	CajaID    *string                   `json:"caja_id,omitempty"`
	Fecha     string                    `json:"fecha"`
}

type StatsDiarioResponse struct {
	Fecha              string          `json:"fecha"`
	TotalTransacciones int             `json:"total_transacciones"`
	TotalVentas        decimal.Decimal `json:"total_ventas"`
	TotalEfectivo      decimal.Decimal `json:"total_efectivo"`
	TotalCredito       decimal.Decimal `json:"total_credito"`
	PromedioTicket     decimal.Decimal `json:"promedio_ticket"`
}

type StatsMensualResponse struct {
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	TotalTransacciones int             `json:"total_transacciones"`
	TotalVentas        decimal.Decimal `json:"total_ventas"`
	TotalEfectivo      decimal.Decimal `json:"total_efectivo"`
	PromedioDiario     decimal.Decimal `json:"promedio_diario"`
}

// ResumenClienteResponse aggregates every sale of one customer, including the
// unpaid ones backing their current debt.
type ResumenClienteResponse struct {
	Cliente            string                `json:"cliente"`
	Grupo              string                `json:"grupo"`
	TotalTransacciones int                   `json:"total_transacciones"`
	TotalComprado      decimal.Decimal       `json:"total_comprado"`
	TotalPagado        decimal.Decimal       `json:"total_pagado"`
	TotalPendiente     decimal.Decimal       `json:"total_pendiente"`
	NoPagadas          []TransaccionResponse `json:"transacciones_no_pagadas"`
}
