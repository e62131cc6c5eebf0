package service

import "errors"

// Errores de dominio del ledger. Handlers translate these with errors.Is into
// HTTP status codes; everything else surfaces as a generic 400/500.
var (
	// ErrMontoInvalido: zero (or negative where a positive amount is required).
	ErrMontoInvalido = errors.New("monto invalido: debe ser distinto de cero")

	// ErrMontoExcedeDeuda: a debt payment larger than the outstanding debt.
	ErrMontoExcedeDeuda = errors.New("el monto excede la deuda")

	ErrDeudorNoEncontrado = errors.New("deudor no encontrado")
	ErrCajaNoEncontrada   = errors.New("caja no encontrada")

	// ErrOperacionNoPermitida: movement deletion. The ledger is append-only;
	// corrections are new AJUSTE movements, never retroactive edits.
	ErrOperacionNoPermitida = errors.New("no se permite eliminar movimientos de caja; use un ajuste para corregir errores")

	// ErrConflictoConcurrencia: the serialization mechanism detected a lost
	// update. The caller should retry the operation.
	ErrConflictoConcurrencia = errors.New("conflicto de concurrencia al registrar el movimiento; reintente")
)
