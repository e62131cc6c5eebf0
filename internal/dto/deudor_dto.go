package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PagarDeudaRequest struct {
	Monto  decimal.Decimal `json:"monto"   validate:"required,gt=0"`
	CajaID *string         `json:"caja_id" validate:"omitempty,uuid"`
}

type DeudorFilter struct {
	Grupo  string
	Nombre string
	Skip   int
	Limit  int
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DeudorResponse struct {
	ID                string          `json:"id"`
	Nombre            string          `json:"nombre"`
	Grupo             string          `json:"grupo"`
	Deuda             decimal.Decimal `json:"deuda"`
	CajaID            *string         `json:"caja_id,omitempty"`
	FechaPrimeraDeuda string          `json:"fecha_primera_deuda"`
	UltimaCompra      string          `json:"ultima_compra"`
}

// PagoResponse: Deudor is nil when the payment settled the debt completely
// and the record was deleted.
type PagoResponse struct {
	Mensaje       string          `json:"mensaje"`
	DeudaRestante decimal.Decimal `json:"deuda_restante"`
	Deudor        *DeudorResponse `json:"deudor"`
}

type GrupoDeudaResumen struct {
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

type ResumenDeudasResponse struct {
	TotalDeudores int                          `json:"total_deudores"`
	TotalDeuda    decimal.Decimal              `json:"total_deuda"`
	PromedioDeuda decimal.Decimal              `json:"promedio_deuda"`
	PorGrupo      map[string]GrupoDeudaResumen `json:"por_grupo"`
}
