package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Mailer is satisfied by infra.Mailer.
type Mailer interface {
	SendReporte(to, subject, body string) error
}

// ReporteWorker builds the daily summary (corte de caja + ventas) and mails it.
type ReporteWorker struct {
	movSvc   service.MovimientoService
	transSvc service.TransaccionService
	mailer   Mailer
}

func NewReporteWorker(movSvc service.MovimientoService, transSvc service.TransaccionService, mailer Mailer) *ReporteWorker {
	return &ReporteWorker{movSvc: movSvc, transSvc: transSvc, mailer: mailer}
}

func (w *ReporteWorker) Procesar(ctx context.Context, job Job) error {
	if job.Type != "reporte_diario" {
		return fmt.Errorf("tipo de job desconocido: %s", job.Type)
	}

	var payload ReporteDiarioPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("payload invalido: %w", err)
	}

	fecha, err := time.Parse("2006-01-02", payload.Fecha)
	if err != nil {
		return fmt.Errorf("fecha invalida %q: %w", payload.Fecha, err)
	}
	var cajaID *uuid.UUID
	if payload.CajaID != nil {
		id, err := uuid.Parse(*payload.CajaID)
		if err != nil {
			return fmt.Errorf("caja_id invalido: %w", err)
		}
		cajaID = &id
	}

	corte, err := w.movSvc.CorteDiario(ctx, fecha, cajaID)
	if err != nil {
		return fmt.Errorf("corte diario: %w", err)
	}
	stats, err := w.transSvc.StatsDiario(ctx, fecha)
	if err != nil {
		return fmt.Errorf("stats diario: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reporte diario La Tiendita - %s\n\n", corte.Fecha)
	fmt.Fprintf(&b, "Corte de caja\n")
	fmt.Fprintf(&b, "  Saldo inicial: %s\n", corte.SaldoInicial.StringFixed(2))
	fmt.Fprintf(&b, "  Ingresos:      %s\n", corte.Ingresos.StringFixed(2))
	fmt.Fprintf(&b, "  Egresos:       %s\n", corte.Egresos.StringFixed(2))
	fmt.Fprintf(&b, "  Ajustes:       %s\n", corte.Ajustes.StringFixed(2))
	fmt.Fprintf(&b, "  Saldo final:   %s\n", corte.SaldoActual.StringFixed(2))
	fmt.Fprintf(&b, "  Diferencia:    %s\n\n", corte.Diferencia.StringFixed(2))
	fmt.Fprintf(&b, "Ventas\n")
	fmt.Fprintf(&b, "  Transacciones: %d\n", stats.TotalTransacciones)
	fmt.Fprintf(&b, "  Total vendido: %s\n", stats.TotalVentas.StringFixed(2))
	fmt.Fprintf(&b, "  Efectivo:      %s\n", stats.TotalEfectivo.StringFixed(2))
	fmt.Fprintf(&b, "  Credito:       %s\n", stats.TotalCredito.StringFixed(2))
	fmt.Fprintf(&b, "  Ticket prom.:  %s\n", stats.PromedioTicket.StringFixed(2))

	subject := fmt.Sprintf("Reporte diario %s", corte.Fecha)
	if err := w.mailer.SendReporte(payload.Destinatario, subject, b.String()); err != nil {
		return fmt.Errorf("enviar reporte: %w", err)
	}

	log.Info().Str("fecha", corte.Fecha).Str("destinatario", payload.Destinatario).Msg("reporte diario enviado")
	return nil
}
