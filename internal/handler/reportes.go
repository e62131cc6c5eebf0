package handler

import (
	"net/http"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/apierror"
	"github.com/GloDelMar/la-tiendita-pos/internal/config"
	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/worker"

	"github.com/gin-gonic/gin"
)

type ReporteHandler struct {
	dispatcher *worker.Dispatcher
	cfg        *config.Config
}

func NewReporteHandler(dispatcher *worker.Dispatcher, cfg *config.Config) *ReporteHandler {
	return &ReporteHandler{dispatcher: dispatcher, cfg: cfg}
}

// EnviarDiario godoc
// @Summary Encola el envio por correo del reporte diario
// @Tags reportes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EnviarReporteRequest true "Parametros del reporte"
// @Success 202 {object} dto.EnviarReporteResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/reportes/diario/enviar [post]
func (h *ReporteHandler) EnviarDiario(c *gin.Context) {
	var req dto.EnviarReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}

	fecha := req.Fecha
	if fecha == "" {
		fecha = time.Now().UTC().Format("2006-01-02")
	}
	destinatario := req.Destinatario
	if destinatario == "" {
		destinatario = h.cfg.ReporteDestinatario
	}
	if destinatario == "" {
		c.JSON(http.StatusBadRequest, apierror.New("sin destinatario: configure REPORTE_DESTINATARIO o envielo en el body"))
		return
	}

	err := h.dispatcher.EnqueueReporteDiario(c.Request.Context(), worker.ReporteDiarioPayload{
		Fecha:        fecha,
		CajaID:       req.CajaID,
		Destinatario: destinatario,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("no se pudo encolar el reporte"))
		return
	}
	c.JSON(http.StatusAccepted, dto.EnviarReporteResponse{Mensaje: "Reporte encolado", Fecha: fecha})
}
