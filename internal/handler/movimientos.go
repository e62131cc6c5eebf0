package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/apierror"
	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type MovimientoHandler struct{ svc service.MovimientoService }

func NewMovimientoHandler(svc service.MovimientoService) *MovimientoHandler {
	return &MovimientoHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra un movimiento de caja
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarMovimientoRequest true "Movimiento"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos [post]
func (h *MovimientoHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Ingreso godoc
// @Summary Registra una entrada manual de efectivo
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.IngresoEgresoRequest true "Ingreso"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/movimientos/ingreso [post]
func (h *MovimientoHandler) Ingreso(c *gin.Context) {
	h.registrarSimple(c, model.OperacionIngreso)
}

// Egreso godoc
// @Summary Registra una salida manual de efectivo
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.IngresoEgresoRequest true "Egreso"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/movimientos/egreso [post]
func (h *MovimientoHandler) Egreso(c *gin.Context) {
	h.registrarSimple(c, model.OperacionEgreso)
}

func (h *MovimientoHandler) registrarSimple(c *gin.Context, tipo string) {
	var req dto.IngresoEgresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), dto.RegistrarMovimientoRequest{
		TipoOperacion: tipo,
		Monto:         req.Monto,
		Descripcion:   req.Descripcion,
		CajaID:        req.CajaID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Ajuste godoc
// @Summary Registra un ajuste con signo (correccion de arqueo)
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AjusteRequest true "Ajuste"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/movimientos/ajuste [post]
func (h *MovimientoHandler) Ajuste(c *gin.Context) {
	var req dto.AjusteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), dto.RegistrarMovimientoRequest{
		TipoOperacion: model.OperacionAjuste,
		Monto:         req.Monto,
		Descripcion:   req.Descripcion,
		CajaID:        req.CajaID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista movimientos con filtros opcionales
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param fecha_desde query string false "ISO-8601"
// @Param fecha_hasta query string false "ISO-8601"
// @Param tipo_operacion query string false "VENTA|INGRESO|EGRESO|AJUSTE"
// @Param caja_id query string false "Filtrar por caja"
// @Param skip query int false "Offset"
// @Param limit query int false "Max resultados"
// @Success 200 {array} dto.MovimientoResponse
// @Router /v1/movimientos [get]
func (h *MovimientoHandler) Listar(c *gin.Context) {
	cajaID, ok := queryCajaID(c)
	if !ok {
		return
	}
	filter := dto.MovimientoFilter{
		TipoOperacion: c.Query("tipo_operacion"),
		CajaID:        cajaID,
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if raw := c.Query("fecha_desde"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.FechaDesde = &t
		}
	}
	if raw := c.Query("fecha_hasta"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.FechaHasta = &t
		}
	}

	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Saldo godoc
// @Summary Saldo actual de un ambito (caja especifica o global)
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param caja_id query string false "Caja; omitir para el ambito global"
// @Success 200 {object} dto.SaldoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos/saldo [get]
func (h *MovimientoHandler) Saldo(c *gin.Context) {
	cajaID, ok := queryCajaID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Saldo(c.Request.Context(), cajaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaldoCaja godoc
// @Summary Saldo actual de una caja
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Success 200 {object} dto.SaldoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id}/saldo [get]
func (h *MovimientoHandler) SaldoCaja(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Saldo(c.Request.Context(), &id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un movimiento por id
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del movimiento"
// @Success 200 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/movimientos/{id} [get]
func (h *MovimientoHandler) Obtener(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Rechaza el borrado: el libro de movimientos es inmutable
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del movimiento"
// @Failure 405 {object} apierror.APIError
// @Router /v1/movimientos/{id} [delete]
func (h *MovimientoHandler) Eliminar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	// Siempre falla: las correcciones se registran como AJUSTE.
	writeError(c, h.svc.Eliminar(c.Request.Context(), id))
}

// CorteDiario godoc
// @Summary Corte diario de un ambito
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "YYYY-MM-DD, hoy por defecto"
// @Param caja_id query string false "Caja; omitir para el ambito global"
// @Success 200 {object} dto.CorteDiarioResponse
// @Router /v1/movimientos/stats/diario [get]
func (h *MovimientoHandler) CorteDiario(c *gin.Context) {
	fecha, ok := queryFecha(c, "fecha")
	if !ok {
		return
	}
	cajaID, ok := queryCajaID(c)
	if !ok {
		return
	}
	resp, err := h.svc.CorteDiario(c.Request.Context(), fecha, cajaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
