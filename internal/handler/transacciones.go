package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/apierror"
	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type TransaccionHandler struct{ svc service.TransaccionService }

func NewTransaccionHandler(svc service.TransaccionService) *TransaccionHandler {
	return &TransaccionHandler{svc: svc}
}

// Registrar godoc
// @Summary Registra una venta finalizada
// @Tags transacciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarTransaccionRequest true "Venta"
// @Success 201 {object} dto.TransaccionResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/transacciones [post]
func (h *TransaccionHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarTransaccionRequest
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

// Listar godoc
// @Summary Lista transacciones con filtros opcionales
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param fecha_desde query string false "ISO-8601"
// @Param fecha_hasta query string false "ISO-8601"
// @Param cliente query string false "Busqueda parcial"
// @Param grupo query string false "Grupo exacto"
// @Param caja_id query string false "Caja"
// @Param pagado query string false "SI|NO"
// @Param skip query int false "Offset"
// @Param limit query int false "Max resultados"
// @Success 200 {array} dto.TransaccionResponse
// @Router /v1/transacciones [get]
func (h *TransaccionHandler) Listar(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene una transaccion por id
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la transaccion"
// @Success 200 {object} dto.TransaccionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/transacciones/{id} [get]
func (h *TransaccionHandler) Obtener(c *gin.Context) {
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

// StatsDiario godoc
// @Summary Estadisticas de ventas del dia
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param fecha query string false "YYYY-MM-DD, hoy por defecto"
// @Success 200 {object} dto.StatsDiarioResponse
// @Router /v1/transacciones/stats/diario [get]
func (h *TransaccionHandler) StatsDiario(c *gin.Context) {
	fecha, ok := queryFecha(c, "fecha")
	if !ok {
		return
	}
	resp, err := h.svc.StatsDiario(c.Request.Context(), fecha)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StatsMensual godoc
// @Summary Estadisticas de ventas del mes
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param year query int true "Año"
// @Param month query int true "Mes 1-12"
// @Success 200 {object} dto.StatsMensualResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/transacciones/stats/mensual [get]
func (h *TransaccionHandler) StatsMensual(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("year invalido"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("month invalido"))
		return
	}
	resp, err := h.svc.StatsMensual(c.Request.Context(), year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorCliente godoc
// @Summary Transacciones de un cliente
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param nombre path string true "Nombre exacto del cliente"
// @Param solo_no_pagadas query bool false "Solo ventas a credito pendientes"
// @Success 200 {array} dto.TransaccionResponse
// @Router /v1/transacciones/cliente/{nombre} [get]
func (h *TransaccionHandler) PorCliente(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}
	if c.Query("solo_no_pagadas") == "true" {
		filter.Pagado = "NO"
	}
	filter.Cliente = ""

	resp, err := h.svc.ListarPorCliente(c.Request.Context(), c.Param("nombre"), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenCliente godoc
// @Summary Resumen historico de compras y adeudos de un cliente
// @Tags transacciones
// @Produce json
// @Security BearerAuth
// @Param nombre path string true "Nombre exacto del cliente"
// @Success 200 {object} dto.ResumenClienteResponse
// @Router /v1/transacciones/cliente/{nombre}/resumen [get]
func (h *TransaccionHandler) ResumenCliente(c *gin.Context) {
	resp, err := h.svc.ResumenCliente(c.Request.Context(), c.Param("nombre"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TransaccionHandler) parseFilter(c *gin.Context) (dto.TransaccionFilter, bool) {
	cajaID, ok := queryCajaID(c)
	if !ok {
		return dto.TransaccionFilter{}, false
	}
	filter := dto.TransaccionFilter{
		Cliente: c.Query("cliente"),
		Grupo:   c.Query("grupo"),
		CajaID:  cajaID,
		Pagado:  c.Query("pagado"),
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
	return filter, true
}
