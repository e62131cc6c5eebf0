package handler

import (
	"net/http"
	"strconv"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type DeudorHandler struct{ svc service.DeudorService }

func NewDeudorHandler(svc service.DeudorService) *DeudorHandler {
	return &DeudorHandler{svc: svc}
}

// Listar godoc
// @Summary Lista deudores, ordenados por deuda descendente
// @Tags deudores
// @Produce json
// @Security BearerAuth
// @Param grupo query string false "Filtrar por grupo"
// @Param nombre query string false "Busqueda parcial por nombre"
// @Param skip query int false "Offset"
// @Param limit query int false "Max resultados"
// @Success 200 {array} dto.DeudorResponse
// @Router /v1/deudores [get]
func (h *DeudorHandler) Listar(c *gin.Context) {
	filter := dto.DeudorFilter{
		Grupo:  c.Query("grupo"),
		Nombre: c.Query("nombre"),
	}
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un deudor por id
// @Tags deudores
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del deudor"
// @Success 200 {object} dto.DeudorResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/deudores/{id} [get]
func (h *DeudorHandler) Obtener(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorNombre godoc
// @Summary Busca un deudor por nombre y grupo exactos
// @Tags deudores
// @Produce json
// @Security BearerAuth
// @Param nombre path string true "Nombre del deudor"
// @Param grupo path string true "Grupo"
// @Success 200 {object} dto.DeudorResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/deudores/por-nombre/{nombre}/{grupo} [get]
func (h *DeudorHandler) ObtenerPorNombre(c *gin.Context) {
	resp, err := h.svc.ObtenerPorNombreGrupo(c.Request.Context(), c.Param("nombre"), c.Param("grupo"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagar godoc
// @Summary Aplica un abono a la deuda; liquidarla elimina al deudor
// @Tags deudores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del deudor"
// @Param body body dto.PagarDeudaRequest true "Abono"
// @Success 200 {object} dto.PagoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/deudores/{id}/pagar [patch]
func (h *DeudorHandler) Pagar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.PagarDeudaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Pagar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Condonar godoc
// @Summary Condona la deuda: elimina al deudor sin registrar efectivo
// @Tags deudores
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del deudor"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/deudores/{id} [delete]
func (h *DeudorHandler) Condonar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Condonar(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Resumen godoc
// @Summary Resumen de deudas: totales y desglose por grupo
// @Tags deudores
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResumenDeudasResponse
// @Router /v1/deudores/stats/resumen [get]
func (h *DeudorHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
