package handler

import (
	"net/http"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type CajaHandler struct{ svc service.CajaService }

func NewCajaHandler(svc service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// Crear godoc
// @Summary Registra una nueva caja
// @Tags cajas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCajaRequest true "Datos de la caja"
// @Success 201 {object} dto.CajaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/cajas [post]
func (h *CajaHandler) Crear(c *gin.Context) {
	var req dto.CrearCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista las cajas registradas
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param solo_activas query bool false "Solo cajas activas"
// @Success 200 {array} dto.CajaResponse
// @Router /v1/cajas [get]
func (h *CajaHandler) Listar(c *gin.Context) {
	soloActivas := c.Query("solo_activas") == "true"
	resp, err := h.svc.Listar(c.Request.Context(), soloActivas)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene una caja por su id
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Success 200 {object} dto.CajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id} [get]
func (h *CajaHandler) Obtener(c *gin.Context) {
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

// Actualizar godoc
// @Summary Actualiza nombre, descripcion o estado de una caja
// @Tags cajas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Param body body dto.ActualizarCajaRequest true "Campos a actualizar"
// @Success 200 {object} dto.CajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id} [put]
func (h *CajaHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ActualizarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary Desactiva una caja (las cajas nunca se borran)
// @Tags cajas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Success 200 {object} dto.CajaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cajas/{id} [delete]
func (h *CajaHandler) Desactivar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Desactivar(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
