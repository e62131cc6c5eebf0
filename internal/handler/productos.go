package handler

import (
	"net/http"

	"github.com/GloDelMar/la-tiendita-pos/internal/apierror"
	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductoHandler struct{ svc service.ProductoService }

func NewProductoHandler(svc service.ProductoService) *ProductoHandler {
	return &ProductoHandler{svc: svc}
}

// Crear godoc
// @Summary Alta de producto en el catalogo
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/productos [post]
func (h *ProductoHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
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
// @Summary Lista el catalogo, opcionalmente por caja
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param caja_id query string false "Caja"
// @Success 200 {array} dto.ProductoResponse
// @Router /v1/productos [get]
func (h *ProductoHandler) Listar(c *gin.Context) {
	cajaID, ok := queryCajaID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), cajaID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorCaja godoc
// @Summary Lista los productos asignados a una caja
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la caja"
// @Success 200 {array} dto.ProductoResponse
// @Router /v1/cajas/{id}/productos [get]
func (h *ProductoHandler) ListarPorCaja(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), &id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Obtiene un producto por id
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id} [get]
func (h *ProductoHandler) Obtener(c *gin.Context) {
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

// Actualizar godoc
// @Summary Actualiza un producto
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param body body dto.ActualizarProductoRequest true "Campos a actualizar"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id} [put]
func (h *ProductoHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
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

// Eliminar godoc
// @Summary Elimina un producto del catalogo
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id} [delete]
func (h *ProductoHandler) Eliminar(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
