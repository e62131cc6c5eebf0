package dto

import "github.com/shopspring/decimal"

type CrearProductoRequest struct {
	Nombre    string          `json:"nombre"     validate:"required,min=1,max=200"`
	Precio    decimal.Decimal `json:"precio"     validate:"required,gt=0"`
	Stock     int             `json:"stock"      validate:"min=0"`
	ImagenURL *string         `json:"imagen_url"`
	CajaID    *string         `json:"caja_id"    validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre    *string          `json:"nombre"     validate:"omitempty,min=1,max=200"`
	Precio    *decimal.Decimal `json:"precio"`
	Stock     *int             `json:"stock"`
	ImagenURL *string          `json:"imagen_url"`
	CajaID    *string          `json:"caja_id"    validate:"omitempty,uuid"`
}

type ProductoResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	Stock     int             `json:"stock"`
	ImagenURL *string         `json:"imagen_url"`
	CajaID    *string         `json:"caja_id,omitempty"`
	CreatedAt string          `json:"created_at"`
}
