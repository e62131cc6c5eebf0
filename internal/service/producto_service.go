package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"
	"github.com/GloDelMar/la-tiendita-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const productoCacheTTL = 4 * time.Hour

// ProductoService maintains the quick-pick product catalog. Reads go through
// Redis (best effort, never fatal); writes invalidate the cached entry.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, cajaID *uuid.UUID) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

// NewProductoService builds the service; rdb may be nil, in which case every
// read goes straight to the database.
func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func productoCacheKey(id uuid.UUID) string { return "producto:" + id.String() }

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if !req.Precio.IsPositive() {
		return nil, ErrMontoInvalido
	}
	cajaID, err := parseCajaID(req.CajaID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		Nombre:    req.Nombre,
		Precio:    req.Precio,
		Stock:     req.Stock,
		ImagenURL: req.ImagenURL,
		CajaID:    cajaID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, productoCacheKey(id)).Bytes(); err == nil {
			var resp dto.ProductoResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto %s no encontrado", id)
	}

	resp := productoToResponse(p)
	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(context.Background(), productoCacheKey(id), b, productoCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, cajaID *uuid.UUID) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = *productoToResponse(&productos[i])
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("producto %s no encontrado", id)
	}

	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Precio != nil {
		if !req.Precio.IsPositive() {
			return nil, ErrMontoInvalido
		}
		p.Precio = *req.Precio
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if req.CajaID != nil {
		cajaID, err := parseCajaID(req.CajaID)
		if err != nil {
			return nil, err
		}
		p.CajaID = cajaID
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return productoToResponse(p), nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("producto %s no encontrado", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productoService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, productoCacheKey(id)).Err()
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	var cajaID *string
	if p.CajaID != nil {
		id := p.CajaID.String()
		cajaID = &id
	}
	return &dto.ProductoResponse{
		ID:        p.ID.String(),
		Nombre:    p.Nombre,
		Precio:    p.Precio,
		Stock:     p.Stock,
		ImagenURL: p.ImagenURL,
		CajaID:    cajaID,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}
