package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"
	"github.com/GloDelMar/la-tiendita-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CajaService administers the register registry. Deactivation is the only
// way to retire a register; deletion would orphan its ledger scope.
type CajaService interface {
	Crear(ctx context.Context, req dto.CrearCajaRequest) (*dto.CajaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error)
	Listar(ctx context.Context, soloActivas bool) ([]dto.CajaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCajaRequest) (*dto.CajaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error)
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) Crear(ctx context.Context, req dto.CrearCajaRequest) (*dto.CajaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, fmt.Errorf("el nombre de la caja es obligatorio")
	}
	if _, err := s.repo.FindByNombre(ctx, nombre); err == nil {
		return nil, fmt.Errorf("ya existe una caja con el nombre %q", nombre)
	}
	if req.SaldoInicial.IsNegative() {
		return nil, ErrMontoInvalido
	}

	caja := &model.Caja{
		Nombre:       nombre,
		Descripcion:  req.Descripcion,
		Activa:       true,
		SaldoInicial: req.SaldoInicial,
	}
	if req.Activa != nil {
		caja.Activa = *req.Activa
	}
	if err := s.repo.Create(ctx, caja); err != nil {
		return nil, err
	}
	log.Info().Str("caja_id", caja.ID.String()).Str("nombre", caja.Nombre).Msg("caja creada")
	return cajaToResponse(caja), nil
}

func (s *cajaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCajaNoEncontrada
	}
	return cajaToResponse(caja), nil
}

func (s *cajaService) Listar(ctx context.Context, soloActivas bool) ([]dto.CajaResponse, error) {
	cajas, err := s.repo.List(ctx, soloActivas)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaResponse, len(cajas))
	for i := range cajas {
		resp[i] = *cajaToResponse(&cajas[i])
	}
	return resp, nil
}

// Actualizar modifies name, description and active flag. SaldoInicial is
// immutable after creation: the derived balance of an empty scope depends on
// it, and changing it would rewrite history.
func (s *cajaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCajaRequest) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCajaNoEncontrada
	}
	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		if nombre == "" {
			return nil, fmt.Errorf("el nombre de la caja es obligatorio")
		}
		if otra, err := s.repo.FindByNombre(ctx, nombre); err == nil && otra.ID != caja.ID {
			return nil, fmt.Errorf("ya existe una caja con el nombre %q", nombre)
		}
		caja.Nombre = nombre
	}
	if req.Descripcion != nil {
		caja.Descripcion = req.Descripcion
	}
	if req.Activa != nil {
		caja.Activa = *req.Activa
	}
	if err := s.repo.Update(ctx, caja); err != nil {
		return nil, err
	}
	return cajaToResponse(caja), nil
}

func (s *cajaService) Desactivar(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCajaNoEncontrada
	}
	caja.Activa = false
	if err := s.repo.Update(ctx, caja); err != nil {
		return nil, err
	}
	log.Info().Str("caja_id", caja.ID.String()).Msg("caja desactivada")
	return cajaToResponse(caja), nil
}

func cajaToResponse(c *model.Caja) *dto.CajaResponse {
	return &dto.CajaResponse{
		ID:           c.ID.String(),
		Nombre:       c.Nombre,
		Descripcion:  c.Descripcion,
		Activa:       c.Activa,
		SaldoInicial: c.SaldoInicial,
		CreatedAt:    c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
