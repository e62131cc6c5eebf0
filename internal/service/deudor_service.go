package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"
	"github.com/GloDelMar/la-tiendita-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeudorService tracks outstanding customer debt. Debt is keyed by
// (nombre, grupo); a settled debtor disappears from the ledger entirely.
type DeudorService interface {
	AcumularTx(ctx context.Context, tx *gorm.DB, nombre, grupo string, monto decimal.Decimal, cajaID *uuid.UUID, fecha time.Time) (*model.Deudor, error)
	Pagar(ctx context.Context, id uuid.UUID, req dto.PagarDeudaRequest) (*dto.PagoResponse, error)
	Condonar(ctx context.Context, id uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.DeudorResponse, error)
	ObtenerPorNombreGrupo(ctx context.Context, nombre, grupo string) (*dto.DeudorResponse, error)
	Listar(ctx context.Context, filter dto.DeudorFilter) ([]dto.DeudorResponse, error)
	Resumen(ctx context.Context) (*dto.ResumenDeudasResponse, error)
}

type deudorService struct {
	repo    repository.DeudorRepository
	movRepo repository.MovimientoRepository
	movSvc  MovimientoService
}

func NewDeudorService(repo repository.DeudorRepository, movRepo repository.MovimientoRepository, movSvc MovimientoService) DeudorService {
	return &deudorService{repo: repo, movRepo: movRepo, movSvc: movSvc}
}

// AcumularTx adds monto to the debtor identified by (nombre, grupo),
// creating the record on first credit. Runs inside the caller's sale
// transaction.
func (s *deudorService) AcumularTx(ctx context.Context, tx *gorm.DB, nombre, grupo string, monto decimal.Decimal, cajaID *uuid.UUID, fecha time.Time) (*model.Deudor, error) {
	if !monto.IsPositive() {
		return nil, ErrMontoInvalido
	}

	deudor, err := s.repo.FindByNombreGrupo(ctx, tx, nombre, grupo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		deudor = &model.Deudor{
			Nombre:            nombre,
			Grupo:             grupo,
			Deuda:             monto,
			CajaID:            cajaID,
			FechaPrimeraDeuda: fecha,
			UltimaCompra:      fecha,
		}
		if err := s.repo.Create(ctx, tx, deudor); err != nil {
			return nil, err
		}
		return deudor, nil
	}
	if err != nil {
		return nil, err
	}

	deudor.Deuda = deudor.Deuda.Add(monto)
	deudor.UltimaCompra = fecha
	if err := s.repo.Update(ctx, tx, deudor); err != nil {
		return nil, err
	}
	return deudor, nil
}

// Pagar applies a cash payment against a debt. The debtor mutation and the
// resulting INGRESO movement commit as one transaction; a payment exceeding
// the outstanding debt is rejected, and an exact payment removes the debtor.
func (s *deudorService) Pagar(ctx context.Context, id uuid.UUID, req dto.PagarDeudaRequest) (*dto.PagoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	cajaID, err := parseCajaID(req.CajaID)
	if err != nil {
		return nil, err
	}
	deudor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeudorNoEncontrado
		}
		return nil, err
	}

	unlock := s.movSvc.Locker().Lock(cajaID)
	defer unlock()

	var (
		restante decimal.Decimal
		saldado  bool
	)
	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		if err := s.movRepo.LockScope(tx, cajaID); err != nil {
			return fmt.Errorf("%w: %v", ErrConflictoConcurrencia, err)
		}
		// Releer dentro de la transacción: la deuda pudo cambiar.
		d, err := s.repo.FindByNombreGrupo(ctx, tx, deudor.Nombre, deudor.Grupo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDeudorNoEncontrado
			}
			return err
		}
		if req.Monto.GreaterThan(d.Deuda) {
			return ErrMontoExcedeDeuda
		}

		restante = d.Deuda.Sub(req.Monto)
		if restante.IsZero() {
			if err := s.repo.Delete(ctx, tx, d.ID); err != nil {
				return err
			}
			saldado = true
		} else {
			d.Deuda = restante
			if err := s.repo.Update(ctx, tx, d); err != nil {
				return err
			}
			deudor = d
		}

		desc := fmt.Sprintf("Abono de deuda: %s (%s)", deudor.Nombre, deudor.Grupo)
		_, err = s.movSvc.RegistrarTx(ctx, tx, cajaID, model.OperacionIngreso, req.Monto, desc)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("deudor", deudor.Nombre).
		Str("grupo", deudor.Grupo).
		Str("monto", req.Monto.StringFixed(2)).
		Bool("saldado", saldado).
		Msg("abono de deuda registrado")

	resp := &dto.PagoResponse{DeudaRestante: restante}
	if saldado {
		resp.Mensaje = "Deuda liquidada"
	} else {
		resp.Mensaje = "Abono registrado"
		resp.Deudor = deudorToResponse(deudor)
	}
	return resp, nil
}

// Condonar removes a debtor without recording any cash movement: the money
// never entered the register.
func (s *deudorService) Condonar(ctx context.Context, id uuid.UUID) error {
	deudor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrDeudorNoEncontrado
	}
	if err := s.repo.Delete(ctx, nil, deudor.ID); err != nil {
		return err
	}
	log.Info().
		Str("deudor", deudor.Nombre).
		Str("deuda", deudor.Deuda.StringFixed(2)).
		Msg("deuda condonada")
	return nil
}

func (s *deudorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.DeudorResponse, error) {
	deudor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDeudorNoEncontrado
	}
	return deudorToResponse(deudor), nil
}

func (s *deudorService) ObtenerPorNombreGrupo(ctx context.Context, nombre, grupo string) (*dto.DeudorResponse, error) {
	deudor, err := s.repo.FindByNombreGrupo(ctx, nil, nombre, grupo)
	if err != nil {
		return nil, ErrDeudorNoEncontrado
	}
	return deudorToResponse(deudor), nil
}

func (s *deudorService) Listar(ctx context.Context, filter dto.DeudorFilter) ([]dto.DeudorResponse, error) {
	if filter.Limit < 1 || filter.Limit > 1000 {
		filter.Limit = 100
	}
	deudores, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DeudorResponse, len(deudores))
	for i := range deudores {
		resp[i] = *deudorToResponse(&deudores[i])
	}
	return resp, nil
}

func (s *deudorService) Resumen(ctx context.Context) (*dto.ResumenDeudasResponse, error) {
	deudores, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	porGrupo := make(map[string]dto.GrupoDeudaResumen)
	for _, d := range deudores {
		total = total.Add(d.Deuda)
		g := porGrupo[d.Grupo]
		g.Cantidad++
		g.Total = g.Total.Add(d.Deuda)
		porGrupo[d.Grupo] = g
	}

	promedio := decimal.Zero
	if len(deudores) > 0 {
		promedio = total.Div(decimal.NewFromInt(int64(len(deudores)))).Round(2)
	}
	return &dto.ResumenDeudasResponse{
		TotalDeudores: len(deudores),
		TotalDeuda:    total,
		PromedioDeuda: promedio,
		PorGrupo:      porGrupo,
	}, nil
}

func deudorToResponse(d *model.Deudor) *dto.DeudorResponse {
	var cajaID *string
	if d.CajaID != nil {
		id := d.CajaID.String()
		cajaID = &id
	}
	return &dto.DeudorResponse{
		ID:                d.ID.String(),
		Nombre:            d.Nombre,
		Grupo:             d.Grupo,
		Deuda:             d.Deuda,
		CajaID:            cajaID,
		FechaPrimeraDeuda: d.FechaPrimeraDeuda.Format(time.RFC3339),
		UltimaCompra:      d.UltimaCompra.Format(time.RFC3339),
	}
}
