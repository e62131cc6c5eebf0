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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoService maintains the append-only cash ledger and answers
// balance queries. RegistrarTx exists so that sales and debt payments can
// append to the ledger inside their own transaction; callers of RegistrarTx
// must already hold the scope lock.
type MovimientoService interface {
	Registrar(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error)
	RegistrarTx(ctx context.Context, tx *gorm.DB, cajaID *uuid.UUID, tipo string, monto decimal.Decimal, descripcion string) (*model.MovimientoCaja, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error)
	Listar(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Saldo(ctx context.Context, cajaID *uuid.UUID) (*dto.SaldoResponse, error)
	CorteDiario(ctx context.Context, fecha time.Time, cajaID *uuid.UUID) (*dto.CorteDiarioResponse, error)
	Locker() *CajaLocker
}

type movimientoService struct {
	repo     repository.MovimientoRepository
	cajaRepo repository.CajaRepository
	locker   *CajaLocker
}

func NewMovimientoService(repo repository.MovimientoRepository, cajaRepo repository.CajaRepository, locker *CajaLocker) MovimientoService {
	return &movimientoService{repo: repo, cajaRepo: cajaRepo, locker: locker}
}

func (s *movimientoService) Locker() *CajaLocker { return s.locker }

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// effectiveDelta maps a movement to its contribution to the running balance:
// VENTA and INGRESO add abs(monto), EGRESO subtracts abs(monto), AJUSTE
// applies monto as signed.
func effectiveDelta(tipo string, monto decimal.Decimal) decimal.Decimal {
	switch tipo {
	case model.OperacionVenta, model.OperacionIngreso:
		return monto.Abs()
	case model.OperacionEgreso:
		return monto.Abs().Neg()
	default:
		return monto
	}
}

// parseCajaID converts an optional uuid string from a request into a scope.
func parseCajaID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("caja_id invalido: %w", err)
	}
	return &id, nil
}

// ── Registrar ────────────────────────────────────────────────────────────────

func (s *movimientoService) Registrar(ctx context.Context, req dto.RegistrarMovimientoRequest) (*dto.MovimientoResponse, error) {
	cajaID, err := parseCajaID(req.CajaID)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(cajaID)
	defer unlock()

	var mov *model.MovimientoCaja
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.LockScope(tx, cajaID); err != nil {
			return fmt.Errorf("%w: %v", ErrConflictoConcurrencia, err)
		}
		m, err := s.RegistrarTx(ctx, tx, cajaID, req.TipoOperacion, req.Monto, req.Descripcion)
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return movimientoToResponse(mov), nil
}

// RegistrarTx computes the scope's next balance and appends one movement.
// The read of the prior balance and the insert happen against the same
// transaction, and the caller holds the scope lock, so two concurrent calls
// can never both read the same prior movement.
func (s *movimientoService) RegistrarTx(ctx context.Context, tx *gorm.DB, cajaID *uuid.UUID, tipo string, monto decimal.Decimal, descripcion string) (*model.MovimientoCaja, error) {
	if monto.IsZero() {
		return nil, ErrMontoInvalido
	}

	saldoAnterior, _, err := s.saldoActual(ctx, tx, cajaID)
	if err != nil {
		return nil, err
	}

	mov := &model.MovimientoCaja{
		CajaID:        cajaID,
		TipoOperacion: tipo,
		Monto:         monto,
		Saldo:         saldoAnterior.Add(effectiveDelta(tipo, monto)),
		Descripcion:   descripcion,
		Fecha:         time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, tx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// saldoActual returns the scope's current balance and the timestamp of its
// last movement (nil when the scope is empty). An empty register scope falls
// back to the register's initial balance; the empty global scope is 0. Only
// gorm.ErrRecordNotFound means "empty": any other read error propagates, so
// a failed read can never restart the running balance.
func (s *movimientoService) saldoActual(ctx context.Context, tx *gorm.DB, cajaID *uuid.UUID) (decimal.Decimal, *time.Time, error) {
	last, err := s.repo.FindUltimo(ctx, tx, cajaID)
	if err == nil {
		return last.Saldo, &last.Fecha, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil, err
	}
	if cajaID == nil {
		return decimal.Zero, nil, nil
	}
	caja, err := s.cajaRepo.FindByID(ctx, *cajaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil, ErrCajaNoEncontrada
		}
		return decimal.Zero, nil, err
	}
	return caja.SaldoInicial, nil, nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *movimientoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.MovimientoResponse, error) {
	mov, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("movimiento %s no encontrado", id)
	}
	return movimientoToResponse(mov), nil
}

func (s *movimientoService) Listar(ctx context.Context, filter dto.MovimientoFilter) ([]dto.MovimientoResponse, error) {
	if filter.Limit < 1 || filter.Limit > 1000 {
		filter.Limit = 100
	}
	movs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoResponse, len(movs))
	for i := range movs {
		resp[i] = *movimientoToResponse(&movs[i])
	}
	return resp, nil
}

// Eliminar always fails: the ledger is append-only and downstream balances
// are never recomputed. Rejected for every id, existing or not.
func (s *movimientoService) Eliminar(_ context.Context, _ uuid.UUID) error {
	return ErrOperacionNoPermitida
}

func (s *movimientoService) Saldo(ctx context.Context, cajaID *uuid.UUID) (*dto.SaldoResponse, error) {
	saldo, fecha, err := s.saldoActual(ctx, nil, cajaID)
	if err != nil {
		return nil, err
	}

	resp := &dto.SaldoResponse{Saldo: saldo}
	if fecha != nil {
		f := fecha.Format(time.RFC3339)
		resp.UltimaActualizacion = &f
	}
	if cajaID != nil {
		id := cajaID.String()
		resp.CajaID = &id
		if caja, err := s.cajaRepo.FindByID(ctx, *cajaID); err == nil {
			resp.CajaNombre = &caja.Nombre
		}
	}
	return resp, nil
}

// ── CorteDiario ──────────────────────────────────────────────────────────────
// Pure read-side reduction over the ledger invariant — no separate state.

func (s *movimientoService) CorteDiario(ctx context.Context, fecha time.Time, cajaID *uuid.UUID) (*dto.CorteDiarioResponse, error) {
	inicio := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC)
	fin := inicio.Add(24*time.Hour - time.Nanosecond)

	// Saldo al inicio del día: último movimiento estrictamente anterior.
	var saldoInicial decimal.Decimal
	prev, err := s.repo.FindUltimoAntesDe(ctx, cajaID, inicio)
	switch {
	case err == nil:
		saldoInicial = prev.Saldo
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	case cajaID != nil:
		caja, err := s.cajaRepo.FindByID(ctx, *cajaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCajaNoEncontrada
			}
			return nil, err
		}
		saldoInicial = caja.SaldoInicial
	}

	movs, err := s.repo.ListEnRango(ctx, cajaID, inicio, fin)
	if err != nil {
		return nil, err
	}

	ingresos, egresos, ajustes := decimal.Zero, decimal.Zero, decimal.Zero
	saldoActual := saldoInicial
	for _, m := range movs {
		switch m.TipoOperacion {
		case model.OperacionVenta, model.OperacionIngreso:
			ingresos = ingresos.Add(m.Monto.Abs())
		case model.OperacionEgreso:
			egresos = egresos.Add(m.Monto.Abs())
		case model.OperacionAjuste:
			ajustes = ajustes.Add(m.Monto)
		}
		saldoActual = m.Saldo
	}

	resp := &dto.CorteDiarioResponse{
		Fecha:        inicio.Format("2006-01-02"),
		SaldoInicial: saldoInicial,
		Ingresos:     ingresos,
		Egresos:      egresos,
		Ajustes:      ajustes,
		SaldoActual:  saldoActual,
		Diferencia:   saldoActual.Sub(saldoInicial),
	}
	if cajaID != nil {
		id := cajaID.String()
		resp.CajaID = &id
	}
	return resp, nil
}

func movimientoToResponse(m *model.MovimientoCaja) *dto.MovimientoResponse {
	var cajaID *string
	if m.CajaID != nil {
		id := m.CajaID.String()
		cajaID = &id
	}
	return &dto.MovimientoResponse{
		ID:            m.ID.String(),
		CajaID:        cajaID,
		TipoOperacion: m.TipoOperacion,
		Monto:         m.Monto,
		Saldo:         m.Saldo,
		Descripcion:   m.Descripcion,
		Fecha:         m.Fecha.Format(time.RFC3339),
	}
}
