package service

import (
	"context"
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

// TransaccionService records finalized sales and answers sales statistics.
// A sale is one unit of work: the transaction row, the debt accrual of a
// credit sale and the resulting VENTA movement commit or roll back together.
type TransaccionService interface {
	Registrar(ctx context.Context, req dto.RegistrarTransaccionRequest) (*dto.TransaccionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error)
	Listar(ctx context.Context, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, error)
	ListarPorCliente(ctx context.Context, cliente string, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, error)
	ResumenCliente(ctx context.Context, cliente string) (*dto.ResumenClienteResponse, error)
	StatsDiario(ctx context.Context, fecha time.Time) (*dto.StatsDiarioResponse, error)
	StatsMensual(ctx context.Context, year, month int) (*dto.StatsMensualResponse, error)
}

type transaccionService struct {
	repo      repository.TransaccionRepository
	cajaRepo  repository.CajaRepository
	movRepo   repository.MovimientoRepository
	deudorSvc DeudorService
	movSvc    MovimientoService
}

func NewTransaccionService(repo repository.TransaccionRepository, cajaRepo repository.CajaRepository, movRepo repository.MovimientoRepository, deudorSvc DeudorService, movSvc MovimientoService) TransaccionService {
	return &transaccionService{repo: repo, cajaRepo: cajaRepo, movRepo: movRepo, deudorSvc: deudorSvc, movSvc: movSvc}
}

func (s *transaccionService) Registrar(ctx context.Context, req dto.RegistrarTransaccionRequest) (*dto.TransaccionResponse, error) {
	if !req.Total.IsPositive() || req.Pago.IsNegative() {
		return nil, ErrMontoInvalido
	}
	cajaID, err := parseCajaID(req.CajaID)
	if err != nil {
		return nil, err
	}
	if cajaID != nil {
		if _, err := s.cajaRepo.FindByID(ctx, *cajaID); err != nil {
			return nil, ErrCajaNoEncontrada
		}
	}

	fecha := time.Now().UTC()
	cambio := req.Pago.Sub(req.Total)
	if cambio.IsNegative() {
		cambio = decimal.Zero
	}

	trans := &model.Transaccion{
		Cliente: req.Cliente,
		Grupo:   req.Grupo,
		Total:   req.Total,
		Pago:    req.Pago,
		Cambio:  cambio,
		Pagado:  req.Pagado,
		CajaID:  cajaID,
		Fecha:   fecha,
	}
	for _, p := range req.Productos {
		trans.Items = append(trans.Items, model.TransaccionItem{
			Nombre:         p.Nombre,
			Cantidad:       p.Cantidad,
			PrecioUnitario: p.PrecioUnitario,
			Subtotal:       p.Subtotal,
		})
	}

	unlock := s.movSvc.Locker().Lock(cajaID)
	defer unlock()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.movRepo.LockScope(tx, cajaID); err != nil {
			return fmt.Errorf("%w: %v", ErrConflictoConcurrencia, err)
		}
		if err := s.repo.Create(ctx, tx, trans); err != nil {
			return err
		}

		if req.Pagado == model.PagadoNo {
			deuda := req.Total.Sub(req.Pago)
			if deuda.IsPositive() {
				if _, err := s.deudorSvc.AcumularTx(ctx, tx, req.Cliente, req.Grupo, deuda, cajaID, fecha); err != nil {
					return err
				}
			}
		}

		// El movimiento registra el total de la venta, no lo entregado: la
		// venta reconoce el ingreso completo y la parte a credito vive en
		// el libro de deudores.
		desc := fmt.Sprintf("Venta a %s - %d productos", req.Cliente, len(req.Productos))
		if _, err := s.movSvc.RegistrarTx(ctx, tx, cajaID, model.OperacionVenta, req.Total, desc); err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("transaccion_id", trans.ID.String()).
		Str("cliente", trans.Cliente).
		Str("total", trans.Total.StringFixed(2)).
		Str("pagado", trans.Pagado).
		Msg("transaccion registrada")
	return transaccionToResponse(trans), nil
}

func (s *transaccionService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TransaccionResponse, error) {
	trans, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transaccion %s no encontrada", id)
	}
	return transaccionToResponse(trans), nil
}

func (s *transaccionService) Listar(ctx context.Context, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, error) {
	if filter.Limit < 1 || filter.Limit > 1000 {
		filter.Limit = 100
	}
	trans, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return transaccionesToResponses(trans), nil
}

func (s *transaccionService) ListarPorCliente(ctx context.Context, cliente string, filter dto.TransaccionFilter) ([]dto.TransaccionResponse, error) {
	if filter.Limit < 1 || filter.Limit > 1000 {
		filter.Limit = 100
	}
	trans, err := s.repo.ListByCliente(ctx, cliente, filter)
	if err != nil {
		return nil, err
	}
	return transaccionesToResponses(trans), nil
}

func (s *transaccionService) ResumenCliente(ctx context.Context, cliente string) (*dto.ResumenClienteResponse, error) {
	trans, err := s.repo.ListByCliente(ctx, cliente, dto.TransaccionFilter{Limit: 1000})
	if err != nil {
		return nil, err
	}

	resumen := &dto.ResumenClienteResponse{
		Cliente:            cliente,
		TotalTransacciones: len(trans),
		TotalComprado:      decimal.Zero,
		TotalPagado:        decimal.Zero,
		TotalPendiente:     decimal.Zero,
		NoPagadas:          []dto.TransaccionResponse{},
	}
	for i := range trans {
		t := &trans[i]
		resumen.Grupo = t.Grupo
		resumen.TotalComprado = resumen.TotalComprado.Add(t.Total)
		resumen.TotalPagado = resumen.TotalPagado.Add(t.Pago)
		if t.Pagado == model.PagadoNo {
			resumen.TotalPendiente = resumen.TotalPendiente.Add(t.Total.Sub(t.Pago))
			resumen.NoPagadas = append(resumen.NoPagadas, *transaccionToResponse(t))
		}
	}
	return resumen, nil
}

func (s *transaccionService) StatsDiario(ctx context.Context, fecha time.Time) (*dto.StatsDiarioResponse, error) {
	inicio := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, time.UTC)
	trans, err := s.repo.ListEnRango(ctx, inicio, inicio.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	ventas, efectivo, credito := decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range trans {
		ventas = ventas.Add(t.Total)
		efectivo = efectivo.Add(t.Pago)
		if t.Pagado == model.PagadoNo {
			credito = credito.Add(t.Total.Sub(t.Pago))
		}
	}
	promedio := decimal.Zero
	if len(trans) > 0 {
		promedio = ventas.Div(decimal.NewFromInt(int64(len(trans)))).Round(2)
	}
	return &dto.StatsDiarioResponse{
		Fecha:              inicio.Format("2006-01-02"),
		TotalTransacciones: len(trans),
		TotalVentas:        ventas,
		TotalEfectivo:      efectivo,
		TotalCredito:       credito,
		PromedioTicket:     promedio,
	}, nil
}

func (s *transaccionService) StatsMensual(ctx context.Context, year, month int) (*dto.StatsMensualResponse, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("mes invalido: %d", month)
	}
	inicio := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	fin := inicio.AddDate(0, 1, 0)

	trans, err := s.repo.ListEnRango(ctx, inicio, fin)
	if err != nil {
		return nil, err
	}

	ventas, efectivo := decimal.Zero, decimal.Zero
	for _, t := range trans {
		ventas = ventas.Add(t.Total)
		efectivo = efectivo.Add(t.Pago)
	}
	dias := fin.Sub(inicio).Hours() / 24
	promedio := decimal.Zero
	if len(trans) > 0 {
		promedio = ventas.Div(decimal.NewFromFloat(dias)).Round(2)
	}
	return &dto.StatsMensualResponse{
		Year:               year,
		Month:              month,
		TotalTransacciones: len(trans),
		TotalVentas:        ventas,
		TotalEfectivo:      efectivo,
		PromedioDiario:     promedio,
	}, nil
}

func transaccionToResponse(t *model.Transaccion) *dto.TransaccionResponse {
	var cajaID *string
	if t.CajaID != nil {
		id := t.CajaID.String()
		cajaID = &id
	}
	items := make([]dto.ItemTransaccionResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = dto.ItemTransaccionResponse{
			Nombre:         it.Nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
		}
	}
	return &dto.TransaccionResponse{
		ID:        t.ID.String(),
		Cliente:   t.Cliente,
		Grupo:     t.Grupo,
		Productos: items,
		Total:     t.Total,
		Pago:      t.Pago,
		Cambio:    t.Cambio,
		Pagado:    t.Pagado,
		CajaID:    cajaID,
		Fecha:     t.Fecha.Format(time.RFC3339),
	}
}

func transaccionesToResponses(trans []model.Transaccion) []dto.TransaccionResponse {
	resp := make([]dto.TransaccionResponse, len(trans))
	for i := range trans {
		resp[i] = *transaccionToResponse(&trans[i])
	}
	return resp
}
