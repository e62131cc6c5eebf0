package tests

import (
	"context"
	"testing"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	transSvc  service.TransaccionService
	deudorSvc service.DeudorService
	movSvc    service.MovimientoService
	cajaRepo  *fakeCajaRepo
	movRepo   *fakeMovimientoRepo
	deudRepo  *fakeDeudorRepo
	transRepo *fakeTransaccionRepo
}

func newVentaFixture(t *testing.T) *ventaFixture {
	t.Helper()
	f := &ventaFixture{
		cajaRepo:  newFakeCajaRepo(),
		movRepo:   newFakeMovimientoRepo(),
		deudRepo:  newFakeDeudorRepo(),
		transRepo: newFakeTransaccionRepo(),
	}
	f.movSvc = service.NewMovimientoService(f.movRepo, f.cajaRepo, service.NewCajaLocker())
	f.deudorSvc = service.NewDeudorService(f.deudRepo, f.movRepo, f.movSvc)
	f.transSvc = service.NewTransaccionService(f.transRepo, f.cajaRepo, f.movRepo, f.deudorSvc, f.movSvc)
	return f
}

func ventaRequest(cajaID *string, total, pago float64, pagado string) dto.RegistrarTransaccionRequest {
	return dto.RegistrarTransaccionRequest{
		Cliente: "Ana Garcia",
		Grupo:   "Familia Garcia",
		Productos: []dto.ItemTransaccionRequest{
			{Nombre: "Despensa semanal", Cantidad: 1, PrecioUnitario: decimal.NewFromFloat(total), Subtotal: decimal.NewFromFloat(total)},
		},
		Total:  decimal.NewFromFloat(total),
		Pago:   decimal.NewFromFloat(pago),
		Pagado: pagado,
		CajaID: cajaID,
	}
}

// Venta a credito sin pago inicial: crea al deudor por el total y aun asi
// deja el movimiento VENTA por el total en el libro de caja. El abono
// posterior liquida la deuda y entra como INGRESO.
func TestVentaACreditoYLiquidacion(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	caja := crearCaja(t, f.cajaRepo, "General", 0)
	id := caja.ID.String()

	resp, err := f.transSvc.Registrar(ctx, ventaRequest(&id, 50, 0, model.PagadoNo))
	require.NoError(t, err)
	assert.True(t, resp.Cambio.IsZero())
	assert.Equal(t, model.PagadoNo, resp.Pagado)

	deudor, err := f.deudRepo.FindByNombreGrupo(ctx, nil, "Ana Garcia", "Familia Garcia")
	require.NoError(t, err)
	assert.True(t, deudor.Deuda.Equal(decimal.NewFromInt(50)))

	movs, err := f.movRepo.List(ctx, dto.MovimientoFilter{CajaID: &caja.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, model.OperacionVenta, movs[0].TipoOperacion)
	assert.True(t, movs[0].Saldo.Equal(decimal.NewFromInt(50)))

	pago, err := f.deudorSvc.Pagar(ctx, deudor.ID, dto.PagarDeudaRequest{
		Monto:  decimal.NewFromInt(50),
		CajaID: &id,
	})
	require.NoError(t, err)
	assert.Nil(t, pago.Deudor)
	assert.True(t, pago.DeudaRestante.IsZero())
	assert.Equal(t, "Deuda liquidada", pago.Mensaje)

	_, err = f.deudRepo.FindByNombreGrupo(ctx, nil, "Ana Garcia", "Familia Garcia")
	assert.Error(t, err)

	movs, err = f.movRepo.List(ctx, dto.MovimientoFilter{CajaID: &caja.ID})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, model.OperacionIngreso, movs[1].TipoOperacion)
	assert.True(t, movs[1].Saldo.Equal(decimal.NewFromInt(100)))
}

func TestVentaPagadaNoGeneraDeudor(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	caja := crearCaja(t, f.cajaRepo, "General", 0)
	id := caja.ID.String()

	resp, err := f.transSvc.Registrar(ctx, ventaRequest(&id, 50, 60, model.PagadoSi))
	require.NoError(t, err)
	assert.True(t, resp.Cambio.Equal(decimal.NewFromInt(10)))

	_, err = f.deudRepo.FindByNombreGrupo(ctx, nil, "Ana Garcia", "Familia Garcia")
	assert.Error(t, err)

	movs, err := f.movRepo.List(ctx, dto.MovimientoFilter{CajaID: &caja.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Monto.Equal(decimal.NewFromInt(50)), "el movimiento lleva el total, no lo entregado")
}

func TestVentaCreditoParcial(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	caja := crearCaja(t, f.cajaRepo, "General", 0)
	id := caja.ID.String()

	_, err := f.transSvc.Registrar(ctx, ventaRequest(&id, 50, 20, model.PagadoNo))
	require.NoError(t, err)

	deudor, err := f.deudRepo.FindByNombreGrupo(ctx, nil, "Ana Garcia", "Familia Garcia")
	require.NoError(t, err)
	assert.True(t, deudor.Deuda.Equal(decimal.NewFromInt(30)))

	movs, err := f.movRepo.List(ctx, dto.MovimientoFilter{CajaID: &caja.ID})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Saldo.Equal(decimal.NewFromInt(50)))
}

func TestVentaMontosInvalidos(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()

	req := ventaRequest(nil, 0, 0, model.PagadoSi)
	_, err := f.transSvc.Registrar(ctx, req)
	assert.ErrorIs(t, err, service.ErrMontoInvalido)

	req = ventaRequest(nil, 50, 0, model.PagadoSi)
	req.Pago = decimal.NewFromInt(-1)
	_, err = f.transSvc.Registrar(ctx, req)
	assert.ErrorIs(t, err, service.ErrMontoInvalido)
}

func TestVentaEnCajaInexistente(t *testing.T) {
	f := newVentaFixture(t)
	id := uuid.NewString()

	_, err := f.transSvc.Registrar(context.Background(), ventaRequest(&id, 50, 50, model.PagadoSi))
	assert.ErrorIs(t, err, service.ErrCajaNoEncontrada)
}

func TestStatsDiario(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()

	_, err := f.transSvc.Registrar(ctx, ventaRequest(nil, 30, 30, model.PagadoSi))
	require.NoError(t, err)
	_, err = f.transSvc.Registrar(ctx, ventaRequest(nil, 50, 0, model.PagadoNo))
	require.NoError(t, err)

	stats, err := f.transSvc.StatsDiario(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTransacciones)
	assert.True(t, stats.TotalVentas.Equal(decimal.NewFromInt(80)))
	assert.True(t, stats.TotalEfectivo.Equal(decimal.NewFromInt(30)))
	assert.True(t, stats.TotalCredito.Equal(decimal.NewFromInt(50)))
	assert.True(t, stats.PromedioTicket.Equal(decimal.NewFromInt(40)))
}

func TestResumenCliente(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()

	_, err := f.transSvc.Registrar(ctx, ventaRequest(nil, 30, 30, model.PagadoSi))
	require.NoError(t, err)
	_, err = f.transSvc.Registrar(ctx, ventaRequest(nil, 50, 10, model.PagadoNo))
	require.NoError(t, err)

	resumen, err := f.transSvc.ResumenCliente(ctx, "Ana Garcia")
	require.NoError(t, err)
	assert.Equal(t, 2, resumen.TotalTransacciones)
	assert.True(t, resumen.TotalComprado.Equal(decimal.NewFromInt(80)))
	assert.True(t, resumen.TotalPagado.Equal(decimal.NewFromInt(40)))
	assert.True(t, resumen.TotalPendiente.Equal(decimal.NewFromInt(40)))
	require.Len(t, resumen.NoPagadas, 1)
	assert.True(t, resumen.NoPagadas[0].Total.Equal(decimal.NewFromInt(50)))
}
