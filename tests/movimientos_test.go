package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"
	"github.com/GloDelMar/la-tiendita-pos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// movimientoRepoConFallas simula errores transitorios de lectura sobre el
// fake en memoria: cada flag dispara un fallo en la siguiente llamada.
type movimientoRepoConFallas struct {
	*fakeMovimientoRepo
	fallaUltimo        bool
	fallaUltimoAntesDe bool
}

var errConexionPerdida = errors.New("read tcp 127.0.0.1:5432: connection reset by peer")

func (r *movimientoRepoConFallas) FindUltimo(ctx context.Context, tx *gorm.DB, cajaID *uuid.UUID) (*model.MovimientoCaja, error) {
	if r.fallaUltimo {
		r.fallaUltimo = false
		return nil, errConexionPerdida
	}
	return r.fakeMovimientoRepo.FindUltimo(ctx, tx, cajaID)
}

func (r *movimientoRepoConFallas) FindUltimoAntesDe(ctx context.Context, cajaID *uuid.UUID, antes time.Time) (*model.MovimientoCaja, error) {
	if r.fallaUltimoAntesDe {
		r.fallaUltimoAntesDe = false
		return nil, errConexionPerdida
	}
	return r.fakeMovimientoRepo.FindUltimoAntesDe(ctx, cajaID, antes)
}

func newLedgerFixture(t *testing.T) (service.MovimientoService, *fakeCajaRepo, *fakeMovimientoRepo) {
	t.Helper()
	cajaRepo := newFakeCajaRepo()
	movRepo := newFakeMovimientoRepo()
	svc := service.NewMovimientoService(movRepo, cajaRepo, service.NewCajaLocker())
	return svc, cajaRepo, movRepo
}

func crearCaja(t *testing.T, repo *fakeCajaRepo, nombre string, saldoInicial float64) *model.Caja {
	t.Helper()
	caja := &model.Caja{
		Nombre:       nombre,
		Activa:       true,
		SaldoInicial: decimal.NewFromFloat(saldoInicial),
	}
	require.NoError(t, repo.Create(context.Background(), caja))
	return caja
}

func strPtr(s string) *string { return &s }

func registrar(t *testing.T, svc service.MovimientoService, cajaID *string, tipo string, monto float64) *dto.MovimientoResponse {
	t.Helper()
	resp, err := svc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		TipoOperacion: tipo,
		Monto:         decimal.NewFromFloat(monto),
		Descripcion:   "test",
		CajaID:        cajaID,
	})
	require.NoError(t, err)
	return resp
}

func TestSaldoCajaVacia(t *testing.T) {
	svc, cajaRepo, _ := newLedgerFixture(t)
	caja := crearCaja(t, cajaRepo, "General", 100)

	saldo, err := svc.Saldo(context.Background(), &caja.ID)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, saldo.UltimaActualizacion)
}

func TestSaldoGlobalVacioEsCero(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)

	saldo, err := svc.Saldo(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.IsZero())
}

func TestDeltasPorTipoDeOperacion(t *testing.T) {
	svc, cajaRepo, _ := newLedgerFixture(t)
	caja := crearCaja(t, cajaRepo, "General", 100)
	id := strPtr(caja.ID.String())

	m := registrar(t, svc, id, model.OperacionVenta, 25.50)
	assert.True(t, m.Saldo.Equal(decimal.NewFromFloat(125.50)))

	// EGRESO resta el valor absoluto aunque llegue positivo
	m = registrar(t, svc, id, model.OperacionEgreso, 10)
	assert.True(t, m.Saldo.Equal(decimal.NewFromFloat(115.50)))

	// AJUSTE aplica el monto con signo
	m = registrar(t, svc, id, model.OperacionAjuste, -5.50)
	assert.True(t, m.Saldo.Equal(decimal.NewFromFloat(110)))

	m = registrar(t, svc, id, model.OperacionIngreso, 15)
	assert.True(t, m.Saldo.Equal(decimal.NewFromFloat(125)))
}

func TestEgresosSonAcumulativos(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)

	registrar(t, svc, nil, model.OperacionAjuste, 100)
	m := registrar(t, svc, nil, model.OperacionEgreso, 30)
	assert.True(t, m.Saldo.Equal(decimal.NewFromInt(70)))

	// La misma llamada de nuevo vuelve a restar: no es idempotente
	m = registrar(t, svc, nil, model.OperacionEgreso, 30)
	assert.True(t, m.Saldo.Equal(decimal.NewFromInt(40)))
}

func TestMontoCeroRechazado(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)

	_, err := svc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		TipoOperacion: model.OperacionIngreso,
		Monto:         decimal.Zero,
	})
	assert.ErrorIs(t, err, service.ErrMontoInvalido)
}

func TestCajaDesconocida(t *testing.T) {
	svc, _, _ := newLedgerFixture(t)

	_, err := svc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		TipoOperacion: model.OperacionIngreso,
		Monto:         decimal.NewFromInt(10),
		CajaID:        strPtr(uuid.NewString()),
	})
	assert.ErrorIs(t, err, service.ErrCajaNoEncontrada)
}

func TestEliminarSiempreRechazado(t *testing.T) {
	svc, cajaRepo, movRepo := newLedgerFixture(t)
	caja := crearCaja(t, cajaRepo, "General", 0)
	m := registrar(t, svc, strPtr(caja.ID.String()), model.OperacionIngreso, 10)

	// id existente
	id, err := uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Eliminar(context.Background(), id), service.ErrOperacionNoPermitida)

	// id inexistente: mismo rechazo
	assert.ErrorIs(t, svc.Eliminar(context.Background(), uuid.New()), service.ErrOperacionNoPermitida)

	// el movimiento sigue ahi
	_, err = movRepo.FindByID(context.Background(), id)
	assert.NoError(t, err)
}

func TestAmbitosAislados(t *testing.T) {
	svc, cajaRepo, _ := newLedgerFixture(t)
	cajaA := crearCaja(t, cajaRepo, "Caja A", 0)
	cajaB := crearCaja(t, cajaRepo, "Caja B", 50)

	registrar(t, svc, strPtr(cajaA.ID.String()), model.OperacionIngreso, 20)

	saldoB, err := svc.Saldo(context.Background(), &cajaB.ID)
	require.NoError(t, err)
	assert.True(t, saldoB.Saldo.Equal(decimal.NewFromInt(50)))

	saldoGlobal, err := svc.Saldo(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, saldoGlobal.Saldo.IsZero())
}

func TestReconstruibilidadDelSaldo(t *testing.T) {
	svc, cajaRepo, movRepo := newLedgerFixture(t)
	caja := crearCaja(t, cajaRepo, "General", 37.25)
	id := strPtr(caja.ID.String())

	pasos := []struct {
		tipo  string
		monto float64
	}{
		{model.OperacionVenta, 12.75},
		{model.OperacionEgreso, 5},
		{model.OperacionAjuste, -0.50},
		{model.OperacionIngreso, 100},
		{model.OperacionEgreso, 42.42},
		{model.OperacionAjuste, 3.17},
	}
	for _, p := range pasos {
		registrar(t, svc, id, p.tipo, p.monto)
	}

	// Reproducir effective_delta sobre la secuencia persistida
	esperado := caja.SaldoInicial
	movs, err := movRepo.List(context.Background(), dto.MovimientoFilter{CajaID: &caja.ID})
	require.NoError(t, err)
	require.Len(t, movs, len(pasos))
	for _, m := range movs {
		switch m.TipoOperacion {
		case model.OperacionVenta, model.OperacionIngreso:
			esperado = esperado.Add(m.Monto.Abs())
		case model.OperacionEgreso:
			esperado = esperado.Sub(m.Monto.Abs())
		default:
			esperado = esperado.Add(m.Monto)
		}
	}
	ultimo := movs[len(movs)-1]
	assert.True(t, ultimo.Saldo.Equal(esperado), "saldo %s != replay %s", ultimo.Saldo, esperado)
}

func TestConcurrenciaSinPerdidaDeActualizaciones(t *testing.T) {
	svc, cajaRepo, _ := newLedgerFixture(t)
	caja := crearCaja(t, cajaRepo, "General", 0)
	id := caja.ID.String()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
				TipoOperacion: model.OperacionIngreso,
				Monto:         decimal.NewFromInt(1),
				CajaID:        &id,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	saldo, err := svc.Saldo(context.Background(), &caja.ID)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.Equal(decimal.NewFromInt(n)), "saldo final %s, esperado %d", saldo.Saldo, n)
}

func TestCorteDiario(t *testing.T) {
	svc, cajaRepo, movRepo := newLedgerFixture(t)
	caja := crearCaja(t, cajaRepo, "General", 0)
	ctx := context.Background()

	hoy := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	ayer := hoy.Add(-6 * time.Hour)

	// Saldo de apertura: ultimo movimiento estrictamente anterior al dia
	require.NoError(t, movRepo.Create(ctx, nil, &model.MovimientoCaja{
		CajaID: &caja.ID, TipoOperacion: model.OperacionAjuste,
		Monto: decimal.NewFromInt(100), Saldo: decimal.NewFromInt(100), Fecha: ayer,
	}))
	require.NoError(t, movRepo.Create(ctx, nil, &model.MovimientoCaja{
		CajaID: &caja.ID, TipoOperacion: model.OperacionVenta,
		Monto: decimal.NewFromInt(50), Saldo: decimal.NewFromInt(150), Fecha: hoy.Add(9 * time.Hour),
	}))
	require.NoError(t, movRepo.Create(ctx, nil, &model.MovimientoCaja{
		CajaID: &caja.ID, TipoOperacion: model.OperacionEgreso,
		Monto: decimal.NewFromInt(20), Saldo: decimal.NewFromInt(130), Fecha: hoy.Add(12 * time.Hour),
	}))
	require.NoError(t, movRepo.Create(ctx, nil, &model.MovimientoCaja{
		CajaID: &caja.ID, TipoOperacion: model.OperacionAjuste,
		Monto: decimal.NewFromInt(-5), Saldo: decimal.NewFromInt(125), Fecha: hoy.Add(18 * time.Hour),
	}))

	corte, err := svc.CorteDiario(ctx, hoy, &caja.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", corte.Fecha)
	assert.True(t, corte.SaldoInicial.Equal(decimal.NewFromInt(100)))
	assert.True(t, corte.Ingresos.Equal(decimal.NewFromInt(50)))
	assert.True(t, corte.Egresos.Equal(decimal.NewFromInt(20)))
	assert.True(t, corte.Ajustes.Equal(decimal.NewFromInt(-5)))
	assert.True(t, corte.SaldoActual.Equal(decimal.NewFromInt(125)))
	assert.True(t, corte.Diferencia.Equal(decimal.NewFromInt(25)))
}

func TestErrorDeLecturaNoReiniciaElSaldo(t *testing.T) {
	cajaRepo := newFakeCajaRepo()
	movRepo := &movimientoRepoConFallas{fakeMovimientoRepo: newFakeMovimientoRepo()}
	svc := service.NewMovimientoService(movRepo, cajaRepo, service.NewCajaLocker())

	registrar(t, svc, nil, model.OperacionAjuste, 100)

	movRepo.fallaUltimo = true
	_, err := svc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		TipoOperacion: model.OperacionIngreso,
		Monto:         decimal.NewFromFloat(10),
		Descripcion:   "test",
	})
	require.ErrorIs(t, err, errConexionPerdida)

	// Nada se persistió: el saldo sigue en 100, no reinicia en 10.
	assert.Len(t, movRepo.movimientos, 1)
	saldo, err := svc.Saldo(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.Equal(decimal.NewFromInt(100)))
}

func TestErrorDeLecturaNoSeReportaComoCajaInexistente(t *testing.T) {
	cajaRepo := newFakeCajaRepo()
	movRepo := &movimientoRepoConFallas{fakeMovimientoRepo: newFakeMovimientoRepo()}
	svc := service.NewMovimientoService(movRepo, cajaRepo, service.NewCajaLocker())
	caja := crearCaja(t, cajaRepo, "General", 100)

	movRepo.fallaUltimo = true
	_, err := svc.Registrar(context.Background(), dto.RegistrarMovimientoRequest{
		TipoOperacion: model.OperacionVenta,
		Monto:         decimal.NewFromFloat(10),
		Descripcion:   "test",
		CajaID:        strPtr(caja.ID.String()),
	})
	require.ErrorIs(t, err, errConexionPerdida)
	assert.NotErrorIs(t, err, service.ErrCajaNoEncontrada)
}

func TestCorteDiarioPropagaErrorDeLectura(t *testing.T) {
	cajaRepo := newFakeCajaRepo()
	movRepo := &movimientoRepoConFallas{fakeMovimientoRepo: newFakeMovimientoRepo()}
	svc := service.NewMovimientoService(movRepo, cajaRepo, service.NewCajaLocker())

	registrar(t, svc, nil, model.OperacionAjuste, 100)

	movRepo.fallaUltimoAntesDe = true
	_, err := svc.CorteDiario(context.Background(), time.Now().UTC(), nil)
	require.ErrorIs(t, err, errConexionPerdida)
}
