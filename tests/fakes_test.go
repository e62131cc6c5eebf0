package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. DB() returns nil so the services run their
// transaction bodies directly; the per-scope locker still serializes writers.

// ── CajaRepository ───────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	mu    sync.Mutex
	cajas map[uuid.UUID]*model.Caja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{cajas: make(map[uuid.UUID]*model.Caja)}
}

func (r *fakeCajaRepo) Create(_ context.Context, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	copia := *c
	r.cajas[c.ID] = &copia
	return nil
}

func (r *fakeCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cajas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *fakeCajaRepo) FindByNombre(_ context.Context, nombre string) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cajas {
		if c.Nombre == nombre {
			copia := *c
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCajaRepo) List(_ context.Context, activaOnly bool) ([]model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Caja
	for _, c := range r.cajas {
		if activaOnly && !c.Activa {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCajaRepo) Update(_ context.Context, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *c
	r.cajas[c.ID] = &copia
	return nil
}

// ── MovimientoRepository ─────────────────────────────────────────────────────

type fakeMovimientoRepo struct {
	mu          sync.Mutex
	movimientos []model.MovimientoCaja
}

func newFakeMovimientoRepo() *fakeMovimientoRepo { return &fakeMovimientoRepo{} }

func (r *fakeMovimientoRepo) DB() *gorm.DB { return nil }

func (r *fakeMovimientoRepo) LockScope(_ *gorm.DB, _ *uuid.UUID) error { return nil }

func sameScope(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeMovimientoRepo) Create(_ context.Context, _ *gorm.DB, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movimientos {
		if r.movimientos[i].ID == id {
			copia := r.movimientos[i]
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// FindUltimo relies on append order: the fake only ever appends, so the last
// matching element is the most recent movement of the scope.
func (r *fakeMovimientoRepo) FindUltimo(_ context.Context, _ *gorm.DB, cajaID *uuid.UUID) (*model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		if sameScope(r.movimientos[i].CajaID, cajaID) {
			copia := r.movimientos[i]
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMovimientoRepo) FindUltimoAntesDe(_ context.Context, cajaID *uuid.UUID, t time.Time) (*model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		m := r.movimientos[i]
		if sameScope(m.CajaID, cajaID) && m.Fecha.Before(t) {
			copia := m
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if filter.CajaID != nil && !sameScope(m.CajaID, filter.CajaID) {
			continue
		}
		if filter.TipoOperacion != "" && m.TipoOperacion != filter.TipoOperacion {
			continue
		}
		if filter.FechaDesde != nil && m.Fecha.Before(*filter.FechaDesde) {
			continue
		}
		if filter.FechaHasta != nil && m.Fecha.After(*filter.FechaHasta) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMovimientoRepo) ListEnRango(_ context.Context, cajaID *uuid.UUID, desde, hasta time.Time) ([]model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if !sameScope(m.CajaID, cajaID) {
			continue
		}
		if m.Fecha.Before(desde) || m.Fecha.After(hasta) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// ── DeudorRepository ─────────────────────────────────────────────────────────

type fakeDeudorRepo struct {
	mu       sync.Mutex
	deudores map[uuid.UUID]*model.Deudor
}

func newFakeDeudorRepo() *fakeDeudorRepo {
	return &fakeDeudorRepo{deudores: make(map[uuid.UUID]*model.Deudor)}
}

func (r *fakeDeudorRepo) Create(_ context.Context, _ *gorm.DB, d *model.Deudor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	copia := *d
	r.deudores[d.ID] = &copia
	return nil
}

func (r *fakeDeudorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Deudor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deudores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *d
	return &copia, nil
}

func (r *fakeDeudorRepo) FindByNombreGrupo(_ context.Context, _ *gorm.DB, nombre, grupo string) (*model.Deudor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deudores {
		if d.Nombre == nombre && d.Grupo == grupo {
			copia := *d
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDeudorRepo) Update(_ context.Context, _ *gorm.DB, d *model.Deudor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *d
	r.deudores[d.ID] = &copia
	return nil
}

func (r *fakeDeudorRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.deudores, id)
	return nil
}

func (r *fakeDeudorRepo) List(_ context.Context, filter dto.DeudorFilter) ([]model.Deudor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Deudor
	for _, d := range r.deudores {
		if filter.Grupo != "" && d.Grupo != filter.Grupo {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(d.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDeudorRepo) ListAll(_ context.Context) ([]model.Deudor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Deudor
	for _, d := range r.deudores {
		out = append(out, *d)
	}
	return out, nil
}

// ── TransaccionRepository ────────────────────────────────────────────────────

type fakeTransaccionRepo struct {
	mu            sync.Mutex
	transacciones []model.Transaccion
}

func newFakeTransaccionRepo() *fakeTransaccionRepo { return &fakeTransaccionRepo{} }

func (r *fakeTransaccionRepo) DB() *gorm.DB { return nil }

func (r *fakeTransaccionRepo) Create(_ context.Context, _ *gorm.DB, t *model.Transaccion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.transacciones = append(r.transacciones, *t)
	return nil
}

func (r *fakeTransaccionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaccion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.transacciones {
		if r.transacciones[i].ID == id {
			copia := r.transacciones[i]
			return &copia, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeTransaccionRepo) List(_ context.Context, filter dto.TransaccionFilter) ([]model.Transaccion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaccion
	for _, t := range r.transacciones {
		if matchTransaccion(t, filter) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTransaccionRepo) ListEnRango(_ context.Context, desde, hasta time.Time) ([]model.Transaccion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaccion
	for _, t := range r.transacciones {
		if !t.Fecha.Before(desde) && t.Fecha.Before(hasta) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTransaccionRepo) ListByCliente(_ context.Context, cliente string, filter dto.TransaccionFilter) ([]model.Transaccion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaccion
	for _, t := range r.transacciones {
		if t.Cliente == cliente && matchTransaccion(t, filter) {
			out = append(out, t)
		}
	}
	return out, nil
}

func matchTransaccion(t model.Transaccion, filter dto.TransaccionFilter) bool {
	if filter.Grupo != "" && t.Grupo != filter.Grupo {
		return false
	}
	if filter.Pagado != "" && t.Pagado != filter.Pagado {
		return false
	}
	if filter.FechaDesde != nil && t.Fecha.Before(*filter.FechaDesde) {
		return false
	}
	if filter.FechaHasta != nil && t.Fecha.After(*filter.FechaHasta) {
		return false
	}
	return true
}
