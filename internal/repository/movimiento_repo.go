package repository

import (
	"context"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoRepository persists the append-only cash ledger. There is
// deliberately no Update or Delete method: movements are immutable and the
// interface is the compile-time guarantee.
type MovimientoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error)
	// FindUltimo returns the most recent movement of the scope ordered by
	// (fecha desc, id desc), or gorm.ErrRecordNotFound for an empty scope.
	FindUltimo(ctx context.Context, tx *gorm.DB, cajaID *uuid.UUID) (*model.MovimientoCaja, error)
	// FindUltimoAntesDe is FindUltimo restricted to movements strictly before t.
	FindUltimoAntesDe(ctx context.Context, cajaID *uuid.UUID, t time.Time) (*model.MovimientoCaja, error)
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoCaja, error)
	ListEnRango(ctx context.Context, cajaID *uuid.UUID, desde, hasta time.Time) ([]model.MovimientoCaja, error)
	// LockScope takes a transaction-scoped Postgres advisory lock on the
	// register scope, serializing concurrent appends across processes.
	LockScope(tx *gorm.DB, cajaID *uuid.UUID) error
	DB() *gorm.DB
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) DB() *gorm.DB { return r.db }

// scopeWhere narrows a query to one register scope. A nil cajaID is the
// global scope (caja_id IS NULL), which is its own scope — never a union of
// all registers.
func scopeWhere(q *gorm.DB, cajaID *uuid.UUID) *gorm.DB {
	if cajaID == nil {
		return q.Where("caja_id IS NULL")
	}
	return q.Where("caja_id = ?", *cajaID)
}

func (r *movimientoRepo) Create(ctx context.Context, tx *gorm.DB, m *model.MovimientoCaja) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(m).Error
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	var m model.MovimientoCaja
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *movimientoRepo) FindUltimo(ctx context.Context, tx *gorm.DB, cajaID *uuid.UUID) (*model.MovimientoCaja, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var m model.MovimientoCaja
	err := scopeWhere(db.WithContext(ctx), cajaID).
		Order("fecha DESC").Order("id DESC").
		First(&m).Error
	return &m, err
}

func (r *movimientoRepo) FindUltimoAntesDe(ctx context.Context, cajaID *uuid.UUID, t time.Time) (*model.MovimientoCaja, error) {
	var m model.MovimientoCaja
	err := scopeWhere(r.db.WithContext(ctx), cajaID).
		Where("fecha < ?", t).
		Order("fecha DESC").Order("id DESC").
		First(&m).Error
	return &m, err
}

func (r *movimientoRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoCaja, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoCaja{})

	if filter.FechaDesde != nil {
		q = q.Where("fecha >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		q = q.Where("fecha <= ?", *filter.FechaHasta)
	}
	if filter.TipoOperacion != "" {
		q = q.Where("tipo_operacion = ?", filter.TipoOperacion)
	}
	if filter.CajaID != nil {
		q = q.Where("caja_id = ?", *filter.CajaID)
	}

	var movs []model.MovimientoCaja
	err := q.Order("fecha DESC").Order("id DESC").
		Offset(filter.Skip).Limit(filter.Limit).
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) ListEnRango(ctx context.Context, cajaID *uuid.UUID, desde, hasta time.Time) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := scopeWhere(r.db.WithContext(ctx), cajaID).
		Where("fecha >= ? AND fecha <= ?", desde, hasta).
		Order("fecha ASC").Order("id ASC").
		Find(&movs).Error
	return movs, err
}

func (r *movimientoRepo) LockScope(tx *gorm.DB, cajaID *uuid.UUID) error {
	if tx == nil {
		return nil
	}
	key := "movimientos_caja:global"
	if cajaID != nil {
		key = "movimientos_caja:" + cajaID.String()
	}
	// pg_advisory_xact_lock releases automatically at COMMIT/ROLLBACK.
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
