package repository

import (
	"context"
	"time"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransaccionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaccion, error)
	List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Transaccion, error)
	ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Transaccion, error)
	ListByCliente(ctx context.Context, cliente string, filter dto.TransaccionFilter) ([]model.Transaccion, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository { return &transaccionRepo{db: db} }

func (r *transaccionRepo) DB() *gorm.DB { return r.db }

func (r *transaccionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaccion) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(t).Error
}

func (r *transaccionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaccion, error) {
	var t model.Transaccion
	err := r.db.WithContext(ctx).Preload("Items").First(&t, id).Error
	return &t, err
}

func (r *transaccionRepo) List(ctx context.Context, filter dto.TransaccionFilter) ([]model.Transaccion, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&model.Transaccion{}), filter)

	var trans []model.Transaccion
	err := q.Preload("Items").
		Order("fecha DESC").
		Offset(filter.Skip).Limit(filter.Limit).
		Find(&trans).Error
	return trans, err
}

func (r *transaccionRepo) ListEnRango(ctx context.Context, desde, hasta time.Time) ([]model.Transaccion, error) {
	var trans []model.Transaccion
	err := r.db.WithContext(ctx).
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Find(&trans).Error
	return trans, err
}

func (r *transaccionRepo) ListByCliente(ctx context.Context, cliente string, filter dto.TransaccionFilter) ([]model.Transaccion, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&model.Transaccion{}), filter).
		Where("cliente = ?", cliente)

	var trans []model.Transaccion
	err := q.Preload("Items").
		Order("fecha DESC").
		Offset(filter.Skip).Limit(filter.Limit).
		Find(&trans).Error
	return trans, err
}

func (r *transaccionRepo) applyFilter(q *gorm.DB, filter dto.TransaccionFilter) *gorm.DB {
	if filter.FechaDesde != nil {
		q = q.Where("fecha >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		q = q.Where("fecha <= ?", *filter.FechaHasta)
	}
	if filter.Cliente != "" {
		q = q.Where("cliente ILIKE ?", "%"+filter.Cliente+"%")
	}
	if filter.Grupo != "" {
		q = q.Where("grupo = ?", filter.Grupo)
	}
	if filter.CajaID != nil {
		q = q.Where("caja_id = ?", *filter.CajaID)
	}
	if filter.Pagado != "" {
		q = q.Where("pagado = ?", filter.Pagado)
	}
	return q
}
