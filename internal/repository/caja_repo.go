package repository

import (
	"context"

	"github.com/GloDelMar/la-tiendita-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Caja, error)
	List(ctx context.Context, activaOnly bool) ([]model.Caja, error)
	Update(ctx context.Context, c *model.Caja) error
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) FindByNombre(ctx context.Context, nombre string) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&c).Error
	return &c, err
}

func (r *cajaRepo) List(ctx context.Context, activaOnly bool) ([]model.Caja, error) {
	var cajas []model.Caja
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if activaOnly {
		q = q.Where("activa = true")
	}
	err := q.Find(&cajas).Error
	return cajas, err
}

func (r *cajaRepo) Update(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Save(c).Error
}
