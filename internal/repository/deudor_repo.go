package repository

import (
	"context"

	"github.com/GloDelMar/la-tiendita-pos/internal/dto"
	"github.com/GloDelMar/la-tiendita-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeudorRepository persists debtor records. Methods with a tx parameter
// participate in the caller's transaction (sales and payments mutate the
// debtor and the cash ledger as one unit); tx may be nil in unit tests.
type DeudorRepository interface {
	Create(ctx context.Context, tx *gorm.DB, d *model.Deudor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Deudor, error)
	FindByNombreGrupo(ctx context.Context, tx *gorm.DB, nombre, grupo string) (*model.Deudor, error)
	Update(ctx context.Context, tx *gorm.DB, d *model.Deudor) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, filter dto.DeudorFilter) ([]model.Deudor, error)
	ListAll(ctx context.Context) ([]model.Deudor, error)
}

type deudorRepo struct{ db *gorm.DB }

func NewDeudorRepository(db *gorm.DB) DeudorRepository { return &deudorRepo{db: db} }

func (r *deudorRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *deudorRepo) Create(ctx context.Context, tx *gorm.DB, d *model.Deudor) error {
	return r.conn(tx).WithContext(ctx).Create(d).Error
}

func (r *deudorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Deudor, error) {
	var d model.Deudor
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *deudorRepo) FindByNombreGrupo(ctx context.Context, tx *gorm.DB, nombre, grupo string) (*model.Deudor, error) {
	var d model.Deudor
	err := r.conn(tx).WithContext(ctx).
		Where("nombre = ? AND grupo = ?", nombre, grupo).
		First(&d).Error
	return &d, err
}

func (r *deudorRepo) Update(ctx context.Context, tx *gorm.DB, d *model.Deudor) error {
	return r.conn(tx).WithContext(ctx).Save(d).Error
}

func (r *deudorRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.conn(tx).WithContext(ctx).Delete(&model.Deudor{}, id).Error
}

func (r *deudorRepo) List(ctx context.Context, filter dto.DeudorFilter) ([]model.Deudor, error) {
	q := r.db.WithContext(ctx).Model(&model.Deudor{})

	if filter.Grupo != "" {
		q = q.Where("grupo = ?", filter.Grupo)
	}
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}

	var deudores []model.Deudor
	err := q.Order("deuda DESC").
		Offset(filter.Skip).Limit(filter.Limit).
		Find(&deudores).Error
	return deudores, err
}

func (r *deudorRepo) ListAll(ctx context.Context) ([]model.Deudor, error) {
	var deudores []model.Deudor
	err := r.db.WithContext(ctx).Find(&deudores).Error
	return deudores, err
}
