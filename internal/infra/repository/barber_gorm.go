package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type BarberGormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewBarberGormRepository(db *gorm.DB, timeout time.Duration) *BarberGormRepository {
	return &BarberGormRepository{db: db, timeout: timeout}
}

func (r *BarberGormRepository) Create(ctx context.Context, b *models.Barber) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return mapErr("create barber", r.db.WithContext(ctx).Create(b).Error, "")
}

func (r *BarberGormRepository) Get(ctx context.Context, id string) (*models.Barber, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, mapErr("get barber", err, httperr.CodeBarberNotFound)
	}
	return &b, nil
}

func (r *BarberGormRepository) Update(ctx context.Context, b *models.Barber) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(b).
		Select("*").
		Omit("id", "created_at").
		Updates(b)
	if res.Error == nil && res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeBarberNotFound)
	}
	return mapErr("update barber", res.Error, httperr.CodeBarberNotFound)
}

func (r *BarberGormRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Barber{})
	if res.Error != nil {
		return mapErr("delete barber", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeBarberNotFound)
	}
	return nil
}

func (r *BarberGormRepository) ListAvailable(ctx context.Context, limit int) ([]models.Barber, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Barber
	if err := q.Find(&out).Error; err != nil {
		return nil, mapErr("list barbers", err, "")
	}
	return out, nil
}

func (r *BarberGormRepository) ListAll(ctx context.Context) ([]models.Barber, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var out []models.Barber
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, mapErr("list barbers", err, "")
	}
	return out, nil
}

func (r *BarberGormRepository) Latest(ctx context.Context) (*models.Barber, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var b models.Barber
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&b).Error; err != nil {
		return nil, mapErr("latest barber", err, httperr.CodeBarberNotFound)
	}
	return &b, nil
}

var _ domain.Repository = (*BarberGormRepository)(nil)
