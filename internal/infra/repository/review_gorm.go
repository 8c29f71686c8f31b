package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/review"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type ReviewGormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewReviewGormRepository(db *gorm.DB, timeout time.Duration) *ReviewGormRepository {
	return &ReviewGormRepository{db: db, timeout: timeout}
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv *models.Review) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return mapErr("create review", r.db.WithContext(ctx).Create(rv).Error, "")
}

func (r *ReviewGormRepository) Approve(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Update("approved", true)
	if res.Error != nil {
		return mapErr("approve review", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeReviewNotFound)
	}
	return nil
}

func (r *ReviewGormRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if res.Error != nil {
		return mapErr("delete review", res.Error, "")
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeReviewNotFound)
	}
	return nil
}

func (r *ReviewGormRepository) ListApproved(ctx context.Context, limit int) ([]models.Review, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	q := r.db.WithContext(ctx).
		Where("approved = ?", true).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Review
	if err := q.Find(&out).Error; err != nil {
		return nil, mapErr("list reviews", err, "")
	}
	return out, nil
}

func (r *ReviewGormRepository) ListAll(ctx context.Context) ([]models.Review, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var out []models.Review
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, mapErr("list reviews", err, "")
	}
	return out, nil
}

func (r *ReviewGormRepository) CountPending(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("approved = ?", false).
		Count(&n).Error; err != nil {
		return 0, mapErr("count reviews", err, "")
	}
	return n, nil
}

var _ domain.Repository = (*ReviewGormRepository)(nil)
