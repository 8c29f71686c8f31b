package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type AdminGormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewAdminGormRepository(db *gorm.DB, timeout time.Duration) *AdminGormRepository {
	return &AdminGormRepository{db: db, timeout: timeout}
}

// FindByEmail returns nil, nil when no admin uses the address.
func (r *AdminGormRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var a models.Admin
	err := r.db.WithContext(ctx).First(&a, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, httperr.ErrStore("find admin", err)
	}
	return &a, nil
}

// Upsert creates the admin or replaces the password of an existing one.
func (r *AdminGormRepository) Upsert(ctx context.Context, email, passwordHash string) (*models.Admin, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var a models.Admin
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&a, "email = ?", email).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			a = models.Admin{Email: email, PasswordHash: passwordHash}
			return tx.Create(&a).Error
		}
		if err != nil {
			return err
		}
		a.PasswordHash = passwordHash
		return tx.Model(&a).Update("password_hash", passwordHash).Error
	})
	if err != nil {
		return nil, httperr.ErrStore("upsert admin", err)
	}
	return &a, nil
}
