package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
)

const defaultTimeout = 5 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapErr keeps business errors, turns a missing row into notFoundCode and
// wraps everything else as a StoreError.
func mapErr(op string, err error, notFoundCode string) error {
	if err == nil {
		return nil
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}
	if notFoundCode != "" && errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(notFoundCode)
	}
	if isUniqueViolation(err) {
		return httperr.ErrBusiness(httperr.CodeSlotAlreadyBooked)
	}
	return httperr.ErrStore(op, err)
}
