package review

import (
	"context"

	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Review) error
	Approve(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	// ListApproved returns approved reviews, most recent first; limit <= 0 means no limit.
	ListApproved(ctx context.Context, limit int) ([]models.Review, error)
	ListAll(ctx context.Context) ([]models.Review, error)
	CountPending(ctx context.Context) (int64, error)
}
