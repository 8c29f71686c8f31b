package barber

import (
	"context"

	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Barber) error
	Get(ctx context.Context, id string) (*models.Barber, error)
	Update(ctx context.Context, b *models.Barber) error
	Delete(ctx context.Context, id string) error

	// ListAvailable returns available barbers, oldest first; limit <= 0 means no limit.
	ListAvailable(ctx context.Context, limit int) ([]models.Barber, error)
	ListAll(ctx context.Context) ([]models.Barber, error)
	Latest(ctx context.Context) (*models.Barber, error)
}
