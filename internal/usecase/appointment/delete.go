package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo  domain.Repository
	cache BookedTimesCache
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	cache BookedTimesCache,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

// Execute removes the appointment whatever its status. A deletion job still
// pending for it is cancelled with it.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) error {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, ap.ID); err != nil {
		return err
	}
	invalidateSlot(ctx, uc.cache, ap)

	uc.audit.Dispatch(appointmentEvent(actorID, "appointment_deleted", ap, map[string]string{"status": ap.Status}))

	return nil
}
