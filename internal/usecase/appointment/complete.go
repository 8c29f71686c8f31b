package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	cache BookedTimesCache
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCompleteAppointment(
	repo domain.Repository,
	cache BookedTimesCache,
	audit *audit.Dispatcher,
	tz string,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:  repo,
		cache: cache,
		audit: audit,
		now:   clockIn(tz),
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, ap); err != nil {
		return nil, err
	}
	invalidateSlot(ctx, uc.cache, ap)

	uc.audit.Dispatch(appointmentEvent(actorID, "appointment_completed", ap, nil))

	return ap, nil
}
