package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	barberdomain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
)

type EditAppointment struct {
	repo    domain.Repository
	barbers barberdomain.Repository
	cache   BookedTimesCache
	audit   *audit.Dispatcher
}

func NewEditAppointment(
	repo domain.Repository,
	barbers barberdomain.Repository,
	cache BookedTimesCache,
	audit *audit.Dispatcher,
) *EditAppointment {
	return &EditAppointment{
		repo:    repo,
		barbers: barbers,
		cache:   cache,
		audit:   audit,
	}
}

// Execute overwrites the editable fields; the status is left alone. The new
// slot must not clash with another confirmed appointment. An admin may move a
// booking to a barber who is currently marked unavailable.
func (uc *EditAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
	raw domain.BookingInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	old := *ap

	errs := domain.ValidateFields(raw)
	in := raw.Normalized()

	if in.Barber != "" {
		_, err := uc.barbers.Get(ctx, in.Barber)
		switch {
		case httperr.IsBusiness(err, httperr.CodeBarberNotFound):
			errs.Add(domain.MsgBarberNotFound)
		case err != nil:
			return nil, err
		}
	}
	if !errs.Empty() {
		return nil, errs
	}

	taken, err := uc.repo.HasConfirmedConflict(ctx, in.Barber, in.Date, in.Time, ap.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs.Add(domain.MsgSlotAlreadyBooked)
		return nil, errs
	}

	ap.CustomerName = in.CustomerName
	ap.CustomerEmail = in.CustomerEmail
	ap.CustomerPhone = in.CustomerPhone
	ap.BarberID = in.Barber
	ap.Service = in.Service
	ap.Date = in.Date
	ap.Time = in.Time
	ap.Notes = in.Notes

	if err := uc.repo.Update(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotAlreadyBooked) {
			errs.Add(domain.MsgSlotAlreadyBooked)
			return nil, errs
		}
		return nil, err
	}
	invalidateSlot(ctx, uc.cache, &old)
	invalidateSlot(ctx, uc.cache, ap)

	uc.audit.Dispatch(appointmentEvent(actorID, "appointment_edited", ap, map[string]string{
		"barber": old.BarberID,
		"date":   old.Date,
		"time":   old.Time,
	}))

	return ap, nil
}
