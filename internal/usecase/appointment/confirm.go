package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	barberdomain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/notification"
)

type ConfirmAppointment struct {
	repo     domain.Repository
	barbers  barberdomain.Repository
	notifier notification.Notifier
	cache    BookedTimesCache
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewConfirmAppointment(
	repo domain.Repository,
	barbers barberdomain.Repository,
	notifier notification.Notifier,
	cache BookedTimesCache,
	audit *audit.Dispatcher,
	tz string,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:     repo,
		barbers:  barbers,
		notifier: notifier,
		cache:    cache,
		audit:    audit,
		now:      clockIn(tz),
	}
}

// Execute confirms the appointment and then sends the confirmation email.
// The two are not atomic: a failed email leaves the appointment confirmed
// and is reported in Outcome.Notification.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*Outcome, error) {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	barber, err := resolveBarber(ctx, uc.barbers, ap.BarberID)
	if err != nil {
		return nil, err
	}

	previous := ap.Status
	if err := domain.Confirm(ap, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.ConfirmAndRevokeDeletion(ctx, ap); err != nil {
		return nil, err
	}
	invalidateSlot(ctx, uc.cache, ap)

	uc.audit.Dispatch(appointmentEvent(actorID, "appointment_confirmed", ap, map[string]string{"from": previous}))

	out := &Outcome{Appointment: ap, Barber: barber}
	if barber == nil {
		out.Notification = notification.Skipped(notification.KindConfirmed, ap, notification.ErrBarberMissing)
		return out, nil
	}
	out.Notification = uc.notifier.NotifyConfirmed(ctx, ap, barber)
	return out, nil
}
