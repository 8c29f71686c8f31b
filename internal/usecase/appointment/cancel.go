package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	barberdomain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/notification"
)

const DefaultDeletionDelay = 5 * time.Second

type CancelAppointment struct {
	repo     domain.Repository
	barbers  barberdomain.Repository
	notifier notification.Notifier
	cache    BookedTimesCache
	audit    *audit.Dispatcher
	delay    time.Duration
	now      func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	barbers barberdomain.Repository,
	notifier notification.Notifier,
	cache BookedTimesCache,
	audit *audit.Dispatcher,
	tz string,
	delay time.Duration,
) *CancelAppointment {
	if delay <= 0 {
		delay = DefaultDeletionDelay
	}
	return &CancelAppointment{
		repo:     repo,
		barbers:  barbers,
		notifier: notifier,
		cache:    cache,
		audit:    audit,
		delay:    delay,
		now:      clockIn(tz),
	}
}

func (uc *CancelAppointment) Delay() time.Duration { return uc.delay }

// Execute cancels the appointment and schedules its deletion in the same
// transaction. Cancelling again moves the existing job instead of adding one.
func (uc *CancelAppointment) Execute(
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
	now := uc.now()
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	runAt := now.Add(uc.delay)
	if err := uc.repo.CancelAndScheduleDeletion(ctx, ap, runAt); err != nil {
		return nil, err
	}
	invalidateSlot(ctx, uc.cache, ap)

	uc.audit.Dispatch(appointmentEvent(actorID, "appointment_cancelled", ap, map[string]any{
		"from":      previous,
		"delete_at": runAt.UTC().Format(time.RFC3339),
	}))

	out := &Outcome{Appointment: ap, Barber: barber}
	if barber == nil {
		out.Notification = notification.Skipped(notification.KindCancelled, ap, notification.ErrBarberMissing)
		return out, nil
	}
	out.Notification = uc.notifier.NotifyCancelled(ctx, ap, barber)
	return out, nil
}
