package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	barberdomain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/notification"
	"github.com/BruksfildServices01/barbershop-site/internal/timezone"
)

// Outcome is what a transition hands back to the handler. The notification
// result is informational: the transition already happened.
type Outcome struct {
	Appointment  *models.Appointment
	Barber       *models.Barber
	Notification notification.Result
}

// BookedTimesCache is satisfied by cache.BookedTimes.
// BookedTimesCache is versioned per slot: Get reports the generation it
// looked at, and Set under a generation that Invalidate has since advanced
// is never read back.
type BookedTimesCache interface {
	Get(ctx context.Context, barberID, date string) (times []string, gen int64, ok bool)
	Set(ctx context.Context, barberID, date string, gen int64, times []string)
	Invalidate(ctx context.Context, barberID, date string)
}

func clockIn(tz string) func() time.Time {
	return func() time.Time { return timezone.NowIn(tz) }
}

func invalidateSlot(ctx context.Context, c BookedTimesCache, ap *models.Appointment) {
	if c == nil || ap == nil {
		return
	}
	c.Invalidate(ctx, ap.BarberID, ap.Date)
}

func appointmentEvent(actorID, action string, ap *models.Appointment, meta any) audit.Event {
	ev := audit.Event{
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: meta,
	}
	if actorID != "" {
		ev.ActorID = &actorID
	}
	return ev
}

// resolveBarber treats a deleted barber as absent rather than as a failure.
func resolveBarber(ctx context.Context, barbers barberdomain.Repository, id string) (*models.Barber, error) {
	b, err := barbers.Get(ctx, id)
	if httperr.IsBusiness(err, httperr.CodeBarberNotFound) {
		return nil, nil
	}
	return b, err
}
