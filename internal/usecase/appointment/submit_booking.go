package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	barberdomain "github.com/BruksfildServices01/barbershop-site/internal/domain/barber"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/notification"
)

// ======================================================
// USE CASE
// ======================================================

type SubmitBooking struct {
	repo     domain.Repository
	barbers  barberdomain.Repository
	notifier notification.Notifier
	audit    *audit.Dispatcher
}

func NewSubmitBooking(
	repo domain.Repository,
	barbers barberdomain.Repository,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
) *SubmitBooking {
	return &SubmitBooking{
		repo:     repo,
		barbers:  barbers,
		notifier: notifier,
		audit:    audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute returns *domain.ValidationErrors when the form is rejected. Any
// other error comes from the store.
func (uc *SubmitBooking) Execute(
	ctx context.Context,
	raw domain.BookingInput,
) (*Outcome, error) {

	// --------------------------------------------------
	// Fields
	// --------------------------------------------------
	errs := domain.ValidateFields(raw)
	in := raw.Normalized()

	// --------------------------------------------------
	// Barber
	// --------------------------------------------------
	var barber *models.Barber
	if in.Barber != "" {
		b, err := uc.barbers.Get(ctx, in.Barber)
		switch {
		case httperr.IsBusiness(err, httperr.CodeBarberNotFound):
			errs.Add(domain.MsgBarberNotFound)
		case err != nil:
			return nil, err
		case !b.Available:
			errs.Add(domain.MsgBarberUnavailable)
		default:
			barber = b
		}
	}

	if !errs.Empty() {
		return nil, errs
	}

	// --------------------------------------------------
	// Create (conflict check + insert)
	// --------------------------------------------------
	ap := &models.Appointment{
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		BarberID:      in.Barber,
		Service:       in.Service,
		Date:          in.Date,
		Time:          in.Time,
		Status:        string(domain.InitialStatus()),
		Notes:         in.Notes,
	}

	if err := uc.repo.CreatePending(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotAlreadyBooked) {
			errs.Add(domain.MsgSlotAlreadyBooked)
			return nil, errs
		}
		return nil, err
	}

	uc.audit.Dispatch(appointmentEvent("", "appointment_created", ap, nil))

	// --------------------------------------------------
	// Notification (best effort)
	// --------------------------------------------------
	return &Outcome{
		Appointment:  ap,
		Barber:       barber,
		Notification: uc.notifier.NotifyReceived(ctx, ap, barber),
	}, nil
}
