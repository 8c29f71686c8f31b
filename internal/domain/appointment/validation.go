package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barbershop-site/internal/timezone"
	"github.com/BruksfildServices01/barbershop-site/internal/validators"
)

const (
	MsgNameRequired      = "Name is required"
	MsgEmailRequired     = "Email is required"
	MsgPhoneRequired     = "Phone is required"
	MsgDateRequired      = "Date is required"
	MsgTimeRequired      = "Time is required"
	MsgServiceRequired   = "Service is required"
	MsgBarberRequired    = "Please select a barber"
	MsgInvalidTime       = "Invalid time — choose a :00 or :30 slot"
	MsgInvalidDate       = "Invalid date"
	MsgBarberNotFound    = "Selected barber was not found"
	MsgBarberUnavailable = "Selected barber is not available"
	MsgSlotAlreadyBooked = "This time slot is already booked — please choose another"
	MsgUnexpectedBooking = "Unexpected server error — please try again later."
)

// BookingInput is the booking form as submitted. Field names match the form.
type BookingInput struct {
	CustomerName  string `form:"customerName" json:"customerName"`
	CustomerEmail string `form:"customerEmail" json:"customerEmail"`
	CustomerPhone string `form:"customerPhone" json:"customerPhone"`
	Date          string `form:"date" json:"date"`
	Time          string `form:"time" json:"time"`
	Service       string `form:"service" json:"service"`
	Barber        string `form:"barber" json:"barber"`
	Notes         string `form:"notes" json:"notes"`
}

func (in BookingInput) Normalized() BookingInput {
	return BookingInput{
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Date:          strings.TrimSpace(in.Date),
		Time:          strings.TrimSpace(in.Time),
		Service:       strings.TrimSpace(in.Service),
		Barber:        strings.TrimSpace(in.Barber),
		Notes:         strings.TrimSpace(in.Notes),
	}
}

// ValidationErrors collects every problem with a submission together with the
// input as it was sent, so the form can be shown again pre-filled.
type ValidationErrors struct {
	Messages []string
	Input    BookingInput
}

func (e *ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationErrors) Add(msg string) {
	e.Messages = append(e.Messages, msg)
}

func (e *ValidationErrors) Empty() bool {
	return len(e.Messages) == 0
}

// ValidateFields runs the presence checks in form order and then the format
// checks. Barber resolution and slot conflicts need the store and are left to
// the caller.
func ValidateFields(raw BookingInput) *ValidationErrors {
	in := raw.Normalized()
	errs := &ValidationErrors{Input: raw}

	if in.CustomerName == "" {
		errs.Add(MsgNameRequired)
	}
	if in.CustomerEmail == "" {
		errs.Add(MsgEmailRequired)
	}
	if in.CustomerPhone == "" {
		errs.Add(MsgPhoneRequired)
	}
	if in.Date == "" {
		errs.Add(MsgDateRequired)
	}
	if in.Time == "" {
		errs.Add(MsgTimeRequired)
	}
	if in.Service == "" {
		errs.Add(MsgServiceRequired)
	}
	if in.Barber == "" {
		errs.Add(MsgBarberRequired)
	}

	if in.Time != "" && !validators.IsValidTimeSlot(in.Time) {
		errs.Add(MsgInvalidTime)
	}
	if in.Date != "" {
		if _, err := time.Parse(timezone.DateLayout, in.Date); err != nil {
			errs.Add(MsgInvalidDate)
		}
	}

	return errs
}
