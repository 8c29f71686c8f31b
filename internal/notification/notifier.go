// Package notification sends the customer emails that accompany booking
// transitions. Sending is best effort: callers get a Result back and decide
// what to log, a failed email never undoes a transition.
package notification

import (
	"bytes"
	"context"
	"errors"
	"html/template"

	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/timezone"
)

type Kind string

const (
	KindReceived  Kind = "booking_received"
	KindConfirmed Kind = "appointment_confirmed"
	KindCancelled Kind = "appointment_cancelled"
)

var ErrBarberMissing = errors.New("notification: barber not found")

type Result struct {
	Kind      Kind
	Recipient string
	Err       error
}

func (r Result) OK() bool { return r.Err == nil }

// Skipped reports a notification that was never attempted.
func Skipped(kind Kind, ap *models.Appointment, err error) Result {
	res := Result{Kind: kind, Err: err}
	if ap != nil {
		res.Recipient = ap.CustomerEmail
	}
	return res
}

type Notifier interface {
	NotifyReceived(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result
	NotifyConfirmed(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result
	NotifyCancelled(ctx context.Context, ap *models.Appointment, barber *models.Barber) Result
}

// ======================================================
// MESSAGES
// ======================================================

type Message struct {
	To      string
	Subject string
	HTML    string
}

type messageData struct {
	Heading  string
	Color    string
	Customer string
	Intro    string
	Barber   string
	Service  string
	Date     string
	Time     string
	Outro    string
	Shop     string
}

var bodyTmpl = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: {{.Color}};">{{.Heading}}</h2>
  <p>Dear {{.Customer}},</p>
  <p>{{.Intro}}</p>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Barber:</strong> {{.Barber}}</p>
    <p><strong>Service:</strong> {{.Service}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
    <p><strong>Time:</strong> {{.Time}}</p>
  </div>
  <p>{{.Outro}}</p>
  <p style="color: #666; font-size: 12px;">{{.Shop}}</p>
</div>
`))

// BuildMessage renders the email for kind. The barber must not be nil.
func BuildMessage(kind Kind, shop string, ap *models.Appointment, barber *models.Barber) (Message, error) {
	data := messageData{
		Customer: ap.CustomerName,
		Barber:   barber.Name,
		Service:  ap.Service,
		Date:     timezone.Display(ap.Date),
		Time:     ap.Time,
		Shop:     shop,
	}

	var subject string
	switch kind {
	case KindReceived:
		subject = "📅 Booking Received - " + shop
		data.Heading = "Booking Received"
		data.Color = "#d4af37"
		data.Intro = "Thanks for booking with us. We have received your request:"
		data.Outro = "You will get another email as soon as we confirm it."
	case KindConfirmed:
		subject = "✅ Appointment Confirmed - " + shop
		data.Heading = "Appointment Confirmed!"
		data.Color = "#d4af37"
		data.Intro = "Your appointment has been confirmed with the following details:"
		data.Outro = "We look forward to seeing you!"
	case KindCancelled:
		subject = "❌ Appointment Cancelled - " + shop
		data.Heading = "Appointment Cancelled"
		data.Color = "#e74c3c"
		data.Intro = "Your appointment has been cancelled:"
		data.Outro = "If you'd like to reschedule, please visit our website."
	default:
		return Message{}, errors.New("notification: unknown kind " + string(kind))
	}

	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, data); err != nil {
		return Message{}, err
	}

	return Message{To: ap.CustomerEmail, Subject: subject, HTML: buf.String()}, nil
}
