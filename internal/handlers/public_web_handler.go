package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/session"
	"github.com/BruksfildServices01/barbershop-site/internal/timezone"
	appointmentuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/appointment"
	barberuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/barber"
	reviewuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/review"
	"github.com/BruksfildServices01/barbershop-site/internal/validators"
)

const (
	homeBarbers = 3
	homeReviews = 6

	msgReviewInvalid = "Please fill all fields correctly"
	msgReviewThanks  = "Thank you for your review! It will be published after approval."
	msgReviewFailed  = "Error submitting review"
	msgBookedTimes   = "Could not load booked times"
)

// ======================================================
// HANDLER
// ======================================================

type PublicWebHandler struct {
	view *View
	log  *slog.Logger
	tz   string

	barbers      *barberuc.ListBarbers
	reviews      *reviewuc.ListReviews
	submitReview *reviewuc.SubmitReview
	submit       *appointmentuc.SubmitBooking
	bookedTimes  *appointmentuc.ListBookedTimes
}

type PublicWebDeps struct {
	Barbers      *barberuc.ListBarbers
	Reviews      *reviewuc.ListReviews
	SubmitReview *reviewuc.SubmitReview
	Submit       *appointmentuc.SubmitBooking
	BookedTimes  *appointmentuc.ListBookedTimes
}

func NewPublicWebHandler(view *View, log *slog.Logger, tz string, deps PublicWebDeps) *PublicWebHandler {
	return &PublicWebHandler{
		view:         view,
		log:          log,
		tz:           tz,
		barbers:      deps.Barbers,
		reviews:      deps.Reviews,
		submitReview: deps.SubmitReview,
		submit:       deps.Submit,
		bookedTimes:  deps.BookedTimes,
	}
}

// ======================================================
// HOME
// ======================================================

func (h *PublicWebHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	barbers, err := h.barbers.Available(ctx, homeBarbers)
	if err != nil {
		h.view.Fail(c, "home: list barbers", err)
		return
	}

	reviews, err := h.reviews.Approved(ctx, homeReviews)
	if err != nil {
		h.view.Fail(c, "home: list reviews", err)
		return
	}

	h.view.Render(c, http.StatusOK, "index.html", h.view.shop, gin.H{
		"Barbers":  barbers,
		"Reviews":  reviews,
		"Services": Services,
	})
}

// ======================================================
// REVIEWS
// ======================================================

func (h *PublicWebHandler) SubmitReview(c *gin.Context) {
	sess := session.From(c)

	var in reviewuc.SubmitReviewInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.InfoContext(c.Request.Context(), "submit review: bad form", "error", err)
		sess.AddFlash(session.FlashError, msgReviewInvalid)
		c.Redirect(http.StatusSeeOther, "/#reviews")
		return
	}

	_, err := h.submitReview.Execute(c.Request.Context(), in)

	var fieldErrs *validators.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		sess.AddFlash(session.FlashError, msgReviewInvalid)
	case err != nil:
		h.log.ErrorContext(c.Request.Context(), "submit review", "error", err)
		sess.AddFlash(session.FlashError, msgReviewFailed)
	default:
		sess.AddFlash(session.FlashSuccess, msgReviewThanks)
	}

	c.Redirect(http.StatusSeeOther, "/#reviews")
}

// ======================================================
// BOOKING
// ======================================================

func (h *PublicWebHandler) BookingForm(c *gin.Context) {
	h.renderBooking(c, http.StatusOK, domain.BookingInput{}, nil)
}

func (h *PublicWebHandler) SubmitBooking(c *gin.Context) {
	var in domain.BookingInput
	// Form binding only copies strings, so a bind error means a malformed body.
	if err := c.ShouldBind(&in); err != nil {
		h.log.WarnContext(c.Request.Context(), "submit booking: bad form", "error", err)
		h.renderBooking(c, http.StatusBadRequest, in, []string{domain.MsgUnexpectedBooking})
		return
	}

	out, err := h.submit.Execute(c.Request.Context(), in)

	var verrs *domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.renderBooking(c, http.StatusBadRequest, verrs.Input, verrs.Messages)
		return
	case err != nil:
		h.log.ErrorContext(c.Request.Context(), "submit booking", "error", err)
		status := http.StatusInternalServerError
		if httperr.IsStore(err) {
			status = http.StatusServiceUnavailable
		}
		h.renderBooking(c, status, in, []string{domain.MsgUnexpectedBooking})
		return
	}

	logNotification(c, h.log, out)

	c.Redirect(http.StatusSeeOther, "/booking/success")
}

func (h *PublicWebHandler) BookingSuccess(c *gin.Context) {
	h.view.Render(c, http.StatusOK, "booking_success.html", "Booking Received", nil)
}

func (h *PublicWebHandler) BookedTimes(c *gin.Context) {
	times, err := h.bookedTimes.Execute(c.Request.Context(), c.Param("barberId"), c.Param("date"))
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "booked times", "error", err)
		httperr.Unavailable(c, "booked_times_failed", msgBookedTimes)
		return
	}
	if times == nil {
		times = []string{}
	}
	httpresp.OK(c, gin.H{"times": times})
}

// renderBooking shows the form. The barber list is reloaded every time; when
// that fails the form is still shown so the user's input is not lost.
func (h *PublicWebHandler) renderBooking(c *gin.Context, status int, old domain.BookingInput, errs []string) {
	barbers, err := h.barbers.Available(c.Request.Context(), 0)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "booking: list barbers", "error", err)
		barbers = []models.Barber{}
		if len(errs) == 0 {
			errs = []string{domain.MsgUnexpectedBooking}
		}
	}

	h.view.Render(c, status, "booking.html", "Book Appointment", gin.H{
		"Barbers":  barbers,
		"Services": Services,
		"Slots":    TimeSlots,
		"Errors":   errs,
		"Old":      old,
		"Today":    timezone.Today(h.tz),
	})
}

// logNotification records an email that could not be sent. The action it
// belongs to has already succeeded.
func logNotification(c *gin.Context, log *slog.Logger, out *appointmentuc.Outcome) {
	if out == nil || out.Notification.OK() {
		return
	}
	log.WarnContext(c.Request.Context(), "notification failed",
		"kind", out.Notification.Kind,
		"recipient", out.Notification.Recipient,
		"appointment_id", out.Appointment.ID,
		"error", out.Notification.Err,
	)
}
