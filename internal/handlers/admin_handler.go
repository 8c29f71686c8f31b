package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-site/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/session"
	appointmentuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/appointment"
	barberuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/barber"
	reviewuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/review"
)

const dashboardPath = "/admin/dashboard"

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	view *View
	log  *slog.Logger

	list     *appointmentuc.ListAppointments
	stats    *appointmentuc.GetDashboardStats
	get      *appointmentuc.GetAppointment
	confirm  *appointmentuc.ConfirmAppointment
	cancel   *appointmentuc.CancelAppointment
	complete *appointmentuc.CompleteAppointment
	remove   *appointmentuc.DeleteAppointment
	edit     *appointmentuc.EditAppointment

	barbers *barberuc.ListBarbers
	reviews *reviewuc.ListReviews
}

type AdminDeps struct {
	List     *appointmentuc.ListAppointments
	Stats    *appointmentuc.GetDashboardStats
	Get      *appointmentuc.GetAppointment
	Confirm  *appointmentuc.ConfirmAppointment
	Cancel   *appointmentuc.CancelAppointment
	Complete *appointmentuc.CompleteAppointment
	Delete   *appointmentuc.DeleteAppointment
	Edit     *appointmentuc.EditAppointment

	Barbers *barberuc.ListBarbers
	Reviews *reviewuc.ListReviews
}

func NewAdminHandler(view *View, log *slog.Logger, deps AdminDeps) *AdminHandler {
	return &AdminHandler{
		view:     view,
		log:      log,
		list:     deps.List,
		stats:    deps.Stats,
		get:      deps.Get,
		confirm:  deps.Confirm,
		cancel:   deps.Cancel,
		complete: deps.Complete,
		remove:   deps.Delete,
		edit:     deps.Edit,
		barbers:  deps.Barbers,
		reviews:  deps.Reviews,
	}
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	appointments, err := h.list.Execute(ctx)
	if err != nil {
		h.view.Fail(c, "dashboard: appointments", err)
		return
	}

	reviews, err := h.reviews.All(ctx)
	if err != nil {
		h.view.Fail(c, "dashboard: reviews", err)
		return
	}

	barbers, err := h.barbers.All(ctx)
	if err != nil {
		h.view.Fail(c, "dashboard: barbers", err)
		return
	}

	stats, err := h.stats.Execute(ctx)
	if err != nil {
		h.view.Fail(c, "dashboard: stats", err)
		return
	}

	h.view.Render(c, http.StatusOK, "admin_dashboard.html", "Admin Dashboard", gin.H{
		"Appointments": appointments,
		"Reviews":      reviews,
		"Barbers":      barbers,
		"Stats":        stats,
	})
}

// ======================================================
// APPOINTMENT ACTIONS
// ======================================================

func (h *AdminHandler) Confirm(c *gin.Context) {
	out, err := h.confirm.Execute(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.actionFailed(c, "confirm appointment", err, "Error confirming appointment")
		return
	}

	logNotification(c, h.log, out)
	msg := "Appointment confirmed and email sent!"
	if !out.Notification.OK() {
		msg = "Appointment confirmed, but the confirmation email could not be sent."
	}
	h.done(c, msg)
}

func (h *AdminHandler) Cancel(c *gin.Context) {
	out, err := h.cancel.Execute(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.actionFailed(c, "cancel appointment", err, "Error cancelling appointment")
		return
	}

	logNotification(c, h.log, out)
	h.done(c, fmt.Sprintf("Appointment cancelled. It will be removed in %s.", humanDelay(h.cancel.Delay())))
}

func (h *AdminHandler) Complete(c *gin.Context) {
	if _, err := h.complete.Execute(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.actionFailed(c, "complete appointment", err, "Error completing appointment")
		return
	}
	h.done(c, "Appointment marked as completed.")
}

func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.remove.Execute(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.actionFailed(c, "delete appointment", err, "Error deleting appointment")
		return
	}
	h.done(c, "Appointment deleted permanently.")
}

// ======================================================
// EDIT
// ======================================================

func (h *AdminHandler) EditPage(c *gin.Context) {
	ap, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.actionFailed(c, "load appointment", err, "Error loading appointment")
		return
	}
	h.renderEdit(c, http.StatusOK, ap, inputFrom(ap), nil)
}

func (h *AdminHandler) SaveEdit(c *gin.Context) {
	id := c.Param("id")

	var in domain.BookingInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.WarnContext(c.Request.Context(), "edit appointment: bad form", "appointment_id", id, "error", err)
		ap, getErr := h.get.Execute(c.Request.Context(), id)
		if getErr != nil {
			h.actionFailed(c, "load appointment", getErr, "Error loading appointment")
			return
		}
		h.renderEdit(c, http.StatusBadRequest, ap, in, []string{domain.MsgUnexpectedBooking})
		return
	}

	_, err := h.edit.Execute(c.Request.Context(), actorID(c), id, in)

	var verrs *domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		ap, getErr := h.get.Execute(c.Request.Context(), id)
		if getErr != nil {
			h.actionFailed(c, "load appointment", getErr, "Error loading appointment")
			return
		}
		h.renderEdit(c, http.StatusBadRequest, ap, verrs.Input, verrs.Messages)
		return
	case httperr.IsNotFound(err):
		h.actionFailed(c, "edit appointment", err, "")
		return
	case err != nil:
		h.log.ErrorContext(c.Request.Context(), "edit appointment", "error", err, "appointment_id", id)
		session.From(c).AddFlash(session.FlashError, "Failed to update appointment")
		c.Redirect(http.StatusSeeOther, "/admin/appointments/"+id+"/edit")
		return
	}

	h.done(c, "Appointment updated successfully!")
}

func (h *AdminHandler) renderEdit(c *gin.Context, status int, ap *models.Appointment, old domain.BookingInput, errs []string) {
	barbers, err := h.barbers.All(c.Request.Context())
	if err != nil {
		h.view.Fail(c, "edit: list barbers", err)
		return
	}

	h.view.Render(c, status, "admin_edit_appointment.html", "Edit Appointment", gin.H{
		"ID":      ap.ID,
		"Status":  ap.Status,
		"Old":     old,
		"Errors":  errs,
		"Barbers": barbers,
		"Slots":   TimeSlots,
	})
}

func inputFrom(ap *models.Appointment) domain.BookingInput {
	return domain.BookingInput{
		CustomerName:  ap.CustomerName,
		CustomerEmail: ap.CustomerEmail,
		CustomerPhone: ap.CustomerPhone,
		Date:          ap.Date,
		Time:          ap.Time,
		Service:       ap.Service,
		Barber:        ap.BarberID,
		Notes:         ap.Notes,
	}
}

// ======================================================
// HELPERS
// ======================================================

func (h *AdminHandler) done(c *gin.Context, msg string) {
	session.From(c).AddFlash(session.FlashSuccess, msg)
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// actionFailed flashes the business message for known errors and the
// fallback for anything else, then returns to the dashboard.
func (h *AdminHandler) actionFailed(c *gin.Context, op string, err error, fallback string) {
	flashFailure(c, h.log, op, err, fallback)
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func flashFailure(c *gin.Context, log *slog.Logger, op string, err error, fallback string) {
	var be httperr.BusinessError
	msg := fallback
	if errors.As(err, &be) {
		msg = httperr.Message(err)
		log.InfoContext(c.Request.Context(), op+" rejected", "code", be.Code, "id", c.Param("id"))
	} else {
		log.ErrorContext(c.Request.Context(), op, "error", err, "id", c.Param("id"))
	}
	if msg == "" {
		msg = httperr.Message(err)
	}
	session.From(c).AddFlash(session.FlashError, msg)
}

func humanDelay(d time.Duration) string {
	if d < time.Minute {
		n := int(d.Round(time.Second) / time.Second)
		if n == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", n)
	}
	n := int(d.Round(time.Minute) / time.Minute)
	if n == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}
