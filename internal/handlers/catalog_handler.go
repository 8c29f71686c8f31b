package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-site/internal/media"
	"github.com/BruksfildServices01/barbershop-site/internal/session"
	barberuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/barber"
	reviewuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/review"
	"github.com/BruksfildServices01/barbershop-site/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

// CatalogHandler manages the barbers and reviews shown on the public site.
type CatalogHandler struct {
	log *slog.Logger

	createBarber    *barberuc.CreateBarber
	deleteBarber    *barberuc.DeleteBarber
	setAvailability *barberuc.SetAvailability
	moderate        *reviewuc.ModerateReview
}

func NewCatalogHandler(
	log *slog.Logger,
	createBarber *barberuc.CreateBarber,
	deleteBarber *barberuc.DeleteBarber,
	setAvailability *barberuc.SetAvailability,
	moderate *reviewuc.ModerateReview,
) *CatalogHandler {
	return &CatalogHandler{
		log:             log,
		createBarber:    createBarber,
		deleteBarber:    deleteBarber,
		setAvailability: setAvailability,
		moderate:        moderate,
	}
}

// ======================================================
// REVIEWS
// ======================================================

func (h *CatalogHandler) ApproveReview(c *gin.Context) {
	if err := h.moderate.Approve(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.failed(c, "approve review", err, "Error approving review")
		return
	}
	h.done(c, "Review approved!")
}

func (h *CatalogHandler) DeleteReview(c *gin.Context) {
	if err := h.moderate.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.failed(c, "delete review", err, "Error deleting review")
		return
	}
	h.done(c, "Review deleted!")
}

// ======================================================
// BARBERS
// ======================================================

func (h *CatalogHandler) CreateBarber(c *gin.Context) {
	sess := session.From(c)

	var in barberuc.CreateBarberInput
	if err := c.ShouldBind(&in); err != nil {
		h.log.InfoContext(c.Request.Context(), "create barber: bad form", "error", err)
		sess.AddFlash(session.FlashError, "Please fill all barber fields correctly")
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}

	var image io.Reader
	file, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// The photo is optional.
	case err != nil:
		h.failed(c, "create barber: upload", err, "Could not read the uploaded image")
		return
	case file.Size > media.MaxUploadBytes:
		sess.AddFlash(session.FlashError, "Image is too large (max 5 MB)")
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	default:
		f, err := file.Open()
		if err != nil {
			h.failed(c, "create barber: open upload", err, "Could not read the uploaded image")
			return
		}
		defer closeUpload(f)
		image = f
	}

	b, err := h.createBarber.Execute(c.Request.Context(), actorID(c), in, image)

	var fieldErrs *validators.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		sess.AddFlash(session.FlashError, strings.Join(fieldErrs.Messages, ". "))
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	case errors.Is(err, media.ErrNotAnImage), errors.Is(err, media.ErrTooLarge),
		errors.Is(err, media.ErrEmptyUpload), errors.Is(err, media.ErrDimensions):
		sess.AddFlash(session.FlashError, "Please upload a valid image (JPEG, PNG or GIF, max 5 MB)")
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	case err != nil:
		h.failed(c, "create barber", err, "Error adding barber")
		return
	}

	h.done(c, "Barber "+b.Name+" added!")
}

func (h *CatalogHandler) DeleteBarber(c *gin.Context) {
	res, err := h.deleteBarber.Execute(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.failed(c, "delete barber", err, "Error deleting barber")
		return
	}
	if res.ImageErr != nil {
		h.log.WarnContext(c.Request.Context(), "barber image not removed",
			"barber_id", res.Barber.ID,
			"image", res.Barber.Image,
			"error", res.ImageErr,
		)
	}
	h.done(c, "Barber "+res.Barber.Name+" deleted!")
}

func (h *CatalogHandler) SetAvailability(c *gin.Context) {
	available, err := strconv.ParseBool(c.PostForm("available"))
	if err != nil {
		session.From(c).AddFlash(session.FlashError, "Invalid availability value")
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}

	b, err := h.setAvailability.Execute(c.Request.Context(), actorID(c), c.Param("id"), available)
	if err != nil {
		h.failed(c, "set barber availability", err, "Error updating barber")
		return
	}

	state := "unavailable"
	if b.Available {
		state = "available"
	}
	h.done(c, b.Name+" is now "+state+".")
}

// ======================================================
// HELPERS
// ======================================================

func (h *CatalogHandler) done(c *gin.Context, msg string) {
	session.From(c).AddFlash(session.FlashSuccess, msg)
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h *CatalogHandler) failed(c *gin.Context, op string, err error, fallback string) {
	flashFailure(c, h.log, op, err, fallback)
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func closeUpload(f multipart.File) {
	_ = f.Close()
}
