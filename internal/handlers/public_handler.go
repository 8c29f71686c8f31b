package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/httpresp"
	barberuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/barber"
	reviewuc "github.com/BruksfildServices01/barbershop-site/internal/usecase/review"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the read-only JSON API.
type PublicHandler struct {
	barbers *barberuc.ListBarbers
	reviews *reviewuc.ListReviews
	log     *slog.Logger
}

func NewPublicHandler(
	barbers *barberuc.ListBarbers,
	reviews *reviewuc.ListReviews,
	log *slog.Logger,
) *PublicHandler {
	return &PublicHandler{
		barbers: barbers,
		reviews: reviews,
		log:     log,
	}
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	out, err := h.barbers.Available(c.Request.Context(), queryLimit(c, 0))
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "api: list barbers", "error", err)
		httperr.Unavailable(c, "barbers_list_failed", httperr.Message(err))
		return
	}
	httpresp.List(c, out)
}

////////////////////////////////////////////////////////
// REVIEWS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListReviews(c *gin.Context) {
	out, err := h.reviews.Approved(c.Request.Context(), queryLimit(c, 0))
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "api: list reviews", "error", err)
		httperr.Unavailable(c, "reviews_list_failed", httperr.Message(err))
		return
	}
	httpresp.List(c, out)
}

// queryLimit reads ?limit=, capped at 100. Zero means no limit.
func queryLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return def
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}
