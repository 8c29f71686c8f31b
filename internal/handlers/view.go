package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/session"
)

// Services offered on the site and in the booking form.
var Services = []string{
	"Classic Haircut",
	"Skin Fade",
	"Beard Trim",
	"Haircut & Beard",
	"Hot Towel Shave",
	"Kids Cut",
}

// TimeSlots are the half-hour starts shown in the booking form.
var TimeSlots = func() []string {
	var out []string
	for h := 9; h < 19; h++ {
		for _, m := range []string{"00", "30"} {
			out = append(out, fmt.Sprintf("%02d:%s", h, m))
		}
	}
	return out
}()

// ======================================================
// VIEW
// ======================================================

// View renders the HTML pages with the data every page shares.
type View struct {
	shop string
	log  *slog.Logger
}

func NewView(shop string, log *slog.Logger) *View {
	return &View{shop: shop, log: log}
}

func (v *View) Render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	sess := session.From(c)

	data["Title"] = title
	data["ShopName"] = v.shop
	data["IsAdmin"] = sess.IsAdmin()
	data["Flash"] = sess.TakeFlashes()

	c.HTML(status, name, data)
}

// Fail logs err and shows the error page. Store failures get 503 so clients
// know to retry.
func (v *View) Fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	if httperr.IsStore(err) {
		status = http.StatusServiceUnavailable
	}
	v.log.ErrorContext(c.Request.Context(), op, "error", err, "path", c.FullPath())

	v.Render(c, status, "error.html", "Server Error", gin.H{
		"Message": httperr.Message(err),
	})
}

// NotFound is the fallback for unknown routes.
func (v *View) NotFound(c *gin.Context) {
	v.Render(c, http.StatusNotFound, "error.html", "Page Not Found", gin.H{
		"Message": "The page you are looking for does not exist.",
	})
}
