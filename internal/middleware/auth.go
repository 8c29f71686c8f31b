package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-site/internal/session"
)

const ContextAdminID = "adminID"

// RequireAdmin lets signed-in admins through and sends everyone else to the
// login page with a flash message.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.From(c)
		if !sess.IsAdmin() {
			sess.AddFlash(session.FlashError, "Please log in to access this page")
			c.Redirect(http.StatusSeeOther, "/admin/login")
			c.Abort()
			return
		}

		c.Set(ContextAdminID, sess.AdminID)
		c.Next()
	}
}
