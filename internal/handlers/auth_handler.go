package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	"github.com/BruksfildServices01/barbershop-site/internal/httperr"
	"github.com/BruksfildServices01/barbershop-site/internal/models"
	"github.com/BruksfildServices01/barbershop-site/internal/session"
)

const msgLoginFailed = "Login error. Please try again."

// AdminFinder looks up an admin account. A missing account is (nil, nil).
type AdminFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type AuthHandler struct {
	admins AdminFinder
	view   *View
	audit  *audit.Dispatcher
	log    *slog.Logger
}

func NewAuthHandler(admins AdminFinder, view *View, audit *audit.Dispatcher, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		admins: admins,
		view:   view,
		audit:  audit,
		log:    log,
	}
}

type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if session.From(c).IsAdmin() {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	h.view.Render(c, http.StatusOK, "admin_login.html", "Admin Login", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	sess := session.From(c)

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.WarnContext(c.Request.Context(), "admin login: bad form", "error", err)
		sess.AddFlash(session.FlashError, httperr.Message(httperr.ErrBusiness(httperr.CodeInvalidCredentials)))
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := h.admins.FindByEmail(c.Request.Context(), email)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "admin login", "error", err)
		sess.AddFlash(session.FlashError, msgLoginFailed)
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}

	if admin == nil || bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		h.log.InfoContext(c.Request.Context(), "admin login rejected", "email", email)
		sess.AddFlash(session.FlashError, httperr.Message(httperr.ErrBusiness(httperr.CodeInvalidCredentials)))
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}

	if err := sess.Login(admin.ID); err != nil {
		h.log.ErrorContext(c.Request.Context(), "admin login: session", "error", err)
		sess.AddFlash(session.FlashError, msgLoginFailed)
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}

	writeAudit(h.audit, admin.ID, "admin_login", "admin", admin.ID, nil)

	c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := session.From(c)
	if sess.IsAdmin() {
		writeAudit(h.audit, sess.AdminID, "admin_logout", "admin", sess.AdminID, nil)
	}
	sess.Logout()
	c.Redirect(http.StatusSeeOther, "/admin/login")
}
