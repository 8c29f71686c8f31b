// Package session carries the admin identity and one-shot flash messages
// between requests in two signed cookies.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName      = "session"
	FlashCookieName = "flash"

	FlashSuccess = "success"
	FlashError   = "error"

	contextKey = "session"
	flashTTL   = 5 * time.Minute
)

type Flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

type flashClaims struct {
	Flashes []Flash `json:"f"`
	jwt.RegisteredClaims
}

// ======================================================
// MANAGER
// ======================================================

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Middleware loads the session for the request and makes it available
// through From.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := &Context{m: m, c: c}

		if raw, err := c.Cookie(CookieName); err == nil && raw != "" {
			if id, err := m.parseSession(raw); err == nil {
				s.AdminID = id
			}
		}
		if raw, err := c.Cookie(FlashCookieName); err == nil && raw != "" {
			if flashes, err := m.parseFlashes(raw); err == nil {
				s.incoming = flashes
			}
		}

		c.Set(contextKey, s)
		c.Next()
	}
}

func (m *Manager) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenMalformed
	}
	return m.secret, nil
}

func (m *Manager) signSession(adminID string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   adminID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parseSession(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, m.keyFunc)
	if err != nil || !token.Valid {
		return "", errors.New("session: invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("session: missing subject")
	}
	return claims.Subject, nil
}

func (m *Manager) signFlashes(flashes []Flash, now time.Time) (string, error) {
	claims := flashClaims{
		Flashes: flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parseFlashes(raw string) ([]Flash, error) {
	var claims flashClaims
	token, err := jwt.ParseWithClaims(raw, &claims, m.keyFunc)
	if err != nil || !token.Valid {
		return nil, errors.New("session: invalid flash token")
	}
	return claims.Flashes, nil
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}

// ======================================================
// PER-REQUEST CONTEXT
// ======================================================

// Context is the session of one request. Flashes added here are delivered
// to the next request that reads them.
type Context struct {
	AdminID string

	m        *Manager
	c        *gin.Context
	incoming []Flash
	outgoing []Flash
}

// From returns the request's session. Without the middleware it returns an
// empty, unauthenticated session whose writes are dropped.
func From(c *gin.Context) *Context {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Context); ok {
			return s
		}
	}
	return &Context{c: c}
}

func (s *Context) IsAdmin() bool {
	return s.AdminID != ""
}

func (s *Context) Login(adminID string) error {
	if s.m == nil {
		return errors.New("session: manager not installed")
	}
	token, err := s.m.signSession(adminID, time.Now())
	if err != nil {
		return err
	}
	s.AdminID = adminID
	s.m.setCookie(s.c, CookieName, token, int(s.m.ttl.Seconds()))
	return nil
}

func (s *Context) Logout() {
	s.AdminID = ""
	if s.m != nil {
		s.m.setCookie(s.c, CookieName, "", -1)
	}
}

// AddFlash queues a message for the next page view.
func (s *Context) AddFlash(kind, message string) {
	s.outgoing = append(s.outgoing, Flash{Kind: kind, Message: message})
	if s.m == nil {
		return
	}
	token, err := s.m.signFlashes(s.outgoing, time.Now())
	if err != nil {
		return
	}
	s.m.setCookie(s.c, FlashCookieName, token, int(flashTTL.Seconds()))
}

// Flashes holds delivered messages grouped by kind.
type Flashes struct {
	Success []string
	Error   []string
}

// TakeFlashes returns the messages delivered with this request and clears
// them so they show only once.
func (s *Context) TakeFlashes() Flashes {
	var out Flashes
	for _, f := range s.incoming {
		switch f.Kind {
		case FlashSuccess:
			out.Success = append(out.Success, f.Message)
		default:
			out.Error = append(out.Error, f.Message)
		}
	}
	if len(s.incoming) > 0 && len(s.outgoing) == 0 && s.m != nil {
		s.m.setCookie(s.c, FlashCookieName, "", -1)
	}
	s.incoming = nil
	return out
}
