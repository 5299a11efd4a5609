// Package http exposes admin login, logout and the session guard over gin.
package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/husnhira/storefront/internal/domains/admin/application"
	"github.com/husnhira/storefront/internal/domains/admin/domain"
	"github.com/husnhira/storefront/internal/domains/admin/ports"
	apierrors "github.com/husnhira/storefront/internal/shared/errors"
	"github.com/husnhira/storefront/internal/shared/httpx"
)

const (
	// CookieName carries the signed session token.
	CookieName = "hh_admin_session"
	// BasePath is where the admin portal is mounted.
	BasePath = "/admin-portal-1024"
	// LoginPath serves the login form and accepts credentials.
	LoginPath = BasePath + "/login-secret"
	// DashboardPath is the landing page after login.
	DashboardPath = BasePath + "/dashboard"

	sessionContextKey = "admin.session"
)

// Policy decides how the guard answers unauthenticated requests.
type Policy int

const (
	// RedirectToLogin sends browsers to LoginPath; JSON clients still get 401.
	RedirectToLogin Policy = iota
	// RespondUnauthorized always answers 401.
	RespondUnauthorized
)

// Handler serves the admin authentication routes.
type Handler struct {
	service      ports.Service
	responder    *apierrors.ChainedResponder
	secureCookie bool
}

type Option func(*Handler)

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(h *Handler) {
		h.secureCookie = secure
	}
}

func NewHandler(service ports.Service, opts ...Option) *Handler {
	h := &Handler{
		service:   service,
		responder: apierrors.NewChainedResponder(mapError),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

func mapError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return apierrors.ErrUnauthorized.WithMsg("Invalid credentials"), true
	case errors.Is(err, application.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithMsg("Please log in"), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}

// Register mounts the unguarded login and logout routes on the admin group.
// loginMiddleware runs before credential checks, typically a rate limiter.
func (h *Handler) Register(group gin.IRoutes, loginMiddleware ...gin.HandlerFunc) {
	group.GET("/login-secret", h.LoginPage)
	group.POST("/login-secret", append(append([]gin.HandlerFunc{}, loginMiddleware...), h.Login)...)
	group.GET("/logout", h.Logout)
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginPage returns the login view model, or skips to the dashboard when already signed in.
func (h *Handler) LoginPage(c *gin.Context) {
	if token := tokenFrom(c); token != "" {
		if _, err := h.service.Authenticate(c.Request.Context(), token); err == nil {
			c.Redirect(http.StatusSeeOther, DashboardPath)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"view": "login", "error": nil})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.responder.RespondError(c, application.ErrInvalidCredentials)
		return
	}
	token, session, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	h.setCookie(c, token, time.Until(session.ExpiresAt))
	if httpx.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "msg": "Logged in", "expiresAt": session.ExpiresAt})
		return
	}
	c.Redirect(http.StatusSeeOther, DashboardPath)
}

func (h *Handler) Logout(c *gin.Context) {
	if token := tokenFrom(c); token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			h.responder.RespondError(c, err)
			return
		}
	}
	h.setCookie(c, "", -1)
	if httpx.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true, "msg": "Logged out"})
		return
	}
	c.Redirect(http.StatusSeeOther, LoginPath)
}

// Guard admits only requests carrying a live session.
func (h *Handler) Guard(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := h.service.Authenticate(c.Request.Context(), tokenFrom(c))
		if err != nil {
			if policy == RedirectToLogin && !httpx.WantsJSON(c) && errors.Is(err, application.ErrUnauthenticated) {
				c.Redirect(http.StatusSeeOther, LoginPath)
				c.Abort()
				return
			}
			h.responder.RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFrom returns the session the guard attached to c.
func SessionFrom(c *gin.Context) (*domain.Session, bool) {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*domain.Session)
	return session, ok
}

func (h *Handler) setCookie(c *gin.Context, token string, maxAge time.Duration) {
	seconds := int(maxAge.Seconds())
	if maxAge < 0 {
		seconds = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, seconds, BasePath, "", h.secureCookie, true)
}

// tokenFrom reads the session cookie, falling back to a bearer header for API clients.
func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
