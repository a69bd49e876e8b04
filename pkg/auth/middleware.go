package auth

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/robinjoseph08/golib/logger"
)

// Echo context keys set by the authentication middleware.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "user"
	ContextKeySessionID = "session_id"
)

type Middleware struct {
	authService *Service
	loginURL    string
}

// NewMiddleware builds the auth middleware. Unauthenticated browser requests
// to login-only routes are redirected to loginURL.
func NewMiddleware(authService *Service, loginURL string) *Middleware {
	return &Middleware{
		authService: authService,
		loginURL:    loginURL,
	}
}

// Authenticate requires a valid session (cookie or HTTP Basic credentials)
// and returns 401 otherwise.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.resolve(c); err != nil {
			return err
		}
		return next(c)
	}
}

// AuthenticateOptional resolves the caller when credentials are present and
// lets anonymous requests through.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		_ = m.resolve(c)
		return next(c)
	}
}

// LoginRequired redirects anonymous callers to the login URL with the
// original request URI in the next parameter.
func (m *Middleware) LoginRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.resolve(c); err != nil {
			logger.FromContext(c.Request().Context()).Debug("redirecting to login", logger.Data{"path": c.Request().URL.Path})
			return c.Redirect(http.StatusFound, m.LoginRedirectURL(c.Request().RequestURI))
		}
		return next(c)
	}
}

// LoginRedirectURL is the login URL carrying next as the return location.
func (m *Middleware) LoginRedirectURL(next string) string {
	return m.loginURL + "?next=" + url.QueryEscape(next)
}

// RequirePermission returns 403 when the caller's role lacks the
// permission. It must run after Authenticate or LoginRequired.
func (m *Middleware) RequirePermission(resource, operation string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(ContextKeyUser).(*models.User)
			if !ok {
				return errcodes.Unauthorized("Authentication required")
			}

			if !user.HasPermission(resource, operation) {
				return errcodes.PermissionDenied(resource + ":" + operation)
			}

			return next(c)
		}
	}
}

func (m *Middleware) resolve(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		claims, err := m.authService.ValidateToken(cookie.Value)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}
		user, err := m.authService.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return errcodes.Unauthorized("User not found or inactive")
		}
		setUser(c, user, claims.ID)
		return nil
	}

	if username, password, ok := c.Request().BasicAuth(); ok {
		user, err := m.authService.Authenticate(ctx, username, password)
		if err != nil {
			return err
		}
		// Basic auth has no session, so visits are counted per user.
		setUser(c, user, "basic:"+strconv.Itoa(user.ID))
		return nil
	}

	return errcodes.Unauthorized("Authentication required")
}

func setUser(c echo.Context, user *models.User, sessionID string) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyUser, user)
	c.Set(ContextKeySessionID, sessionID)
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(ContextKeyUser).(*models.User)
	return user
}

// SessionIDFromContext returns the caller's session id.
func SessionIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(ContextKeySessionID).(string)
	return id, ok && id != ""
}
