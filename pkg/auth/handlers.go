package auth

import (
	"net/http"
	"strings"

	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const CookieName = "local_library_session"

type handler struct {
	authService *Service
}

func buildMeResponse(user *models.User) MeResponse {
	permissions := make([]string, 0)
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
		for _, p := range user.Role.Permissions {
			permissions = append(permissions, p.Codename())
		}
	}

	return MeResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		RoleID:      user.RoleID,
		RoleName:    roleName,
		Permissions: permissions,
		IsStaff:     user.IsStaff(),
	}
}

func sessionCookie(c echo.Context, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	}
}

// safeNext only allows redirects to paths on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}

// loginForm describes the login endpoint to clients that were redirected
// here by LoginRequired.
func (h *handler) loginForm(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, LoginFormResponse{
		Message: "Authentication required",
		Next:    safeNext(c.QueryParam("next")),
		Fields:  []string{"username", "password", "next"},
	}))
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	c.SetCookie(sessionCookie(c, token, int(TokenExpiry.Seconds())))

	resp := buildMeResponse(user)
	resp.Next = safeNext(params.Next)
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) logout(c echo.Context) error {
	c.SetCookie(sessionCookie(c, "", -1))
	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"}))
}

func (h *handler) me(c echo.Context) error {
	user := UserFromContext(c)
	if user == nil {
		return errors.WithStack(c.JSON(http.StatusUnauthorized, map[string]string{"error": "Not authenticated"}))
	}
	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(user)))
}

// status reports whether the first admin still has to be created.
func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.authService.CountUsers(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, StatusResponse{
		NeedsSetup: count == 0,
	}))
}

func (h *handler) setup(c echo.Context) error {
	ctx := c.Request().Context()

	params := SetupPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.CreateFirstAdmin(ctx, params.Username, params.Email, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	c.SetCookie(sessionCookie(c, token, int(TokenExpiry.Seconds())))

	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(user)))
}
