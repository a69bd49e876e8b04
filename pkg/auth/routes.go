package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts /auth and returns the middleware guarding the rest
// of the API.
func RegisterRoutes(e *echo.Echo, db *bun.DB, jwtSecret, loginURL string) *Middleware {
	authService := NewService(db, jwtSecret)
	authMiddleware := NewMiddleware(authService, loginURL)

	h := &handler{
		authService: authService,
	}

	g := e.Group("/auth")
	g.GET("/login", h.loginForm)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/status", h.status)
	g.POST("/setup", h.setup)
	g.GET("/me", h.me, authMiddleware.AuthenticateOptional)

	return authMiddleware
}
