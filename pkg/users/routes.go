package users

import (
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	users := e.Group("/users")
	users.Use(authMiddleware.Authenticate)

	read := authMiddleware.RequirePermission(models.ResourceUsers, models.OperationRead)
	write := authMiddleware.RequirePermission(models.ResourceUsers, models.OperationWrite)

	users.GET("", h.list, read)
	users.GET("/roles", h.roles, read)
	users.GET("/:id", h.retrieve, read)
	users.POST("", h.create, write)
	users.PATCH("/:id", h.update, write)
	users.DELETE("/:id", h.deactivate, write)

	// Checked in the handler: self-service or users:write.
	users.POST("/:id/reset-password", h.resetPassword)

	return userService
}
