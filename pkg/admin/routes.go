package admin

import (
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts the back office under /admin. Every page requires
// a signed in user allowed to edit the catalog.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		db:   db,
		site: NewSite(),
	}

	g := e.Group("/admin")
	g.Use(authMiddleware.LoginRequired)
	g.Use(authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationWrite))

	g.GET("", h.index)
	g.GET("/:model", h.list)
	g.POST("/:model", h.create)
	g.GET("/:model/:id", h.retrieve)
	g.PATCH("/:model/:id", h.update)
	g.DELETE("/:model/:id", h.delete)
}
