package languages

import (
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers language routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		languageService: NewService(db),
	}

	write := authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationWrite)

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, write)
	g.PUT("/:id", h.update, write)
	g.DELETE("/:id", h.deleteLanguage, write)
}
