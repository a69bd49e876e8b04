package authors

import (
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the author views on the catalog group.
// The list needs a login; an author's page is public.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		authorService: NewService(db),
	}

	g.GET("/authors", h.list, authMiddleware.LoginRequired)
	g.GET("/author/:id", h.retrieve, authMiddleware.AuthenticateOptional)
}
