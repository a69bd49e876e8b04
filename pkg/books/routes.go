package books

import (
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the book views on the catalog group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		bookService: NewService(db),
	}

	g.GET("/books", h.list, authMiddleware.LoginRequired)
	g.GET("/book/:id", h.retrieve, authMiddleware.LoginRequired)
}
