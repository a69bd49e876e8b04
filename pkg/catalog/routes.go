package catalog

import (
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/authors"
	"github.com/HarishV14/Local-library/pkg/books"
	"github.com/HarishV14/Local-library/pkg/genres"
	"github.com/HarishV14/Local-library/pkg/languages"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/HarishV14/Local-library/pkg/visits"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes mounts the home page and every catalog view under
// /catalog, and sends the site root to the home page.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware, counter visits.Counter) {
	h := &handler{
		catalogService: NewService(db),
		counter:        counter,
	}

	e.GET("/", redirectToIndex)

	g := e.Group("/catalog")
	g.GET("", redirectToIndex)
	g.GET("/", h.index, authMiddleware.LoginRequired)

	books.RegisterRoutesWithGroup(g, db, authMiddleware)
	authors.RegisterRoutesWithGroup(g, db, authMiddleware)
	loans.RegisterRoutesWithGroup(g, db, authMiddleware)

	read := authMiddleware.RequirePermission(models.ResourceCatalog, models.OperationRead)

	genresGroup := g.Group("/genres")
	genresGroup.Use(authMiddleware.LoginRequired)
	genresGroup.Use(read)
	genres.RegisterRoutesWithGroup(genresGroup, db, authMiddleware)

	languagesGroup := g.Group("/languages")
	languagesGroup.Use(authMiddleware.LoginRequired)
	languagesGroup.Use(read)
	languages.RegisterRoutesWithGroup(languagesGroup, db, authMiddleware)
}
