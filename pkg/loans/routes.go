package loans

import (
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers the borrowed-book views on the catalog
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		loanService: NewService(db),
	}

	g.GET("/mybooks", h.myBooks, authMiddleware.LoginRequired)
	g.GET("/borrowed", h.borrowed,
		authMiddleware.LoginRequired,
		authMiddleware.RequirePermission(models.ResourceLoans, models.OperationWrite),
	)
}
