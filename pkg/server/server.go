package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/HarishV14/Local-library/pkg/admin"
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/binder"
	"github.com/HarishV14/Local-library/pkg/catalog"
	"github.com/HarishV14/Local-library/pkg/config"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/testutils"
	"github.com/HarishV14/Local-library/pkg/users"
	"github.com/HarishV14/Local-library/pkg/visits"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, counter visits.Counter) (*http.Server, error) {
	e, err := NewEcho(cfg, db, counter)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

// NewEcho builds the router with every route mounted.
func NewEcho(cfg *config.Config, db *bun.DB, counter visits.Counter) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b
	e.JSONSerializer = &jsonSerializer{}

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)

	authMiddleware := auth.RegisterRoutes(e, db, cfg.JWTSecret, cfg.LoginURL)
	users.RegisterRoutes(e, db, authMiddleware)
	catalog.RegisterRoutes(e, db, authMiddleware, counter)
	admin.RegisterRoutes(e, db, authMiddleware)

	if cfg.Environment == "test" {
		testutils.RegisterRoutes(e, db)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
