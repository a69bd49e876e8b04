package admin

import (
	"net/http"

	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type handler struct {
	db   *bun.DB
	site *Site
}

type IndexResponse struct {
	Models []Description `json:"models"`
}

func (h *handler) index(c echo.Context) error {
	return errors.WithStack(c.JSON(http.StatusOK, IndexResponse{Models: h.site.Models()}))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	e, err := h.site.lookup(c.Param("model"))
	if err != nil {
		return err
	}

	params := ListParams{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	cl, err := e.changeList(ctx, h.db, params)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, cl))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	e, err := h.site.lookup(c.Param("model"))
	if err != nil {
		return err
	}

	d, err := e.detail(ctx, h.db, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, d))
}

func (h *handler) create(c echo.Context) error {
	return h.save(c, "", http.StatusCreated)
}

func (h *handler) update(c echo.Context) error {
	return h.save(c, c.Param("id"), http.StatusOK)
}

// save writes the record, then answers with its refreshed change form.
func (h *handler) save(c echo.Context, id string, status int) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	model := c.Param("model")
	e, err := h.site.lookup(model)
	if err != nil {
		return err
	}

	savedID, err := e.write(c, h.db, id)
	if err != nil {
		return errors.WithStack(err)
	}
	log.Info("admin change saved", logger.Data{"model": model, "id": savedID, "user_id": userID(c)})

	d, err := e.detail(ctx, h.db, savedID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(status, d))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	model := c.Param("model")
	e, err := h.site.lookup(model)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if err := e.delete(ctx, h.db, id); err != nil {
		return errors.WithStack(err)
	}
	log.Info("admin record deleted", logger.Data{"model": model, "id": id, "user_id": userID(c)})

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func userID(c echo.Context) int {
	if user := auth.UserFromContext(c); user != nil {
		return user.ID
	}
	return 0
}
