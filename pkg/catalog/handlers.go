package catalog

import (
	"net/http"

	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/visits"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// IndexResponse is the home page context.
type IndexResponse struct {
	Counts
	NumVisits int `json:"num_visits"`
}

type handler struct {
	catalogService *Service
	counter        visits.Counter
}

func (h *handler) index(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.catalogService.Counts(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	sessionID, ok := auth.SessionIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}
	numVisits, err := h.counter.Increment(ctx, sessionID)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Debug("catalog index", logger.Data{"num_visits": numVisits})

	return errors.WithStack(c.JSON(http.StatusOK, IndexResponse{
		Counts:    counts,
		NumVisits: numVisits,
	}))
}

func redirectToIndex(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/catalog/")
}
