package languages

import (
	"net/http"
	"strconv"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	languageService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLanguagesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	languages, total, err := h.languageService.ListLanguagesWithTotal(ctx, ListLanguagesOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if languages == nil {
		languages = []*models.Language{}
	}

	response := map[string]any{
		"languages": languages,
		"total":     total,
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	language, err := h.languageService.RetrieveLanguage(ctx, RetrieveLanguageOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := LanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language := &models.Language{Name: params.Name}
	if err := h.languageService.CreateLanguage(ctx, language); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, language))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	params := LanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language, err := h.languageService.RetrieveLanguage(ctx, RetrieveLanguageOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	language.Name = params.Name
	err = h.languageService.UpdateLanguage(ctx, language, UpdateLanguageOptions{Columns: []string{"name"}})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) deleteLanguage(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	if err := h.languageService.DeleteLanguage(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}
