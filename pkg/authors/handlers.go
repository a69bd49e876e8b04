package authors

import (
	"net/http"
	"strconv"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/HarishV14/Local-library/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PerPage is the page size of the author list view.
const PerPage = 2

// Item is an author as rendered by the catalog views.
type Item struct {
	*models.Author
	Display string     `json:"display"`
	URL     string     `json:"url"`
	Books   []BookLink `json:"books,omitempty"`
}

// BookLink is a book listed on its author's page.
type BookLink struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	URL     string `json:"url"`
}

func NewItem(author *models.Author) Item {
	item := Item{
		Author:  author,
		Display: author.String(),
		URL:     author.AbsoluteURL(),
	}
	for _, b := range author.Books {
		item.Books = append(item.Books, BookLink{
			ID:      b.ID,
			Title:   b.Title,
			Summary: b.Summary,
			URL:     b.AbsoluteURL(),
		})
	}
	return item
}

type handler struct {
	authorService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := PerPage
	offset := (params.Page - 1) * PerPage
	authors, total, err := h.authorService.ListAuthorsWithTotal(ctx, ListAuthorsOptions{
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	page, err := pagination.Paginate(params.Page, PerPage, total)
	if err != nil {
		return err
	}

	items := make([]Item, len(authors))
	for i, a := range authors {
		items[i] = NewItem(a)
	}

	return errors.WithStack(c.JSON(http.StatusOK, pagination.NewResponse(page, items)))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Author")
	}

	author, err := h.authorService.RetrieveAuthor(ctx, RetrieveAuthorOptions{
		ID:        &id,
		WithBooks: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewItem(author)))
}
