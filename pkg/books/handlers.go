package books

import (
	"net/http"
	"strconv"
	"time"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/HarishV14/Local-library/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PerPage is the page size of the book list view.
const PerPage = 2

// Item is a book as rendered by the catalog views.
type Item struct {
	*models.Book
	Author       *AuthorRef   `json:"author,omitempty"`
	Genres       []GenreRef   `json:"genres"`
	Instances    []loans.Item `json:"instances,omitempty"`
	Display      string       `json:"display"`
	DisplayGenre string       `json:"display_genre"`
	URL          string       `json:"url"`
}

type AuthorRef struct {
	ID      int    `json:"id"`
	Display string `json:"display"`
	URL     string `json:"url"`
}

type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func NewItem(book *models.Book, now time.Time) Item {
	item := Item{
		Book:         book,
		Genres:       []GenreRef{},
		Display:      book.String(),
		DisplayGenre: book.DisplayGenre(),
		URL:          book.AbsoluteURL(),
	}
	if a := book.Author; a != nil {
		item.Author = &AuthorRef{ID: a.ID, Display: a.String(), URL: a.AbsoluteURL()}
	}
	for _, g := range book.Genres() {
		item.Genres = append(item.Genres, GenreRef{ID: g.ID, Name: g.Name})
	}
	for _, bi := range book.Instances {
		if bi.Book == nil {
			bi.Book = book
		}
		item.Instances = append(item.Instances, loans.NewItem(bi, now))
	}
	return item
}

type handler struct {
	bookService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := PerPage
	offset := (params.Page - 1) * PerPage
	books, total, err := h.bookService.ListBooksWithTotal(ctx, ListBooksOptions{
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

	now := time.Now()
	items := make([]Item, len(books))
	for i, b := range books {
		items[i] = NewItem(b, now)
	}

	return errors.WithStack(c.JSON(http.StatusOK, pagination.NewResponse(page, items)))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book")
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		ID:            &id,
		WithInstances: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, NewItem(book, time.Now())))
}
