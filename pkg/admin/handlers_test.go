package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/HarishV14/Local-library/internal/testgen"
	"github.com/HarishV14/Local-library/pkg/books"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type changeListResponse struct {
	Total   int `json:"total"`
	Filters []struct {
		Name     string `json:"name"`
		Selected string `json:"selected"`
	} `json:"filters"`
	Results []Row `json:"results"`
}

func newHandler(db *bun.DB) *handler {
	return &handler{db: db, site: NewSite()}
}

func newContext(t *testing.T, method, target, payload string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := testgen.NewContext(t, method, target, payload)
	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHandlerList_Books(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	author := testgen.CreateAuthor(t, db, "Ursula", "Le Guin")
	fantasy := testgen.CreateGenre(t, db, "Fantasy")
	scifi := testgen.CreateGenre(t, db, "Science Fiction")
	testgen.CreateBook(t, db, "The Dispossessed", author, scifi)
	testgen.CreateBook(t, db, "A Wizard of Earthsea", author, fantasy, scifi)

	c, rec := newContext(t, http.MethodGet, "/admin/book?q=wizard", "", "model", "book")
	require.NoError(t, h.list(c))

	resp := decode[changeListResponse](t, rec)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	row := resp.Results[0]
	assert.Equal(t, "A Wizard of Earthsea", row.Display)
	assert.Equal(t, "/admin/book/"+row.ID, row.URL)
	assert.Equal(t, "Le Guin, Ursula", row.Values["author"])
	assert.Equal(t, "Fantasy, Science Fiction", row.Values["display_genre"])
}

func TestHandlerList_InstanceFilters(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	book := testgen.CreateBook(t, db, "Kindred", nil)
	onLoan := testgen.CreateInstance(t, db, book, testgen.InstanceOptions{
		Status:  models.LoanStatusOnLoan,
		DueBack: testgen.DaysFromToday(0),
	})
	testgen.CreateInstance(t, db, book, testgen.InstanceOptions{
		Status:  models.LoanStatusOnLoan,
		DueBack: testgen.DaysFromToday(-30),
	})
	testgen.CreateInstance(t, db, book, testgen.InstanceOptions{})

	c, rec := newContext(t, http.MethodGet, "/admin/bookinstance?status=on_loan&due_back=today", "", "model", "bookinstance")
	require.NoError(t, h.list(c))

	resp := decode[changeListResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, onLoan.ID.String(), resp.Results[0].ID)
	assert.Equal(t, "On loan", resp.Results[0].Values["status"])
	assert.Equal(t, "Kindred", resp.Results[0].Values["book"])
	require.Len(t, resp.Filters, 2)
	assert.Equal(t, "on_loan", resp.Filters[0].Selected)
	assert.Equal(t, "today", resp.Filters[1].Selected)

	c, rec = newContext(t, http.MethodGet, "/admin/bookinstance?due_back=no_date", "", "model", "bookinstance")
	require.NoError(t, h.list(c))
	resp = decode[changeListResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Nil(t, resp.Results[0].Values["due_back"])
}

func TestHandlerList_FilterNotOffered(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	c, _ := newContext(t, http.MethodGet, "/admin/author?status=on_loan", "", "model", "author")
	assert.ErrorIs(t, h.list(c), errcodes.UnknownParameter("status"))

	c, _ = newContext(t, http.MethodGet, "/admin/publisher", "", "model", "publisher")
	assert.ErrorIs(t, h.list(c), errcodes.NotFound("Model"))
}

func TestHandlerRetrieve_Instance(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	book := testgen.CreateBook(t, db, "Kindred", nil)
	bi := testgen.CreateInstance(t, db, book, testgen.InstanceOptions{Status: models.LoanStatusReserved})

	c, rec := newContext(t, http.MethodGet, "/", "", "model", "bookinstance", "id", bi.ID.String())
	require.NoError(t, h.retrieve(c))

	d := decode[Detail](t, rec)
	assert.Equal(t, fmt.Sprintf("%s (Kindred)", bi.ID), d.Display)
	require.Len(t, d.Fieldsets, 2)
	imprint := d.Fieldsets[0].Rows[1][0]
	assert.Equal(t, "imprint", imprint.Name)
	assert.Equal(t, 200, imprint.MaxLength)
	assert.True(t, imprint.Required)
	assert.Equal(t, "reserved", d.Fieldsets[1].Rows[0][0].Value)
}

func TestHandlerCreate_BookWithInstances(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	author := testgen.CreateAuthor(t, db, "Frank", "Herbert")
	english := testgen.CreateLanguage(t, db, "English")
	scifi := testgen.CreateGenre(t, db, "Science Fiction")

	payload := fmt.Sprintf(`{
		"title": "Dune",
		"author_id": %d,
		"summary": "<p>Spice <b>must</b> flow.</p>",
		"isbn": "9780441013593",
		"language_id": %d,
		"genre": [%d],
		"instances": [
			{"imprint": "Ace, 1990", "status": "o", "due_back": "2030-01-01"},
			{"imprint": "Chilton, 1965"}
		]
	}`, author.ID, english.ID, scifi.ID)
	c, rec := newContext(t, http.MethodPost, "/admin/book", payload, "model", "book")
	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	d := decode[Detail](t, rec)
	assert.Equal(t, "Dune", d.Display)
	require.Len(t, d.Inlines, 1)
	require.Len(t, d.Inlines[0].Rows, 2)

	id, err := strconv.Atoi(d.ID)
	require.NoError(t, err)
	book, err := books.NewService(db).RetrieveBook(context.Background(), books.RetrieveBookOptions{ID: &id, WithInstances: true})
	require.NoError(t, err)
	assert.Equal(t, "Spice must flow.", book.Summary)
	assert.Equal(t, "Science Fiction", book.DisplayGenre())
	require.Len(t, book.Instances, 2)
	assert.Equal(t, models.LoanStatusOnLoan, book.Instances[0].Status)
	assert.Equal(t, models.LoanStatusMaintenance, book.Instances[1].Status)
}

func TestHandlerCreate_RollsBackOnInvalidInline(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	payload := `{
		"title": "Dune",
		"summary": "Spice",
		"isbn": "9780441013593",
		"instances": [{"status": "available"}]
	}`
	c, _ := newContext(t, http.MethodPost, "/admin/book", payload, "model", "book")
	err := h.create(c)
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*errcodes.Error))

	count, err := books.NewService(db).CountBooks(context.Background(), books.CountBooksOptions{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandlerUpdate_Author(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	author := testgen.CreateAuthor(t, db, "Octavia", "Butler")
	kindred := testgen.CreateBook(t, db, "Kindred", author)
	dawn := testgen.CreateBook(t, db, "Dawn", author)

	payload := fmt.Sprintf(`{
		"date_of_birth": "1947-06-22",
		"books": [
			{"id": %d, "title": "Kindred (25th anniversary)"},
			{"id": %d, "delete": true},
			{"title": "Parable of the Sower", "summary": "Lauren Olamina", "isbn": "9780446675505"}
		]
	}`, kindred.ID, dawn.ID)
	c, rec := newContext(t, http.MethodPatch, "/", payload, "model", "author", "id", strconv.Itoa(author.ID))
	require.NoError(t, h.update(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	d := decode[Detail](t, rec)
	assert.Equal(t, "Butler, Octavia", d.Display)
	dates := d.Fieldsets[0].Rows[2]
	assert.Equal(t, "1947-06-22", dates[0].Value)
	assert.Nil(t, dates[1].Value)

	titles := []any{}
	for _, row := range d.Inlines[0].Rows {
		titles = append(titles, row.Values["title"])
	}
	assert.ElementsMatch(t, []any{"Kindred (25th anniversary)", "Parable of the Sower"}, titles)
}

func TestHandlerUpdate_InstanceClearsDueBack(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	user := testgen.CreateUser(t, db, "patron", models.RoleMember)
	book := testgen.CreateBook(t, db, "Kindred", nil)
	bi := testgen.CreateInstance(t, db, book, testgen.InstanceOptions{
		Status:   models.LoanStatusOnLoan,
		DueBack:  testgen.DaysFromToday(7),
		Borrower: user,
	})

	payload := `{"status": "available", "due_back": "", "borrower_id": 0}`
	c, _ := newContext(t, http.MethodPatch, "/", payload, "model", "bookinstance", "id", bi.ID.String())
	require.NoError(t, h.update(c))

	got, err := loans.NewService(db).RetrieveInstance(context.Background(), loans.RetrieveInstanceOptions{ID: &bi.ID})
	require.NoError(t, err)
	assert.Equal(t, models.LoanStatusAvailable, got.Status)
	assert.Nil(t, got.DueBack)
	assert.Nil(t, got.BorrowerID)
	assert.Equal(t, bi.Imprint, got.Imprint)
}

func TestHandlerDelete(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := newHandler(db)

	book := testgen.CreateBook(t, db, "Kindred", nil)
	testgen.CreateInstance(t, db, book, testgen.InstanceOptions{})

	c, _ := newContext(t, http.MethodDelete, "/", "", "model", "book", "id", strconv.Itoa(book.ID))
	err := h.delete(c)
	var e *errcodes.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "conflict", e.Code)

	genre := testgen.CreateGenre(t, db, "Horror")
	c, rec := newContext(t, http.MethodDelete, "/", "", "model", "genre", "id", strconv.Itoa(genre.ID))
	require.NoError(t, h.delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, _ = newContext(t, http.MethodGet, "/", "", "model", "genre", "id", strconv.Itoa(genre.ID))
	assert.ErrorIs(t, h.retrieve(c), errcodes.NotFound("Genre"))
}
