package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/HarishV14/Local-library/internal/testgen"
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/HarishV14/Local-library/pkg/visits"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testServer struct {
	e           *echo.Echo
	db          *bun.DB
	authService *auth.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testgen.NewDB(t)
	e := testgen.NewEcho(t)
	authService := auth.NewService(db, "test-secret")
	RegisterRoutes(e, db, auth.NewMiddleware(authService, "/auth/login"), visits.NewDBCounter(db))

	return &testServer{e, db, authService}
}

func (ts *testServer) get(t *testing.T, target string, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if user != nil {
		token, err := ts.authService.GenerateToken(user)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func TestIndex_RedirectsAnonymousToLogin(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.get(t, "/catalog/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fcatalog%2F", rec.Header().Get(echo.HeaderLocation))

	rec = ts.get(t, "/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/", rec.Header().Get(echo.HeaderLocation))
}

func TestIndex_CountsAndVisits(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	db := ts.db

	member := testgen.CreateUser(t, db, "member1", models.RoleMember)
	author := testgen.CreateAuthor(t, db, "Bob", "Big")
	testgen.CreateAuthor(t, db, "Ann", "Other")
	fiction := testgen.CreateGenre(t, db, "Fiction")
	testgen.CreateGenre(t, db, "Poetry")
	hobbit := testgen.CreateBook(t, db, "The Hobbit", author, fiction)
	testgen.CreateBook(t, db, "Dune", author)
	testgen.CreateBook(t, db, "Brave New World", nil)
	testgen.CreateInstance(t, db, hobbit, testgen.InstanceOptions{Status: models.LoanStatusAvailable})
	testgen.CreateInstance(t, db, hobbit, testgen.InstanceOptions{Status: models.LoanStatusAvailable})
	testgen.CreateInstance(t, db, hobbit, testgen.InstanceOptions{Status: models.LoanStatusOnLoan, Borrower: member})

	token, err := ts.authService.GenerateToken(member)
	require.NoError(t, err)

	var body map[string]int
	for visit := 1; visit <= 3; visit++ {
		req := httptest.NewRequest(http.MethodGet, "/catalog/", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		rec := httptest.NewRecorder()
		ts.e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, visit, body["num_visits"])
	}

	assert.Equal(t, 3, body["num_books"])
	assert.Equal(t, 3, body["num_instances"])
	assert.Equal(t, 2, body["num_instances_available"])
	assert.Equal(t, 2, body["num_authors"])
	assert.Equal(t, 2, body["num_genres"])
	assert.Equal(t, 1, body["num_books_containing_the"])

	// A new login is a new session and starts counting again.
	rec := ts.get(t, "/catalog/", member)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body["num_visits"])
}

func TestCatalogAccess(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	db := ts.db

	member := testgen.CreateUser(t, db, "member1", models.RoleMember)
	librarian := testgen.CreateUser(t, db, "librarian1", models.RoleLibrarian)
	author := testgen.CreateAuthor(t, db, "Bob", "Big")
	book := testgen.CreateBook(t, db, "Test Book", author)

	authorURL := "/catalog/author/" + strconv.Itoa(author.ID)
	bookURL := "/catalog/book/" + strconv.Itoa(book.ID)

	tcs := []struct {
		name   string
		target string
		user   *models.User
		code   int
	}{
		{"author detail is public", authorURL, nil, http.StatusOK},
		{"book detail needs a login", bookURL, nil, http.StatusFound},
		{"book detail for a member", bookURL, member, http.StatusOK},
		{"missing book", "/catalog/book/9999", member, http.StatusNotFound},
		{"book list needs a login", "/catalog/books", nil, http.StatusFound},
		{"author list for a member", "/catalog/authors", member, http.StatusOK},
		{"my books needs a login", "/catalog/mybooks", nil, http.StatusFound},
		{"my books for a member", "/catalog/mybooks", member, http.StatusOK},
		{"borrowed needs a login", "/catalog/borrowed", nil, http.StatusFound},
		{"borrowed is forbidden to members", "/catalog/borrowed", member, http.StatusForbidden},
		{"borrowed for a librarian", "/catalog/borrowed", librarian, http.StatusOK},
		{"genres for a member", "/catalog/genres", member, http.StatusOK},
		{"languages for a member", "/catalog/languages", member, http.StatusOK},
		{"page past the end", "/catalog/books?page=5", member, http.StatusNotFound},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.get(t, tc.target, tc.user)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}
