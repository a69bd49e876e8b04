package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HarishV14/Local-library/internal/testgen"
	"github.com/HarishV14/Local-library/pkg/config"
	"github.com/HarishV14/Local-library/pkg/visits"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	db := testgen.NewDB(t)
	e, err := NewEcho(config.NewForTest(), db, visits.NewDBCounter(db))
	require.NoError(t, err)
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNewEcho_Routes(t *testing.T) {
	t.Parallel()
	e := newTestEcho(t)

	rec := serve(e, http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/catalog/", rec.Header().Get(echo.HeaderLocation))

	rec = serve(e, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_found"`)

	rec = serve(e, http.MethodGet, "/admin")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderLocation), "/auth/login")
}

func TestJSONSerializer(t *testing.T) {
	t.Parallel()
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, jsonSerializer{}.Serialize(c, map[string]int{"num_books": 3}, ""))
	assert.JSONEq(t, `{"num_books":3}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"num_books":"three"}`))
	c = e.NewContext(req, httptest.NewRecorder())
	var v struct {
		NumBooks int `json:"num_books"`
	}
	err := jsonSerializer{}.Deserialize(c, &v)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
