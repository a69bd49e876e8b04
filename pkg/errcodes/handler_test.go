package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	} `json:"error"`
}

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalog/book/9", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHandler().Handle(err, c)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandle_CustomError(t *testing.T) {
	t.Parallel()
	rec, body := handle(t, errors.WithStack(NotFound("Book")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "Book not found.", body.Error.Message)
	assert.Equal(t, http.StatusNotFound, body.Error.StatusCode)
}

func TestHandle_EchoError(t *testing.T) {
	t.Parallel()
	rec, body := handle(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", body.Error.Code)
}

func TestHandle_GenericError(t *testing.T) {
	t.Parallel()
	rec, body := handle(t, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_server_error", body.Error.Code)
	assert.Equal(t, "Internal Server Error", body.Error.Message)
}

func TestErrorIs(t *testing.T) {
	t.Parallel()
	err := errors.Wrap(NotFound("Author"), "retrieving author")
	assert.True(t, errors.Is(err, NotFound("Author")))
	assert.False(t, errors.Is(err, NotFound("Book")))

	perm := PermissionDenied("loans:write")
	var e *Error
	require.True(t, errors.As(perm, &e))
	assert.Equal(t, http.StatusForbidden, e.HTTPCode)
	assert.Equal(t, "permission_denied", e.Code)
}
