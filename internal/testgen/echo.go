package testgen

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HarishV14/Local-library/pkg/binder"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// NewEcho returns an echo instance with the production binder and error
// handler installed.
func NewEcho(t testing.TB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	return e
}

// NewContext builds an echo context for calling a handler directly.
func NewContext(t testing.TB, method, target, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body io.Reader
	if payload != "" {
		body = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return NewEcho(t).NewContext(req, rec), rec
}
