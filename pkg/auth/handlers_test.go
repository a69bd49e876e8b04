package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HarishV14/Local-library/internal/testgen"
	"github.com/HarishV14/Local-library/pkg/binder"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, payload, method, path string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func TestHandler_Setup_RejectsWhenUsersExist(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{authService: NewService(db, "test-jwt-secret")}

	testgen.CreateUser(t, db, "existingadmin", models.RoleAdmin)

	payload := `{"username":"newadmin","password":"securepassword123"}`
	c, _ := newTestContext(t, payload, http.MethodPost, "/auth/setup")

	err := h.setup(c)
	require.Error(t, err)

	var errResp *errcodes.Error
	require.ErrorAs(t, err, &errResp)
	assert.Equal(t, http.StatusForbidden, errResp.HTTPCode)
	assert.Contains(t, errResp.Message, "Setup has already been completed")
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	svc := NewService(db, "test-jwt-secret")
	h := &handler{authService: svc}

	testgen.CreateUser(t, db, "librarian1", models.RoleLibrarian)

	t.Run("sets a session cookie", func(t *testing.T) {
		payload := `{"username":"librarian1","password":"` + testgen.Password + `","next":"/catalog/borrowed"}`
		c, rr := newTestContext(t, payload, http.MethodPost, "/auth/login")

		require.NoError(t, h.login(c))
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp MeResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "librarian1", resp.Username)
		assert.Equal(t, models.RoleLibrarian, resp.RoleName)
		assert.True(t, resp.IsStaff)
		assert.Contains(t, resp.Permissions, models.PermissionLoansWrite)
		assert.Equal(t, "/catalog/borrowed", resp.Next)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)

		claims, err := svc.ValidateToken(cookies[0].Value)
		require.NoError(t, err)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("drops off-site next", func(t *testing.T) {
		payload := `{"username":"librarian1","password":"` + testgen.Password + `","next":"//evil.example"}`
		c, rr := newTestContext(t, payload, http.MethodPost, "/auth/login")

		require.NoError(t, h.login(c))
		var resp MeResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Empty(t, resp.Next)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		payload := `{"username":"librarian1","password":"wrong"}`
		c, _ := newTestContext(t, payload, http.MethodPost, "/auth/login")

		err := h.login(c)
		var errResp *errcodes.Error
		require.ErrorAs(t, err, &errResp)
		assert.Equal(t, http.StatusUnauthorized, errResp.HTTPCode)
	})
}

func TestHandler_Status(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{authService: NewService(db, "test-jwt-secret")}

	c, rr := newTestContext(t, "", http.MethodGet, "/auth/status")
	require.NoError(t, h.status(c))
	assert.JSONEq(t, `{"needs_setup":true}`, rr.Body.String())
}

func TestHandler_LoginForm(t *testing.T) {
	t.Parallel()
	h := &handler{}

	c, rr := newTestContext(t, "", http.MethodGet, "/auth/login?next=%2Fcatalog%2F")
	require.NoError(t, h.loginForm(c))

	var resp LoginFormResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "/catalog/", resp.Next)
}
