package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SensibleN00B/theatre-api/internal/model"
	"github.com/SensibleN00B/theatre-api/internal/utils"
)

func catalogEcho(secret string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1", AdminOrReadOnly(secret))
	ok := func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"ok": true}) }
	g.GET("/plays", ok)
	g.POST("/plays", ok)
	g.DELETE("/plays/:id", ok)
	return e
}

func doCatalog(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminOrReadOnlyAnonymousRead(t *testing.T) {
	e := catalogEcho(testSecret)
	rec := doCatalog(e, http.MethodGet, "/v1/plays", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOrReadOnlyAnonymousWrite(t *testing.T) {
	e := catalogEcho(testSecret)
	// no token on a write is forbidden, not unauthorized
	rec := doCatalog(e, http.MethodPost, "/v1/plays", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOrReadOnlyCustomerWrite(t *testing.T) {
	e := catalogEcho(testSecret)
	access, err := utils.NewAccessToken(testSecret, 42, model.RoleCustomer, 15)
	require.NoError(t, err)

	rec := doCatalog(e, http.MethodPost, "/v1/plays", access.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminOrReadOnlyAdminWrite(t *testing.T) {
	e := catalogEcho(testSecret)
	access, err := utils.NewAccessToken(testSecret, 1, model.RoleAdmin, 15)
	require.NoError(t, err)

	for _, m := range []string{http.MethodPost} {
		rec := doCatalog(e, m, "/v1/plays", access.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doCatalog(e, http.MethodDelete, "/v1/plays/3", access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	e.GET("/v1/users", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("role", model.RoleCustomer)
			return next(c)
		}
	}, RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
