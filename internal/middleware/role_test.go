package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRoleCheck(t *testing.T, ident *Identity, required ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/roles/ensure", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if ident != nil {
		c.Set(identityKey, *ident)
	}
	handler := RequireRole(required...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec
}

func TestRequireRoleNoIdentity(t *testing.T) {
	rec := doRoleCheck(t, nil, "admin")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleMissingRole(t *testing.T) {
	rec := doRoleCheck(t, &Identity{ID: "u1", Roles: []string{"user"}}, "admin")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleGranted(t *testing.T) {
	rec := doRoleCheck(t, &Identity{ID: "u1", Roles: []string{"user", "admin"}}, "admin")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleAnyOfSeveral(t *testing.T) {
	rec := doRoleCheck(t, &Identity{ID: "u1", Roles: []string{"support"}}, "admin", "support")
	assert.Equal(t, http.StatusOK, rec.Code)
}
