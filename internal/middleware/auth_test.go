package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplite/shoplite/internal/repository"
	"github.com/shoplite/shoplite/internal/utils"
)

const guardSecret = "guard-test-secret"

type fakeUsers struct {
	users map[string]repository.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

type fakeRoles struct {
	roles map[string][]string
	perms map[string][]string
}

func (f *fakeRoles) ListUserRoles(_ context.Context, userID string) ([]string, error) {
	return f.roles[userID], nil
}

func (f *fakeRoles) ListUserPermissions(_ context.Context, userID string) ([]string, error) {
	return f.perms[userID], nil
}

func guardFixture() (echo.MiddlewareFunc, *fakeUsers, *fakeRoles) {
	users := &fakeUsers{users: map[string]repository.User{
		"u-alice": {ID: "u-alice", Username: "alice", IsActive: true},
		"u-bob":   {ID: "u-bob", Username: "bob", IsActive: false},
	}}
	roles := &fakeRoles{
		roles: map[string][]string{"u-alice": {"user"}},
		perms: map[string][]string{"u-alice": {"products:read"}},
	}
	return SessionGuard(guardSecret, users, roles), users, roles
}

func doGuarded(t *testing.T, guard echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *Identity
	handler := guard(func(c echo.Context) error {
		if id, ok := CurrentIdentity(c); ok {
			seen = &id
		}
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, seen
}

func TestSessionGuardMissingBearer(t *testing.T) {
	guard, _, _ := guardFixture()
	rec, seen := doGuarded(t, guard, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestSessionGuardMalformedToken(t *testing.T) {
	guard, _, _ := guardFixture()
	rec, seen := doGuarded(t, guard, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestSessionGuardExpiredToken(t *testing.T) {
	guard, _, _ := guardFixture()
	at, err := utils.NewAccessToken(guardSecret, "u-alice", []string{"user"}, -1)
	require.NoError(t, err)

	rec, seen := doGuarded(t, guard, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestSessionGuardUniform401Body(t *testing.T) {
	// expired and garbage tokens must be indistinguishable to the caller
	guard, _, _ := guardFixture()
	at, err := utils.NewAccessToken(guardSecret, "u-alice", []string{"user"}, -1)
	require.NoError(t, err)

	recExpired, _ := doGuarded(t, guard, "Bearer "+at.Token)
	recGarbage, _ := doGuarded(t, guard, "Bearer nope")
	assert.Equal(t, recExpired.Body.String(), recGarbage.Body.String())
}

func TestSessionGuardUnknownUser(t *testing.T) {
	guard, _, _ := guardFixture()
	at, err := utils.NewAccessToken(guardSecret, "u-ghost", []string{"user"}, 5)
	require.NoError(t, err)

	rec, seen := doGuarded(t, guard, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestSessionGuardInactiveUser(t *testing.T) {
	guard, _, _ := guardFixture()
	at, err := utils.NewAccessToken(guardSecret, "u-bob", []string{"user"}, 5)
	require.NoError(t, err)

	rec, seen := doGuarded(t, guard, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)
}

func TestSessionGuardResolvesRolesFromStore(t *testing.T) {
	// the token claims a stale role set; the identity must reflect the store
	guard, _, roles := guardFixture()
	roles.roles["u-alice"] = []string{"user", "admin"}

	at, err := utils.NewAccessToken(guardSecret, "u-alice", []string{"user"}, 5)
	require.NoError(t, err)

	rec, seen := doGuarded(t, guard, "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "u-alice", seen.ID)
	assert.Equal(t, "alice", seen.Username)
	assert.Equal(t, []string{"user", "admin"}, seen.Roles)
	assert.Equal(t, []string{"products:read"}, seen.Permissions)
}

func TestSessionGuard401IsJSON(t *testing.T) {
	guard, _, _ := guardFixture()
	rec, _ := doGuarded(t, guard, "Bearer nope")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid or expired token", body["error"])
}
