package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/apperrors"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/model"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/utils"
)

const testSecret = "test-secret"

type fakeLoader struct {
	profiles map[uint64]model.Profile
}

func (f *fakeLoader) LoadProfile(_ context.Context, userID uint64) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &p, nil
}

func newAuthRequest(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: utils.AccessTokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestAuthenticateMissingCookie(t *testing.T) {
	c, rec := newAuthRequest(t, "")
	err := Authenticate(testSecret, &fakeLoader{})(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateBadToken(t *testing.T) {
	c, rec := newAuthRequest(t, "not-a-jwt")
	err := Authenticate(testSecret, &fakeLoader{})(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, 1, model.RoleUser, -time.Minute)
	require.NoError(t, err)

	c, rec := newAuthRequest(t, token)
	err = Authenticate(testSecret, &fakeLoader{})(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateAttachesProfile(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, 42, model.RoleUser, time.Minute)
	require.NoError(t, err)

	loader := &fakeLoader{profiles: map[uint64]model.Profile{
		42: {ID: "42", Name: "Karim", Email: "karim@example.com", Role: model.RoleUser, IsVerified: true},
	}}

	c, rec := newAuthRequest(t, token)
	handler := Authenticate(testSecret, loader)(func(c echo.Context) error {
		p, ok := CurrentProfile(c)
		require.True(t, ok)
		assert.Equal(t, "karim@example.com", p.Email)

		id, ok := CurrentUserID(c)
		require.True(t, ok)
		assert.Equal(t, uint64(42), id)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, 7, model.RoleUser, time.Minute)
	require.NoError(t, err)

	c, _ := newAuthRequest(t, token)
	err = Authenticate(testSecret, &fakeLoader{})(okHandler)(c)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string, allowed ...string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(ContextProfile, model.Profile{ID: "1", Role: role})
		err := RequireRole(allowed...)(okHandler)(c)
		return rec, err
	}

	rec, err := run(model.RoleAdmin, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, err = run(model.RoleUser, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleWithoutProfile(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireRole(model.RoleAdmin)(okHandler)(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
