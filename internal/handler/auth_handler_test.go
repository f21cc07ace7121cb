package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ensalamento-api/internal/models"
	appErrors "github.com/noah-isme/ensalamento-api/pkg/errors"
)

type fakeAuthSrv struct {
	lastLogin models.LoginRequest
	lastMe    string
	login     *models.LoginResponse
	info      *models.UserInfo
	err       error
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastLogin = req
	return f.login, f.err
}

func (f *fakeAuthSrv) Me(_ context.Context, userID string) (*models.UserInfo, error) {
	f.lastMe = userID
	return f.info, f.err
}

func TestAuthHandlerLogin(t *testing.T) {
	srv := &fakeAuthSrv{login: &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}}
	h := NewAuthHandler(srv)

	c, rec := newTestContext(http.MethodPost, "/auth/login", map[string]string{"email": "admin@escola.br", "password": "secret"})
	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@escola.br", srv.lastLogin.Email)
	assert.Contains(t, rec.Body.String(), `"access_token":"token"`)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{err: appErrors.ErrInvalidCredentials})

	c, rec := newTestContext(http.MethodPost, "/auth/login", map[string]string{"email": "admin@escola.br", "password": "wrong"})
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerMeRequiresClaims(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{})

	c, rec := newTestContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	srv := &fakeAuthSrv{info: &models.UserInfo{ID: "user-1", Email: "admin@escola.br", Role: models.RoleAdmin}}
	h := NewAuthHandler(srv)

	c, rec := newTestContext(http.MethodGet, "/auth/me", nil)
	withClaims(c, "user-1", models.RoleAdmin)
	h.Me(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", srv.lastMe)
}
