package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelblog/internal/auth"
	"travelblog/internal/model"
)

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	})
	require.NoError(t, env.auth.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	user, err := env.users.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, c = env.doJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"name": "Ana", "email": "ana@example.com", "password": "secret1",
	})
	requireHTTPError(t, env.auth.Signup(c), http.StatusBadRequest, "EMAIL_TAKEN")
}

func TestSignup_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{"name": "Ana", "email": "not-an-email", "password": "secret1"})
	requireHTTPError(t, env.auth.Signup(c), http.StatusBadRequest, "VALIDATION_ERROR")

	_, c = env.doJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{"name": "Ana", "email": "ana@example.com"})
	requireHTTPError(t, env.auth.Signup(c), http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestSignup_NameOptional(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/signup", map[string]any{
		"email": "noname@example.com", "password": "secret1",
	})
	require.NoError(t, env.auth.Signup(c))
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := env.users.FindByEmail(context.Background(), "noname@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.Name)
}

func TestSignin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.authSvc.ProvisionAdmin(context.Background(), "admin@example.com", "admin-pass", "Admin")
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/signin", map[string]any{
		"email": "admin@example.com", "password": "admin-pass",
	})
	require.NoError(t, env.auth.Signin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[SigninResponse](t, rec)
	require.NotNil(t, resp.User)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)

	identity, ok := env.sessions.Read(resp.Token)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", identity.Email)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, resp.Token, cookies[0].Value)
}

func TestSignin_Failures(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.authSvc.Register(context.Background(), "Ana", "ana@example.com", "right-pass")
	require.NoError(t, err)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"wrong password", map[string]any{"email": "ana@example.com", "password": "wrong"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown email", map[string]any{"email": "nobody@example.com", "password": "right-pass"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing password", map[string]any{"email": "ana@example.com"}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/signin", tt.body)
			requireHTTPError(t, env.auth.Signin(c), tt.status, tt.code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestSignoutAndSession(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/signout", nil)
	require.NoError(t, env.auth.Signout(c))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/auth/session", nil)
	require.NoError(t, env.auth.Session(c))
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec, c = env.doJSONRequest(http.MethodGet, "/api/auth/session", nil)
	auth.SetIdentity(c, &auth.Identity{ID: "u1", Email: "a@example.com", Name: "A", Role: model.RoleUser})
	require.NoError(t, env.auth.Session(c))
	assert.JSONEq(t, `{"user":{"id":"u1","email":"a@example.com","name":"A","role":"USER"}}`, rec.Body.String())
}
