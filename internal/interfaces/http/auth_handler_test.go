package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vericert-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func postJSON(t *testing.T, env *testEnv, target string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func validRegisterBody() map[string]any {
	return map[string]any{
		"username": "emisor01",
		"email":    "emisor@example.com",
		"password": "contrasena-segura",
		"role":     entity.RoleOrganization,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_Retorna201SinPassword(t *testing.T) {
	env := buildRouterEnv(t)

	resp := postJSON(t, env, "/api/auth/register", validRegisterBody())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "emisor01", body["username"])
	assert.Equal(t, entity.RoleOrganization, body["role"])
	assert.NotContains(t, body, "password", "la respuesta nunca incluye el password")
	assert.NotContains(t, body, "passwordHash")
}

func TestRegister_Validaciones400(t *testing.T) {
	env := buildRouterEnv(t)

	cases := []struct {
		name  string
		mutar func(map[string]any)
	}{
		{"username corto", func(b map[string]any) { b["username"] = "ab" }},
		{"username con simbolos", func(b map[string]any) { b["username"] = "emisor 01!" }},
		{"email invalido", func(b map[string]any) { b["email"] = "no-es-un-email" }},
		{"password corto", func(b map[string]any) { b["password"] = "corta" }},
		{"role desconocido", func(b map[string]any) { b["role"] = "superadmin" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validRegisterBody()
			tc.mutar(body)
			resp := postJSON(t, env, "/api/auth/register", body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegister_EmailDuplicado409(t *testing.T) {
	env := buildRouterEnv(t)

	resp := postJSON(t, env, "/api/auth/register", validRegisterBody())
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	dup := validRegisterBody()
	dup["username"] = "otroemisor"
	resp = postJSON(t, env, "/api/auth/register", dup)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "EMAIL_EXISTS", body["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Retorna200ConToken(t *testing.T) {
	env := buildRouterEnv(t)

	resp := postJSON(t, env, "/api/auth/register", validRegisterBody())
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, env, "/api/auth/login", map[string]any{
		"email":    "emisor@example.com",
		"password": "contrasena-segura",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "emisor01", user["username"])
}

// Cuenta inexistente y password incorrecto responden el mismo 401.
func TestLogin_CredencialesInvalidas401Uniforme(t *testing.T) {
	env := buildRouterEnv(t)

	resp := postJSON(t, env, "/api/auth/register", validRegisterBody())
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respPassword := postJSON(t, env, "/api/auth/login", map[string]any{
		"email": "emisor@example.com", "password": "incorrecta",
	})
	respInexistente := postJSON(t, env, "/api/auth/login", map[string]any{
		"email": "nadie@example.com", "password": "cualquiera",
	})

	assert.Equal(t, http.StatusUnauthorized, respPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, respInexistente.StatusCode)
	assert.Equal(t, decodeBody(t, respPassword), decodeBody(t, respInexistente),
		"ambos cuerpos deben ser idénticos")
}

func TestLogin_SinCredenciales400(t *testing.T) {
	env := buildRouterEnv(t)

	resp := postJSON(t, env, "/api/auth/login", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogout_Retorna200(t *testing.T) {
	env := buildRouterEnv(t)

	resp := postJSON(t, env, "/api/auth/logout", map[string]any{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "User logged out successfully", body["message"])
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateProfile
// ──────────────────────────────────────────────────────────────────────────────

// seedIssuer persiste un emisor cuyo ID coincide con el del token de test.
func seedIssuer(t *testing.T, env *testEnv) {
	t.Helper()
	now := time.Now()
	require.NoError(t, env.users.Create(context.Background(), &entity.User{
		ID:        testUserID,
		Username:  "emisor01",
		Email:     "emisor@example.com",
		Role:      entity.RoleOrganization,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestUpdateProfile_Retorna200(t *testing.T) {
	env := buildRouterEnv(t)
	seedIssuer(t, env)

	resp := issuerRequest(t, env.app, http.MethodPut, "/api/issuer/profile", map[string]any{
		"username": "emisornuevo",
		"email":    "nuevo@example.com",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "emisornuevo", body["username"])
	assert.Equal(t, "nuevo@example.com", body["email"])
}

// El token es válido pero la cuenta ya no existe: 404.
func TestUpdateProfile_CuentaInexistente404(t *testing.T) {
	env := buildRouterEnv(t)

	resp := issuerRequest(t, env.app, http.MethodPut, "/api/issuer/profile", map[string]any{
		"username": "emisornuevo",
		"email":    "nuevo@example.com",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProfile_EmailInvalido400(t *testing.T) {
	env := buildRouterEnv(t)
	seedIssuer(t, env)

	resp := issuerRequest(t, env.app, http.MethodPut, "/api/issuer/profile", map[string]any{
		"username": "emisornuevo",
		"email":    "no-es-un-email",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
