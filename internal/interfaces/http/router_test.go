package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vericert-api/internal/application/auth"
	"github.com/jhoicas/vericert-api/internal/application/certificate"
	"github.com/jhoicas/vericert-api/internal/application/ports"
	"github.com/jhoicas/vericert-api/internal/domain/entity"
	apphttp "github.com/jhoicas/vericert-api/internal/interfaces/http"
	"github.com/jhoicas/vericert-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de infraestructura para las pruebas del router
// ──────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

type memCertRepo struct {
	mu    sync.Mutex
	certs map[string]*entity.Certificate
}

func newMemCertRepo() *memCertRepo {
	return &memCertRepo{certs: make(map[string]*entity.Certificate)}
}

func (r *memCertRepo) Insert(_ context.Context, cert *entity.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.certs[cert.CertificateID] = cert
	return nil
}

func (r *memCertRepo) FindByCertID(_ context.Context, certID string) (*entity.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.certs[certID], nil
}

func (r *memCertRepo) FindByCertIDAndOwner(_ context.Context, certID, ownerID string) (*entity.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cert, ok := r.certs[certID]
	if !ok || cert.OwnerID != ownerID {
		return nil, nil
	}
	return cert, nil
}

func (r *memCertRepo) seed(certID, ownerID string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.certs[certID] = &entity.Certificate{
		ID:            "row-" + certID,
		CertificateID: certID,
		OwnerID:       ownerID,
		TemplateID:    "tpl-1",
		Payload:       payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

type stubMailer struct {
	mu   sync.Mutex
	sent int
}

func (m *stubMailer) Send(_ context.Context, _, _, _ string, _ ...ports.Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

type stubQR struct{}

func (stubQR) Render(string) ([]byte, error) { return []byte("png"), nil }

// testEnv aplicación completa con repos en memoria y un emisor autenticado.
type testEnv struct {
	app    *fiber.App
	users  *memUserRepo
	certs  *memCertRepo
	mailer *stubMailer
}

func buildRouterEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newMemUserRepo()
	certs := newMemCertRepo()
	mailer := &stubMailer{}

	authUC := auth.NewAuthUseCase(users, mailer, auth.JWTConfig{
		Secret:     testJWTSecret,
		ExpMinutes: testExpMin,
		Issuer:     testIssuer,
	}, logger.Nop())
	certUC := certificate.NewUseCase(certs, mailer, stubQR{}, nil, certificate.Config{
		BaseURL: "https://vericert.io",
	}, logger.Nop(), nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		CertUC:    certUC,
		JWTSecret: testJWTSecret,
	})
	return &testEnv{app: app, users: users, certs: certs, mailer: mailer}
}

func issuerRequest(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleOrganization))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación pública
// ──────────────────────────────────────────────────────────────────────────────

// La verificación es pública: sin header Authorization responde 200.
func TestVerify_PublicoSinToken(t *testing.T) {
	env := buildRouterEnv(t)
	env.certs.seed("123456", testUserID, map[string]any{"name": "Ana"})

	req := httptest.NewRequest(http.MethodGet, "/api/verify-certificate/123456", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["verified"])
	cert, ok := body["certificate"].(map[string]any)
	require.True(t, ok, "la respuesta debe incluir el certificado")
	assert.Equal(t, "123456", cert["certificateId"])
}

// ID inexistente: 404 con verified:false y sin clave certificate.
func TestVerify_Inexistente404(t *testing.T) {
	env := buildRouterEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/verify-certificate/999999", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["verified"])
	assert.NotContains(t, body, "certificate")
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas del emisor
// ──────────────────────────────────────────────────────────────────────────────

// Las rutas de emisor exigen token: sin Authorization responden 401.
func TestIssuerRoutes_SinTokenRetornan401(t *testing.T) {
	env := buildRouterEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/issuer/certificates/123456", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// El rol user no emite certificados: 403 en rutas de emisor.
func TestIssuerRoutes_RolUserRetorna403(t *testing.T) {
	env := buildRouterEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/issuer/certificates/123456", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleUser))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStore_Lote201ConIDs(t *testing.T) {
	env := buildRouterEnv(t)

	resp := issuerRequest(t, env.app, http.MethodPost, "/api/issuer/certificates", map[string]any{
		"templateId": "tpl-1",
		"certificates": []map[string]any{
			{"name": "Ana", "email": "ana@example.com"},
			{"name": "Luis", "email": "luis@example.com"},
		},
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Certificates stored successfully", body["message"])
	saved, ok := body["savedCertificates"].([]any)
	require.True(t, ok)
	assert.Len(t, saved, 2)
	first := saved[0].(map[string]any)
	assert.Regexp(t, `^[1-9][0-9]{5}$`, first["certificateId"])
	assert.Equal(t, testUserID, first["ownerId"])
}

func TestStore_SinTemplateID400(t *testing.T) {
	env := buildRouterEnv(t)

	resp := issuerRequest(t, env.app, http.MethodPost, "/api/issuer/certificates", map[string]any{
		"certificates": []map[string]any{{"name": "Ana"}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Certificado de otro dueño: misma respuesta 404 que uno inexistente.
func TestGetByID_OtroDueno404Uniforme(t *testing.T) {
	env := buildRouterEnv(t)
	env.certs.seed("123456", "otro-emisor", map[string]any{"name": "Ana"})

	respAjeno := issuerRequest(t, env.app, http.MethodGet, "/api/issuer/certificates/123456", nil)
	respInexistente := issuerRequest(t, env.app, http.MethodGet, "/api/issuer/certificates/999999", nil)

	assert.Equal(t, http.StatusNotFound, respAjeno.StatusCode)
	assert.Equal(t, http.StatusNotFound, respInexistente.StatusCode)
	assert.Equal(t, decodeBody(t, respAjeno), decodeBody(t, respInexistente),
		"ambos cuerpos deben ser idénticos")
}

func TestSendWithQR_EnviaYRetornaURL(t *testing.T) {
	env := buildRouterEnv(t)
	env.certs.seed("123456", testUserID, map[string]any{"name": "Ana", "email": "ana@example.com"})

	resp := issuerRequest(t, env.app, http.MethodGet, "/api/issuer/certificates/123456/qr", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "https://vericert.io/verify-certificate/123456", body["verificationUrl"])
	assert.Equal(t, 1, env.mailer.sent)
}

func TestSendWithQR_SinEmail400(t *testing.T) {
	env := buildRouterEnv(t)
	env.certs.seed("123456", testUserID, map[string]any{"name": "Ana"})

	resp := issuerRequest(t, env.app, http.MethodGet, "/api/issuer/certificates/123456/qr", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "MISSING_RECIPIENT", body["code"])
	assert.Zero(t, env.mailer.sent)
}

func TestSendBatch_ReportaExitosYFallos(t *testing.T) {
	env := buildRouterEnv(t)
	env.certs.seed("111111", testUserID, map[string]any{"email": "ana@example.com"})

	resp := issuerRequest(t, env.app, http.MethodPost, "/api/issuer/certificates/send-batch", map[string]any{
		"certificateIds": []string{"111111", "222222"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Batch processing completed", body["message"])
	results := body["results"].(map[string]any)
	assert.Equal(t, []any{"111111"}, results["success"])
	failed := results["failed"].([]any)
	require.Len(t, failed, 1)
	assert.Equal(t, "222222", failed[0].(map[string]any)["id"])
}

func TestSendBatch_ListaVacia400(t *testing.T) {
	env := buildRouterEnv(t)

	resp := issuerRequest(t, env.app, http.MethodPost, "/api/issuer/certificates/send-batch", map[string]any{
		"certificateIds": []string{},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, env.mailer.sent)
}
