package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Merenda-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Merenda-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "merenda-api-test"
	testExpMin    = 60
)

// tokenForRole devuelve el header Authorization con un JWT del tenant de prueba.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// guardedApp expone GET /guarded detrás de AuthMiddleware + RequireRole(roles...).
func guardedApp(roles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"tenant_id": apphttp.GetTenantID(c),
			"role":      apphttp.GetRole(c),
		})
	})
	return app
}

func TestRequireRole(t *testing.T) {
	noRole, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, "", testIssuer, testExpMin)
	require.NoError(t, err)
	noTenant, err := pkgjwt.Generate(testJWTSecret, testUserID, "", apphttp.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	write := []string{apphttp.RoleAdmin, apphttp.RoleGestor}
	read := []string{apphttp.RoleAdmin, apphttp.RoleGestor, apphttp.RoleConsulta}

	cases := []struct {
		name    string
		allowed []string
		header  string
		status  int
		code    string
	}{
		{"admin escribe", write, tokenForRole(t, apphttp.RoleAdmin), http.StatusOK, ""},
		{"gestor escribe", write, tokenForRole(t, apphttp.RoleGestor), http.StatusOK, ""},
		{"consulta no escribe", write, tokenForRole(t, apphttp.RoleConsulta), http.StatusForbidden, "FORBIDDEN"},
		{"consulta lee", read, tokenForRole(t, apphttp.RoleConsulta), http.StatusOK, ""},
		{"rol desconocido", read, tokenForRole(t, "auditor"), http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", write, "Bearer " + noRole, http.StatusUnauthorized, "MISSING_ROLE"},
		{"token sin tenant", read, "Bearer " + noTenant, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"sin header", read, "", http.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", read, "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", read, "Bearer token.invalido.aqui", http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := guardedApp(tc.allowed...).Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleGestor))
	resp, err := guardedApp(apphttp.RoleGestor).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, apphttp.RoleGestor, body["role"])
}
