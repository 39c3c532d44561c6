package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	apphttp "github.com/jhoicas/liga-formativa-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/liga-formativa-api/pkg/jwt"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
)

// stubResolver acepta solo el token "valido".
type stubResolver struct{ err error }

func (r stubResolver) ResolveToken(ctx context.Context, token string) (*entity.Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	if token != "valido" {
		return nil, domain.ErrUnauthorized
	}
	return &entity.Session{ID: "u1", Email: "ana@liga.com", Role: entity.RoleViewer}, nil
}

// buildTestApp aplicación mínima con AuthMiddleware y un handler que devuelve la sesión.
func buildTestApp(r stubResolver) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Get("/protected", apphttp.AuthMiddleware(r), func(c *fiber.Ctx) error {
		s := apphttp.GetSession(c)
		return c.JSON(fiber.Map{"id": s.ID, "role": s.Role})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValido_CargaSesion(t *testing.T) {
	resp := doRequest(t, buildTestApp(stubResolver{}), "Bearer valido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"id":"u1","role":"viewer"}`, string(body))
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin esquema Bearer", "valido", "INVALID_TOKEN"},
		{"Bearer vacío", "Bearer ", "INVALID_TOKEN"},
		{"token inválido", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(stubResolver{}), tc.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
			assert.Contains(t, string(body), `"redirect":"/login"`)
		})
	}
}

func TestAuthMiddleware_FalloDelAlmacenamiento_Retorna500(t *testing.T) {
	resp := doRequest(t, buildTestApp(stubResolver{err: errors.New("firestore caído")}), "Bearer valido")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INTERNAL")
	assert.NotContains(t, string(body), "firestore caído", "el detalle interno no se expone")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests sobre la API completa
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_UsuarioBorradoPierdeAcceso(t *testing.T) {
	env := newAPI(t)
	admin := env.superToken(t)
	id := env.createUser(t, admin, "ana@liga.com", "viewer", "")
	tok := env.login(t, "ana@liga.com", "clave123")

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/auth/me", tok, nil, nil))
	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/users/"+id, admin, nil, nil))

	var body errorBody
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", tok, nil, &body))
	assert.Equal(t, "/login", body.Redirect)
}

func TestAuthMiddleware_CambioDeRolSeAplicaSinNuevoToken(t *testing.T) {
	env := newAPI(t)
	admin := env.superToken(t)
	id := env.createUser(t, admin, "ana@liga.com", "admin", "")
	tok := env.login(t, "ana@liga.com", "clave123")

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/users", tok, nil, nil))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, "/api/users/"+id, admin, map[string]string{"role": "viewer"}, nil))

	var body errorBody
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodGet, "/api/users", tok, nil, &body))
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "/", body.Redirect)
}

func TestJWT_TokenDeOtroSecreto(t *testing.T) {
	env := newAPI(t)
	tok, err := pkgjwt.Generate("otro-secreto", "u1", testIssuer, testExpMin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/dashboard", tok, nil, nil))
}
