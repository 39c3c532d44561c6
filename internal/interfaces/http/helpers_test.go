package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/liga-formativa-api/internal/application/analytics"
	"github.com/jhoicas/liga-formativa-api/internal/application/auth"
	"github.com/jhoicas/liga-formativa-api/internal/application/photo"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/localstore"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/liga-formativa-api/internal/interfaces/http"
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret     = "test-secret-key-for-unit-tests"
	testIssuer        = "liga-formativa-test"
	testExpMin        = 60
	testSuperEmail    = "enripw@gmail.com"
	testSuperPassword = "admin123"
)

type fakeHost struct {
	mu    sync.Mutex
	calls int
}

func (h *fakeHost) Upload(ctx context.Context, b64, name string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	return "https://i.ibb.co/test/" + name + ".jpg", nil
}

func (h *fakeHost) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

type apiEnv struct {
	app  *fiber.App
	host *fakeHost
	reg  *prometheus.Registry
}

type apiOptions struct {
	loginRate int
}

// newAPI levanta la API completa sobre el almacenamiento local en un directorio temporal.
func newAPI(t *testing.T, opts ...apiOptions) *apiEnv {
	t.Helper()
	opt := apiOptions{loginRate: 1000}
	if len(opts) > 0 {
		opt = opts[0]
	}

	store, err := localstore.New(localstore.Options{Dir: t.TempDir()})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	host := &fakeHost{}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	league := usecase.LeagueConfig{
		SuperAdminEmail:    testSuperEmail,
		SuperAdminPassword: testSuperPassword,
		SaveTimeout:        5 * time.Second,
	}
	log := logger.Nop()

	users := usecase.NewUserUseCase(store, league, clock, log, collector)
	teams := usecase.NewTeamUseCase(store, league, clock, collector)
	players := usecase.NewPlayerUseCase(store, photo.New(photo.DefaultConfig(), host, collector), league, clock, log, collector)
	authUC := auth.NewAuthUseCase(users, store, league, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, log, collector)

	app := fiber.New(fiber.Config{BodyLimit: 12 * 1024 * 1024, ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:             authUC,
		UserUC:             users,
		TeamUC:             teams,
		PlayerUC:           players,
		DashboardUC:        appanalytics.NewDashboardUseCase(store, clock),
		Metrics:            collector,
		Gatherer:           reg,
		LoginRatePerMinute: opt.loginRate,
		ServiceName:        "liga-test",
	})
	return &apiEnv{app: app, host: host, reg: reg}
}

// do envía body como JSON (si no es nil) y decodifica la respuesta en out (si no es nil).
func (e *apiEnv) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req, token, out)
}

func (e *apiEnv) send(t *testing.T, req *http.Request, token string, out any) int {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "respuesta: %s", raw)
	}
	return resp.StatusCode
}

// login devuelve el token de la cuenta.
func (e *apiEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	status := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (e *apiEnv) superToken(t *testing.T) string {
	t.Helper()
	return e.login(t, testSuperEmail, testSuperPassword)
}

func (e *apiEnv) createTeam(t *testing.T, token, name string) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/api/teams", token, map[string]string{"name": name}, &out))
	return out.ID
}

func (e *apiEnv) createUser(t *testing.T, token, email, role, teamID string) string {
	t.Helper()
	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{"email": email, "password": "clave123", "name": "Usuario " + role, "role": role, "teamId": teamID}
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, "/api/users", token, body, &out))
	return out.ID
}

// multipartPlayer arma un formulario con los campos y, si photo no es nil, el archivo "photo".
func multipartPlayer(t *testing.T, method, path string, fields map[string]string, photo []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if photo != nil {
		fw, err := w.CreateFormFile("photo", "foto.png")
		require.NoError(t, err)
		_, err = fw.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// pngBytes imagen válida de w x h.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type errorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
	Fields   []struct {
		Field string `json:"field"`
		Tag   string `json:"tag"`
	} `json:"fields"`
}

type playerBody struct {
	ID       string `json:"id"`
	DNI      string `json:"dni"`
	PhotoURL string `json:"photoUrl"`
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	CanEdit  bool   `json:"canEdit"`
}

type listBody[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
