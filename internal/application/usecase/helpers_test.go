package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/photo"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/localstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSuperEmail    = "enripw@gmail.com"
	testSuperPassword = "admin123"
)

// fakeHost host de imágenes en memoria.
type fakeHost struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (h *fakeHost) Upload(ctx context.Context, b64, name string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.err != nil {
		return "", h.err
	}
	return "https://i.ibb.co/test/" + name + ".jpg", nil
}

func (h *fakeHost) Calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// recMetrics registra los RecordSaved recibidos como "colección/op/resultado".
type recMetrics struct {
	mu    sync.Mutex
	saved []string
}

func (m *recMetrics) PhotoProcessed(string, time.Duration) {}
func (m *recMetrics) LoginAttempt(string)                  {}
func (m *recMetrics) RecordSaved(collection, op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, collection+"/"+op+"/"+outcome)
}

func (m *recMetrics) Saved() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.saved...)
}

// slowStore nunca completa una transacción antes de que venza el contexto.
type slowStore struct{ repository.Store }

func (s slowStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Collections) error) error {
	<-ctx.Done()
	return ctx.Err()
}

type testEnv struct {
	store   *localstore.Store
	clock   *clockwork.FakeClock
	host    *fakeHost
	metrics *recMetrics
	cfg     usecase.LeagueConfig
	users   *usecase.UserUseCase
	teams   *usecase.TeamUseCase
	players *usecase.PlayerUseCase
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := localstore.New(localstore.Options{Dir: t.TempDir()})
	require.NoError(t, err)

	env := &testEnv{
		store:   store,
		clock:   clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		host:    &fakeHost{},
		metrics: &recMetrics{},
		cfg: usecase.LeagueConfig{
			SuperAdminEmail:    testSuperEmail,
			SuperAdminPassword: testSuperPassword,
			SaveTimeout:        5 * time.Second,
		},
	}
	pipeline := photo.New(photo.DefaultConfig(), env.host, env.metrics)
	env.users = usecase.NewUserUseCase(store, env.cfg, env.clock, nil, env.metrics)
	env.teams = usecase.NewTeamUseCase(store, env.cfg, env.clock, env.metrics)
	env.players = usecase.NewPlayerUseCase(store, pipeline, env.cfg, env.clock, nil, env.metrics)
	return env
}

// superSession crea (si hace falta) el superadministrador y devuelve su sesión.
func (e *testEnv) superSession(t *testing.T) *entity.Session {
	t.Helper()
	users, err := e.users.EnsureSuperAdmin(context.Background())
	require.NoError(t, err)
	for _, u := range users {
		if u.Email == testSuperEmail {
			return u.Session()
		}
	}
	t.Fatal("no se encontró el superadministrador")
	return nil
}

func (e *testEnv) createTeam(t *testing.T, admin *entity.Session, name string) string {
	t.Helper()
	e.clock.Advance(time.Minute)
	team, err := e.teams.CreateTeam(context.Background(), admin, dto.TeamRequest{Name: name})
	require.NoError(t, err)
	return team.ID
}

func (e *testEnv) createPlayer(t *testing.T, s *entity.Session, first, dni, teamID string) *dto.PlayerResponse {
	t.Helper()
	e.clock.Advance(time.Minute)
	p, err := e.players.CreatePlayer(context.Background(), s, dto.CreatePlayerRequest{
		FirstName: first,
		LastName:  "Test",
		BirthDate: "2015-06-24",
		DNI:       dni,
		TeamID:    teamID,
	}, nil)
	require.NoError(t, err)
	return p
}

// createUser alta vía caso de uso y devuelve la sesión del nuevo usuario.
func (e *testEnv) createUser(t *testing.T, admin *entity.Session, email, role, teamID string) *entity.Session {
	t.Helper()
	e.clock.Advance(time.Minute)
	u, err := e.users.CreateUser(context.Background(), admin, dto.CreateUserRequest{
		Email:    email,
		Password: "clave123",
		Name:     "Usuario " + role,
		Role:     role,
		TeamID:   teamID,
	})
	require.NoError(t, err)
	return &entity.Session{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, TeamID: u.TeamID, CreatedAt: u.CreatedAt}
}

func ptr[T any](v T) *T { return &v }
