package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liga-formativa-api/internal/application/auth"
	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/usecase"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/localstore"
	"github.com/jhoicas/liga-formativa-api/pkg/jwt"
	"github.com/jhoicas/liga-formativa-api/pkg/password"
)

const (
	testSecret     = "test-secret-key-for-unit-tests"
	testIssuer     = "liga-formativa-test"
	testSuperEmail = "enripw@gmail.com"
	testSuperPass  = "admin123"
)

// loginCounter cuenta resultados de login.
type loginCounter struct {
	outcomes []string
}

func (m *loginCounter) PhotoProcessed(string, time.Duration) {}
func (m *loginCounter) RecordSaved(string, string, string)   {}
func (m *loginCounter) LoginAttempt(outcome string)          { m.outcomes = append(m.outcomes, outcome) }

func newAuth(t *testing.T) (*auth.AuthUseCase, *localstore.Store, *loginCounter) {
	t.Helper()
	store, err := localstore.New(localstore.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	league := usecase.LeagueConfig{SuperAdminEmail: testSuperEmail, SuperAdminPassword: testSuperPass}
	clock := clockwork.NewFakeClock()
	metrics := &loginCounter{}
	users := usecase.NewUserUseCase(store, league, clock, nil, metrics)
	uc := auth.NewAuthUseCase(users, store, league, auth.JWTConfig{Secret: testSecret, Issuer: testIssuer, ExpMinutes: 60}, nil, metrics)
	return uc, store, metrics
}

func TestLogin_PrimerAccesoCreaSuperAdmin(t *testing.T) {
	uc, _, metrics := newAuth(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: "  ENRIPW@gmail.com ", Password: testSuperPass})
	require.NoError(t, err)
	assert.Equal(t, testSuperEmail, resp.User.Email)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	assert.True(t, resp.User.IsSuperAdmin)

	userID, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, []string{"ok"}, metrics.outcomes)
}

func TestLogin_CredencialesIncorrectas(t *testing.T) {
	uc, _, metrics := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: testSuperEmail, Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.EqualError(t, err, "Credenciales incorrectas")

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@liga.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "no se distingue email inexistente de contraseña errónea")

	_, err = uc.Login(ctx, dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, []string{"invalid_credentials", "invalid_credentials", "invalid"}, metrics.outcomes)
}

func TestLogin_MigraContraseñaHeredada(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()

	legacy := &entity.User{Email: "coach@liga.com", Password: "viejo", Name: "Coach", Role: entity.RoleViewer}
	require.NoError(t, store.Users().Create(ctx, legacy))

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "coach@liga.com", Password: "viejo"})
	require.NoError(t, err)

	stored, err := store.Users().GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	assert.True(t, password.IsHash(stored.Password))

	// Sigue entrando con la misma contraseña.
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "coach@liga.com", Password: "viejo"})
	assert.NoError(t, err)
}

func TestResolve_ReflejaCambiosDeRol(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()

	u := &entity.User{Email: "ta@liga.com", Name: "TA", Role: entity.RoleTeamAdmin, TeamID: "t1"}
	require.NoError(t, store.Users().Create(ctx, u))

	s, err := uc.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleTeamAdmin, s.Role)

	u.Role = entity.RoleViewer
	u.TeamID = ""
	require.NoError(t, store.Users().Update(ctx, u))
	s, err = uc.Resolve(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, s.Role)

	require.NoError(t, store.Users().Delete(ctx, u.ID))
	_, err = uc.Resolve(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_DuplicadoDelSuperNoEsAdmin(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: testSuperEmail, Password: testSuperPass})
	require.NoError(t, err)
	require.True(t, resp.User.IsSuperAdmin)

	dup := &entity.User{Email: testSuperEmail, Name: "Copia", Role: entity.RoleViewer, CreatedAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Users().Create(ctx, dup))

	s, err := uc.Resolve(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleViewer, s.Role, "un duplicado no hereda el rol admin")

	me, err := uc.Me(ctx, s)
	require.NoError(t, err)
	assert.False(t, me.IsSuperAdmin)

	s, err = uc.Resolve(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, s.Role)
}

func TestResolveToken(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: testSuperEmail, Password: testSuperPass})
	require.NoError(t, err)

	s, err := uc.ResolveToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, s.ID)

	_, err = uc.ResolveToken(ctx, "no-es-un-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other, err := jwt.Generate("otro-secreto", s.ID, testIssuer, 60)
	require.NoError(t, err)
	_, err = uc.ResolveToken(ctx, other)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefreshYMe(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: testSuperEmail, Password: testSuperPass})
	require.NoError(t, err)
	s, err := uc.ResolveToken(ctx, resp.Token)
	require.NoError(t, err)

	refreshed, err := uc.Refresh(ctx, s)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.Equal(t, s.ID, refreshed.User.ID)

	me, err := uc.Me(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, usecase.SuperAdminName, me.Name)

	_, err = uc.Refresh(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
