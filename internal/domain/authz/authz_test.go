package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones de prueba
// ──────────────────────────────────────────────────────────────────────────────

const superEmail = "enripw@gmail.com"

var (
	superAdmin = &entity.Session{ID: "u0", Email: superEmail, Role: entity.RoleAdmin}
	admin      = &entity.Session{ID: "u1", Email: "otro@liga.org", Role: entity.RoleAdmin}
	teamAdminT = &entity.Session{ID: "u2", Email: "t@liga.org", Role: entity.RoleTeamAdmin, TeamID: "T"}
	viewer     = &entity.Session{ID: "u3", Email: "v@liga.org", Role: entity.RoleViewer}
	playerT    = &entity.Player{ID: "p1", TeamID: "T"}
	playerU    = &entity.Player{ID: "p2", TeamID: "U"}
)

// ──────────────────────────────────────────────────────────────────────────────
// Predicados de rol
// ──────────────────────────────────────────────────────────────────────────────

func TestIsSuperAdmin(t *testing.T) {
	assert.True(t, authz.IsSuperAdmin(superAdmin, superEmail))
	assert.False(t, authz.IsSuperAdmin(admin, superEmail))
	assert.False(t, authz.IsSuperAdmin(nil, superEmail))

	// El email reservado con otro rol no es superadmin.
	degradado := &entity.Session{Email: superEmail, Role: entity.RoleViewer}
	assert.False(t, authz.IsSuperAdmin(degradado, superEmail))
}

func TestPredicadosDeRol(t *testing.T) {
	assert.True(t, authz.IsAdmin(admin))
	assert.True(t, authz.IsTeamAdmin(teamAdminT))
	assert.True(t, authz.IsViewer(viewer))
	assert.False(t, authz.IsViewer(admin))
	assert.False(t, authz.IsAdmin(nil))
	assert.False(t, authz.IsTeamAdmin(nil))
	assert.False(t, authz.IsViewer(nil))
}

func TestCanEdit_TeamAdminSoloSuEquipo(t *testing.T) {
	assert.True(t, authz.CanEdit(teamAdminT, playerT))
	assert.False(t, authz.CanEdit(teamAdminT, playerU))
}

func TestCanEdit_AdminCualquierEquipo(t *testing.T) {
	assert.True(t, authz.CanEdit(admin, playerU))
	assert.True(t, authz.CanEdit(superAdmin, playerT))
	assert.False(t, authz.CanEdit(viewer, playerT))
	assert.False(t, authz.CanEdit(nil, playerT))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestCan_TablaDePermisos(t *testing.T) {
	cases := []struct {
		name   string
		s      *entity.Session
		action authz.Action
		player *entity.Player
		want   bool
	}{
		{"admin gestiona equipos", admin, authz.ManageTeams, nil, true},
		{"admin gestiona usuarios", admin, authz.ManageUsers, nil, true},
		{"team_admin no gestiona equipos", teamAdminT, authz.ManageTeams, nil, false},
		{"team_admin no gestiona usuarios", teamAdminT, authz.ManageUsers, nil, false},
		{"team_admin crea en su equipo", teamAdminT, authz.CreatePlayer, playerT, true},
		{"team_admin no crea en otro equipo", teamAdminT, authz.CreatePlayer, playerU, false},
		{"team_admin borra de su equipo", teamAdminT, authz.DeletePlayer, playerT, true},
		{"viewer no crea", viewer, authz.CreatePlayer, nil, false},
		{"viewer no edita", viewer, authz.EditPlayer, playerT, false},
		{"viewer ve jugadores", viewer, authz.ViewPlayer, playerU, true},
		{"viewer lista", viewer, authz.ListPlayers, nil, true},
		{"viewer ve dashboard", viewer, authz.ViewDashboard, nil, true},
		{"anónimo no ve nada", nil, authz.ViewPlayer, playerT, false},
		{"rol desconocido no ve nada", &entity.Session{Role: "root"}, authz.ListPlayers, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, authz.Can(tc.s, tc.action, tc.player))
		})
	}
}

func TestAuthorize_Errores(t *testing.T) {
	assert.ErrorIs(t, authz.Authorize(nil, authz.ListPlayers, nil), domain.ErrUnauthorized)
	assert.ErrorIs(t, authz.Authorize(viewer, authz.ManageUsers, nil), domain.ErrForbidden)
	assert.NoError(t, authz.Authorize(admin, authz.ManageUsers, nil))
}

func TestPlayerScope(t *testing.T) {
	scope, err := authz.PlayerScope(teamAdminT, "U")
	assert.NoError(t, err)
	assert.Equal(t, "T", scope, "team_admin siempre queda en su equipo")

	scope, err = authz.PlayerScope(viewer, "U")
	assert.NoError(t, err)
	assert.Equal(t, "U", scope)

	scope, err = authz.PlayerScope(admin, "")
	assert.NoError(t, err)
	assert.Empty(t, scope)

	_, err = authz.PlayerScope(&entity.Session{Role: entity.RoleTeamAdmin}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = authz.PlayerScope(nil, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
