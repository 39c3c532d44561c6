package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
)

func TestGuard_AnonimoVaALogin(t *testing.T) {
	for _, path := range []string{"/", "/perfil", "/jugadores", "/jugadores/ver/abc", "/usuarios", "/equipos/editar/1", "/desconocida"} {
		d := authz.Guard(nil, path)
		assert.False(t, d.Allowed, path)
		assert.Equal(t, authz.LoginRoute, d.Redirect, path)
	}
}

func TestGuard_LoginEsPublico(t *testing.T) {
	assert.Equal(t, authz.Decision{Allowed: true}, authz.Guard(nil, "/login"))
}

func TestGuard_RutasDeAdminRedirigenAlInicio(t *testing.T) {
	for _, path := range []string{"/usuarios", "/usuarios/nuevo", "/usuarios/editar/u9", "/equipos", "/equipos/nuevo", "/equipos/editar/t1"} {
		for name, d := range map[string]authz.Decision{
			"team_admin": authz.Guard(teamAdminT, path),
			"viewer":     authz.Guard(viewer, path),
		} {
			assert.False(t, d.Allowed, name+" "+path)
			assert.Equal(t, authz.HomeRoute, d.Redirect, name+" "+path)
		}
		assert.True(t, authz.Guard(admin, path).Allowed, "admin "+path)
		assert.True(t, authz.Guard(superAdmin, path).Allowed, "superadmin "+path)
	}
}

func TestGuard_FormularioDeJugador(t *testing.T) {
	assert.True(t, authz.Guard(teamAdminT, "/jugadores/nuevo").Allowed)
	assert.True(t, authz.Guard(admin, "/jugadores/editar/p1").Allowed)

	d := authz.Guard(viewer, "/jugadores/editar/p1")
	assert.False(t, d.Allowed)
	assert.Equal(t, authz.HomeRoute, d.Redirect)

	assert.True(t, authz.Guard(viewer, "/jugadores/ver/p1").Allowed)
}

func TestRequirementFor_NormalizaRuta(t *testing.T) {
	assert.Equal(t, authz.AdminOnly, authz.RequirementFor("/usuarios/"))
	assert.Equal(t, authz.AdminOnly, authz.RequirementFor("/equipos?page=2"))
	assert.Equal(t, authz.Authenticated, authz.RequirementFor("/jugadores/ver/"))
	assert.Equal(t, authz.Public, authz.RequirementFor("/login#x"))
}
