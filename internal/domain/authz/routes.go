package authz

import (
	"strings"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// Rutas de destino cuando se bloquea la navegación.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// Requirement nivel de acceso que exige una ruta del front-end.
type Requirement int

const (
	Public Requirement = iota
	Authenticated
	PlayerEditor // admin o team_admin con equipo
	AdminOnly
)

type route struct {
	pattern string
	req     Requirement
}

var routes = []route{
	{"/login", Public},
	{"/", Authenticated},
	{"/perfil", Authenticated},
	{"/jugadores", Authenticated},
	{"/jugadores/nuevo", PlayerEditor},
	{"/jugadores/editar/:id", PlayerEditor},
	{"/jugadores/ver/:id", Authenticated},
	{"/usuarios", AdminOnly},
	{"/usuarios/nuevo", AdminOnly},
	{"/usuarios/editar/:id", AdminOnly},
	{"/equipos", AdminOnly},
	{"/equipos/nuevo", AdminOnly},
	{"/equipos/editar/:id", AdminOnly},
}

// Decision resultado de evaluar una navegación.
type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// RequirementFor devuelve lo que exige path. Las rutas desconocidas exigen sesión.
func RequirementFor(path string) Requirement {
	segs := splitPath(path)
	for _, r := range routes {
		if match(splitPath(r.pattern), segs) {
			return r.req
		}
	}
	return Authenticated
}

// Guard decide si la sesión puede navegar a path. Sin sesión redirige a /login;
// con sesión pero sin permiso redirige a /.
func Guard(s *entity.Session, path string) Decision {
	req := RequirementFor(path)
	if req == Public {
		return Decision{Allowed: true}
	}
	if s == nil {
		return Decision{Redirect: LoginRoute}
	}
	ok := false
	switch req {
	case Authenticated:
		ok = entity.ValidRole(s.Role)
	case PlayerEditor:
		ok = Can(s, CreatePlayer, nil)
	case AdminOnly:
		ok = IsAdmin(s)
	}
	if !ok {
		return Decision{Redirect: HomeRoute}
	}
	return Decision{Allowed: true}
}

func splitPath(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func match(pattern, segs []string) bool {
	if len(pattern) != len(segs) {
		return false
	}
	for i, ps := range pattern {
		if strings.HasPrefix(ps, ":") {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if ps != segs[i] {
			return false
		}
	}
	return true
}
