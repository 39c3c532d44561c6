// Package authz decide permisos a partir de la sesión actual.
//
// Todas las funciones son puras: reciben la sesión en cada llamada y no guardan estado,
// de modo que un cambio de rol se refleja en la siguiente decisión. Una sesión nil es un
// usuario no autenticado.
package authz

import (
	"strings"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// Action acción protegida.
type Action string

const (
	ViewDashboard Action = "viewDashboard"
	ManageTeams   Action = "manageTeams"
	ManageUsers   Action = "manageUsers"
	CreatePlayer  Action = "createPlayer"
	EditPlayer    Action = "editPlayer"
	DeletePlayer  Action = "deletePlayer"
	ViewPlayer    Action = "viewPlayer"
	ListPlayers   Action = "listPlayers"
)

// IsSuperAdmin rol admin y email reservado.
func IsSuperAdmin(s *entity.Session, superEmail string) bool {
	return IsAdmin(s) && superEmail != "" && strings.EqualFold(strings.TrimSpace(s.Email), superEmail)
}

func IsAdmin(s *entity.Session) bool     { return s != nil && s.Role == entity.RoleAdmin }
func IsTeamAdmin(s *entity.Session) bool { return s != nil && s.Role == entity.RoleTeamAdmin }
func IsViewer(s *entity.Session) bool    { return s != nil && s.Role == entity.RoleViewer }

// CanEdit admin edita cualquier jugador; team_admin solo los de su equipo.
func CanEdit(s *entity.Session, p *entity.Player) bool {
	if IsAdmin(s) {
		return true
	}
	return IsTeamAdmin(s) && p != nil && s.TeamID != "" && s.TeamID == p.TeamID
}

// Can evalúa action para la sesión. player es el recurso afectado cuando aplica; con player nil
// las acciones sobre jugadores se evalúan a nivel de ruta (¿puede el rol hacerlo en algún equipo?).
func Can(s *entity.Session, action Action, player *entity.Player) bool {
	if s == nil || !entity.ValidRole(s.Role) {
		return false
	}
	switch action {
	case ViewDashboard, ViewPlayer, ListPlayers:
		return true
	case ManageTeams, ManageUsers:
		return IsAdmin(s)
	case CreatePlayer, EditPlayer, DeletePlayer:
		if player == nil {
			return IsAdmin(s) || (IsTeamAdmin(s) && s.TeamID != "")
		}
		return CanEdit(s, player)
	}
	return false
}

// Authorize igual que Can pero como error: ErrUnauthorized sin sesión, ErrForbidden si se deniega.
func Authorize(s *entity.Session, action Action, player *entity.Player) error {
	if s == nil {
		return domain.ErrUnauthorized
	}
	if !Can(s, action, player) {
		return domain.ErrForbidden
	}
	return nil
}

// PlayerScope devuelve el filtro de equipo efectivo para listar jugadores.
// team_admin queda siempre limitado a su equipo; admin y viewer usan el filtro pedido ("" = todos).
func PlayerScope(s *entity.Session, requestedTeamID string) (string, error) {
	if err := Authorize(s, ListPlayers, nil); err != nil {
		return "", err
	}
	if IsTeamAdmin(s) {
		if s.TeamID == "" {
			return "", domain.ErrForbidden
		}
		return s.TeamID, nil
	}
	return requestedTeamID, nil
}
