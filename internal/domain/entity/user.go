package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleTeamAdmin = "team_admin"
	RoleViewer    = "viewer"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeamAdmin, RoleViewer:
		return true
	}
	return false
}

// User representa una cuenta de la liga.
type User struct {
	ID       string
	Email    string // normalizado: minúsculas y sin espacios
	Password string // hash bcrypt; los registros heredados pueden traer texto plano hasta el próximo login
	Name     string
	Role     string // admin, team_admin, viewer
	TeamID   string // obligatorio para team_admin
	// CreatedAt se persiste en milisegundos Unix.
	CreatedAt time.Time
}

// Session devuelve la identidad del usuario sin contraseña.
func (u *User) Session() *Session {
	if u == nil {
		return nil
	}
	return &Session{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		TeamID:    u.TeamID,
		CreatedAt: u.CreatedAt,
	}
}
