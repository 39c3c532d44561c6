// Package docstore define el formato de los documentos de las colecciones teams, players y users.
// Los nombres de campo son los que ya usa la base existente (camelCase, createdAt en milisegundos),
// compartidos por los backends Firestore, PostgreSQL (JSONB) y archivos locales.
package docstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// Nombres de colección.
const (
	Teams   = "teams"
	Players = "players"
	Users   = "users"
)

// TeamRecord documento de la colección teams.
type TeamRecord struct {
	ID        string `json:"id,omitempty" firestore:"-"`
	Name      string `json:"name" firestore:"name"`
	CreatedAt int64  `json:"createdAt" firestore:"createdAt"`
}

// PlayerRecord documento de la colección players.
type PlayerRecord struct {
	ID        string `json:"id,omitempty" firestore:"-"`
	FirstName string `json:"firstName" firestore:"firstName"`
	LastName  string `json:"lastName" firestore:"lastName"`
	BirthDate string `json:"birthDate" firestore:"birthDate"`
	DNI       string `json:"dni" firestore:"dni"`
	PhotoURL  string `json:"photoUrl,omitempty" firestore:"photoUrl,omitempty"`
	TeamID    string `json:"teamId" firestore:"teamId"`
	CreatedAt int64  `json:"createdAt" firestore:"createdAt"`
}

// UserRecord documento de la colección users.
type UserRecord struct {
	ID        string `json:"id,omitempty" firestore:"-"`
	Email     string `json:"email" firestore:"email"`
	Password  string `json:"password" firestore:"password"`
	Name      string `json:"name" firestore:"name"`
	Role      string `json:"role" firestore:"role"`
	TeamID    string `json:"teamId,omitempty" firestore:"teamId,omitempty"`
	CreatedAt int64  `json:"createdAt" firestore:"createdAt"`
}

// NewID genera un identificador para backends sin ids propios.
func NewID() string {
	return uuid.NewString()
}

// Millis convierte a milisegundos Unix (0 para tiempo cero).
func Millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis inverso de Millis.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func FromTeam(t *entity.Team) TeamRecord {
	return TeamRecord{ID: t.ID, Name: t.Name, CreatedAt: Millis(t.CreatedAt)}
}

func (r TeamRecord) Entity() *entity.Team {
	return &entity.Team{ID: r.ID, Name: r.Name, CreatedAt: FromMillis(r.CreatedAt)}
}

func FromPlayer(p *entity.Player) PlayerRecord {
	return PlayerRecord{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate,
		DNI:       p.DNI,
		PhotoURL:  p.PhotoURL,
		TeamID:    p.TeamID,
		CreatedAt: Millis(p.CreatedAt),
	}
}

func (r PlayerRecord) Entity() *entity.Player {
	return &entity.Player{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: r.BirthDate,
		DNI:       r.DNI,
		PhotoURL:  r.PhotoURL,
		TeamID:    r.TeamID,
		CreatedAt: FromMillis(r.CreatedAt),
	}
}

func FromUser(u *entity.User) UserRecord {
	return UserRecord{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Name:      u.Name,
		Role:      u.Role,
		TeamID:    u.TeamID,
		CreatedAt: Millis(u.CreatedAt),
	}
}

func (r UserRecord) Entity() *entity.User {
	return &entity.User{
		ID:        r.ID,
		Email:     r.Email,
		Password:  r.Password,
		Name:      r.Name,
		Role:      r.Role,
		TeamID:    r.TeamID,
		CreatedAt: FromMillis(r.CreatedAt),
	}
}
