package entity

import (
	"strings"
	"time"
)

// Player representa un jugador inscrito en un equipo.
type Player struct {
	ID        string
	FirstName string
	LastName  string
	BirthDate string // YYYY-MM-DD
	DNI       string // documento sin puntos ni espacios, único entre jugadores
	PhotoURL  string // vacío si no tiene foto
	TeamID    string
	CreatedAt time.Time
}

// FullName nombre y apellido separados por un espacio.
func (p *Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
