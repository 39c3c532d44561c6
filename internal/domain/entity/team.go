package entity

import "time"

// NoTeamName nombre mostrado cuando un jugador referencia un equipo eliminado.
const NoTeamName = "Sin equipo"

// Team representa un equipo de la liga.
type Team struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
