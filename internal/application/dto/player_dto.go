package dto

import "time"

// PlayerPhoto archivo de imagen adjunto a un alta o edición de jugador.
type PlayerPhoto struct {
	Filename string
	Data     []byte
}

// CreatePlayerRequest alta de jugador.
type CreatePlayerRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required,min=1,max=80"`
	LastName  string `json:"lastName" form:"lastName" validate:"required,min=1,max=80"`
	BirthDate string `json:"birthDate" form:"birthDate" validate:"required,fecha"`
	DNI       string `json:"dni" form:"dni" validate:"required,max=20"`
	TeamID    string `json:"teamId" form:"teamId" validate:"required,max=100"`
	// PhotoURL permite conservar una URL ya alojada (por ejemplo al importar).
	PhotoURL string `json:"photoUrl" form:"photoUrl" validate:"omitempty,url,max=500"`
}

// UpdatePlayerRequest cambios parciales; los campos nil no se tocan.
type UpdatePlayerRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=80"`
	BirthDate *string `json:"birthDate" validate:"omitempty,fecha"`
	DNI       *string `json:"dni" validate:"omitempty,min=1,max=20"`
	TeamID    *string `json:"teamId" validate:"omitempty,min=1,max=100"`
	PhotoURL  *string `json:"photoUrl" validate:"omitempty,max=500"`
}

// PlayerListQuery filtros del listado.
type PlayerListQuery struct {
	TeamID string `query:"teamId"`
	Search string `query:"q"`
}

// PlayerResponse salida de un jugador con el nombre de su equipo resuelto.
type PlayerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	BirthDate string    `json:"birthDate"`
	DNI       string    `json:"dni"`
	PhotoURL  string    `json:"photoUrl"`
	TeamID    string    `json:"teamId"`
	TeamName  string    `json:"teamName"`
	CanEdit   bool      `json:"canEdit"`
	CreatedAt time.Time `json:"createdAt"`
}
