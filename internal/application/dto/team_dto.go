package dto

import "time"

// TeamRequest alta o edición de un equipo.
type TeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// TeamResponse salida de un equipo.
type TeamResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
