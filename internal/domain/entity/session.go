package entity

import "time"

// Session es la identidad autenticada: un User sin contraseña.
// Es el único objeto que se usa para decidir permisos; nil significa no autenticado.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	TeamID    string    `json:"teamId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
