package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin team_admin viewer"`
	TeamID   string `json:"teamId" validate:"required_if=Role team_admin,max=100"`
}

// UpdateUserRequest cambios parciales; los campos nil no se tocan.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=200"`
	Password *string `json:"password" validate:"omitempty,min=4,max=72"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin team_admin viewer"`
	TeamID   *string `json:"teamId" validate:"omitempty,max=100"`
}

// UpdateProfileRequest edición de la propia cuenta: no permite cambiar rol ni equipo.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email    *string `json:"email" validate:"omitempty,email,max=200"`
	Password *string `json:"password" validate:"omitempty,min=4,max=72"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	TeamID       string    `json:"teamId,omitempty"`
	IsSuperAdmin bool      `json:"isSuperAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=200"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginResponse token de sesión y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
