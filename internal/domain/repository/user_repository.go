package repository

import (
	"context"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para la colección users (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay registro.
type UserRepository interface {
	// List devuelve todos los usuarios, más recientes primero.
	List(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByEmail compara contra el email normalizado.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	// Create asigna ID si viene vacío.
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// ExistsTeamAdmin indica si algún team_admin referencia teamID.
	ExistsTeamAdmin(ctx context.Context, teamID string) (bool, error)
}
