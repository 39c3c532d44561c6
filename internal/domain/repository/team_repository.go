package repository

import (
	"context"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// TeamRepository puerto de persistencia para la colección teams.
type TeamRepository interface {
	// List ordena por fecha de creación descendente.
	List(ctx context.Context) ([]*entity.Team, error)
	GetByID(ctx context.Context, id string) (*entity.Team, error)
	Create(ctx context.Context, team *entity.Team) error
	Update(ctx context.Context, team *entity.Team) error
	Delete(ctx context.Context, id string) error
}
