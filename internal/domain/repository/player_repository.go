package repository

import (
	"context"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
)

// PlayerFilter filtros soportados por el almacenamiento. TeamID vacío = todos los equipos.
type PlayerFilter struct {
	TeamID string
}

// PlayerRepository puerto de persistencia para la colección players.
type PlayerRepository interface {
	// List ordena por fecha de creación descendente.
	List(ctx context.Context, filter PlayerFilter) ([]*entity.Player, error)
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	FindByDNI(ctx context.Context, dni string) (*entity.Player, error)
	Create(ctx context.Context, player *entity.Player) error
	Update(ctx context.Context, player *entity.Player) error
	Delete(ctx context.Context, id string) error
	// ExistsByTeam indica si algún jugador referencia teamID.
	ExistsByTeam(ctx context.Context, teamID string) (bool, error)
}
