package postgres

import (
	"context"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

var _ repository.PlayerRepository = (*PlayerRepo)(nil)

// PlayerRepo implementación del puerto PlayerRepository sobre la tabla documents.
type PlayerRepo struct {
	docs documents[docstore.PlayerRecord]
}

// NewPlayerRepository construye el adaptador de persistencia para jugadores.
func NewPlayerRepository(q Querier) *PlayerRepo {
	return &PlayerRepo{docs: documents[docstore.PlayerRecord]{
		q:          q,
		collection: docstore.Players,
		setID:      func(r *docstore.PlayerRecord, id string) { r.ID = id },
	}}
}

func (r *PlayerRepo) List(ctx context.Context, filter repository.PlayerFilter) ([]*entity.Player, error) {
	var (
		recs []docstore.PlayerRecord
		err  error
	)
	if filter.TeamID != "" {
		recs, err = r.docs.list(ctx, field("teamId")+" = $2", filter.TeamID)
	} else {
		recs, err = r.docs.list(ctx, "")
	}
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Player, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Entity())
	}
	return out, nil
}

func (r *PlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	rec, err := r.docs.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Entity(), nil
}

func (r *PlayerRepo) FindByDNI(ctx context.Context, dni string) (*entity.Player, error) {
	rec, err := r.docs.one(ctx, field("dni")+" = $2", dni)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Entity(), nil
}

func (r *PlayerRepo) ExistsByTeam(ctx context.Context, teamID string) (bool, error) {
	return r.docs.exists(ctx, field("teamId")+" = $2", teamID)
}

// Create persiste un jugador. ErrDuplicateDNI si el índice único lo rechaza.
func (r *PlayerRepo) Create(ctx context.Context, player *entity.Player) error {
	rec := docstore.FromPlayer(player)
	id, err := r.docs.insert(ctx, player.ID, rec.CreatedAt, rec)
	if err != nil {
		return err
	}
	player.ID = id
	return nil
}

func (r *PlayerRepo) Update(ctx context.Context, player *entity.Player) error {
	rec := docstore.FromPlayer(player)
	return r.docs.update(ctx, player.ID, rec.CreatedAt, rec)
}

func (r *PlayerRepo) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}
