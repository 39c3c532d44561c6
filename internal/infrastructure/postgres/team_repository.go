package postgres

import (
	"context"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

var _ repository.TeamRepository = (*TeamRepo)(nil)

// TeamRepo implementación del puerto TeamRepository sobre la tabla documents.
type TeamRepo struct {
	docs documents[docstore.TeamRecord]
}

// NewTeamRepository construye el adaptador de persistencia para equipos.
func NewTeamRepository(q Querier) *TeamRepo {
	return &TeamRepo{docs: documents[docstore.TeamRecord]{
		q:          q,
		collection: docstore.Teams,
		setID:      func(r *docstore.TeamRecord, id string) { r.ID = id },
	}}
}

func (r *TeamRepo) List(ctx context.Context) ([]*entity.Team, error) {
	recs, err := r.docs.list(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Team, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Entity())
	}
	return out, nil
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	rec, err := r.docs.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Entity(), nil
}

func (r *TeamRepo) Create(ctx context.Context, team *entity.Team) error {
	rec := docstore.FromTeam(team)
	id, err := r.docs.insert(ctx, team.ID, rec.CreatedAt, rec)
	if err != nil {
		return err
	}
	team.ID = id
	return nil
}

func (r *TeamRepo) Update(ctx context.Context, team *entity.Team) error {
	rec := docstore.FromTeam(team)
	return r.docs.update(ctx, team.ID, rec.CreatedAt, rec)
}

func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}
