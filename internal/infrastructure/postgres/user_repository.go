package postgres

import (
	"context"

	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre la tabla documents.
type UserRepo struct {
	docs documents[docstore.UserRecord]
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{docs: documents[docstore.UserRecord]{
		q:          q,
		collection: docstore.Users,
		setID:      func(r *docstore.UserRecord, id string) { r.ID = id },
	}}
}

func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	recs, err := r.docs.list(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.Entity())
	}
	return out, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	rec, err := r.docs.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Entity(), nil
}

// FindByEmail espera el email ya normalizado.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	rec, err := r.docs.one(ctx, field("email")+" = $2", email)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Entity(), nil
}

func (r *UserRepo) ExistsTeamAdmin(ctx context.Context, teamID string) (bool, error) {
	return r.docs.exists(ctx, field("role")+" = $2 AND "+field("teamId")+" = $3", entity.RoleTeamAdmin, teamID)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	return r.docs.count(ctx)
}

// Create persiste un nuevo usuario. ErrDuplicateEmail si el índice único lo rechaza.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	rec := docstore.FromUser(user)
	id, err := r.docs.insert(ctx, user.ID, rec.CreatedAt, rec)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	rec := docstore.FromUser(user)
	return r.docs.update(ctx, user.ID, rec.CreatedAt, rec)
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}
