package localstore

import (
	"context"
	"sort"

	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/internal/infrastructure/docstore"
)

var (
	_ repository.TeamRepository   = (*teamRepo)(nil)
	_ repository.PlayerRepository = (*playerRepo)(nil)
	_ repository.UserRepository   = (*userRepo)(nil)
)

// ── teams ────────────────────────────────────────────────────────────────────

type teamRepo struct{ run runner }

func (r *teamRepo) List(ctx context.Context) ([]*entity.Team, error) {
	var out []*entity.Team
	err := r.run(func(st *state) error {
		recs, err := st.loadTeams()
		if err != nil {
			return err
		}
		out = make([]*entity.Team, 0, len(*recs))
		for _, rec := range *recs {
			out = append(out, rec.Entity())
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	var out *entity.Team
	err := r.run(func(st *state) error {
		recs, err := st.loadTeams()
		if err != nil {
			return err
		}
		for _, rec := range *recs {
			if rec.ID == id {
				out = rec.Entity()
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *teamRepo) Create(ctx context.Context, team *entity.Team) error {
	return r.run(func(st *state) error {
		recs, err := st.loadTeams()
		if err != nil {
			return err
		}
		if team.ID == "" {
			team.ID = docstore.NewID()
		}
		*recs = append(*recs, docstore.FromTeam(team))
		st.markDirty(KeyTeams)
		return nil
	})
}

func (r *teamRepo) Update(ctx context.Context, team *entity.Team) error {
	return r.run(func(st *state) error {
		recs, err := st.loadTeams()
		if err != nil {
			return err
		}
		for i := range *recs {
			if (*recs)[i].ID == team.ID {
				(*recs)[i] = docstore.FromTeam(team)
				st.markDirty(KeyTeams)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *teamRepo) Delete(ctx context.Context, id string) error {
	return r.run(func(st *state) error {
		recs, err := st.loadTeams()
		if err != nil {
			return err
		}
		for i := range *recs {
			if (*recs)[i].ID == id {
				*recs = append((*recs)[:i], (*recs)[i+1:]...)
				st.markDirty(KeyTeams)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// ── players ──────────────────────────────────────────────────────────────────

type playerRepo struct{ run runner }

func (r *playerRepo) List(ctx context.Context, filter repository.PlayerFilter) ([]*entity.Player, error) {
	var out []*entity.Player
	err := r.run(func(st *state) error {
		recs, err := st.loadPlayers()
		if err != nil {
			return err
		}
		for _, rec := range *recs {
			if filter.TeamID != "" && rec.TeamID != filter.TeamID {
				continue
			}
			out = append(out, rec.Entity())
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *playerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	return r.find(func(rec docstore.PlayerRecord) bool { return rec.ID == id })
}

func (r *playerRepo) FindByDNI(ctx context.Context, dni string) (*entity.Player, error) {
	return r.find(func(rec docstore.PlayerRecord) bool { return rec.DNI == dni })
}

func (r *playerRepo) ExistsByTeam(ctx context.Context, teamID string) (bool, error) {
	p, err := r.find(func(rec docstore.PlayerRecord) bool { return rec.TeamID == teamID })
	return p != nil, err
}

func (r *playerRepo) find(pred func(docstore.PlayerRecord) bool) (*entity.Player, error) {
	var out *entity.Player
	err := r.run(func(st *state) error {
		recs, err := st.loadPlayers()
		if err != nil {
			return err
		}
		for _, rec := range *recs {
			if pred(rec) {
				out = rec.Entity()
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *playerRepo) Create(ctx context.Context, player *entity.Player) error {
	return r.run(func(st *state) error {
		recs, err := st.loadPlayers()
		if err != nil {
			return err
		}
		if player.ID == "" {
			player.ID = docstore.NewID()
		}
		*recs = append(*recs, docstore.FromPlayer(player))
		st.markDirty(KeyPlayers)
		return nil
	})
}

func (r *playerRepo) Update(ctx context.Context, player *entity.Player) error {
	return r.run(func(st *state) error {
		recs, err := st.loadPlayers()
		if err != nil {
			return err
		}
		for i := range *recs {
			if (*recs)[i].ID == player.ID {
				(*recs)[i] = docstore.FromPlayer(player)
				st.markDirty(KeyPlayers)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *playerRepo) Delete(ctx context.Context, id string) error {
	return r.run(func(st *state) error {
		recs, err := st.loadPlayers()
		if err != nil {
			return err
		}
		for i := range *recs {
			if (*recs)[i].ID == id {
				*recs = append((*recs)[:i], (*recs)[i+1:]...)
				st.markDirty(KeyPlayers)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ run runner }

func (r *userRepo) List(ctx context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.run(func(st *state) error {
		recs, err := st.loadUsers()
		if err != nil {
			return err
		}
		out = make([]*entity.User, 0, len(*recs))
		for _, rec := range *recs {
			out = append(out, rec.Entity())
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.find(func(rec docstore.UserRecord) bool { return rec.ID == id })
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.find(func(rec docstore.UserRecord) bool { return rec.Email == email })
}

func (r *userRepo) ExistsTeamAdmin(ctx context.Context, teamID string) (bool, error) {
	u, err := r.find(func(rec docstore.UserRecord) bool {
		return rec.Role == entity.RoleTeamAdmin && rec.TeamID == teamID
	})
	return u != nil, err
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	n := 0
	err := r.run(func(st *state) error {
		recs, err := st.loadUsers()
		if err != nil {
			return err
		}
		n = len(*recs)
		return nil
	})
	return n, err
}

func (r *userRepo) find(pred func(docstore.UserRecord) bool) (*entity.User, error) {
	var out *entity.User
	err := r.run(func(st *state) error {
		recs, err := st.loadUsers()
		if err != nil {
			return err
		}
		for _, rec := range *recs {
			if pred(rec) {
				out = rec.Entity()
				break
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Create(ctx context.Context, user *entity.User) error {
	return r.run(func(st *state) error {
		recs, err := st.loadUsers()
		if err != nil {
			return err
		}
		if user.ID == "" {
			user.ID = docstore.NewID()
		}
		*recs = append(*recs, docstore.FromUser(user))
		st.markDirty(KeyUsers)
		return nil
	})
}

func (r *userRepo) Update(ctx context.Context, user *entity.User) error {
	return r.run(func(st *state) error {
		recs, err := st.loadUsers()
		if err != nil {
			return err
		}
		for i := range *recs {
			if (*recs)[i].ID == user.ID {
				(*recs)[i] = docstore.FromUser(user)
				st.markDirty(KeyUsers)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.run(func(st *state) error {
		recs, err := st.loadUsers()
		if err != nil {
			return err
		}
		for i := range *recs {
			if (*recs)[i].ID == id {
				*recs = append((*recs)[:i], (*recs)[i+1:]...)
				st.markDirty(KeyUsers)
				return nil
			}
		}
		return domain.ErrNotFound
	})
}
