package usecase

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/liga-formativa-api/internal/application/dto"
	"github.com/jhoicas/liga-formativa-api/internal/application/ports"
	"github.com/jhoicas/liga-formativa-api/internal/domain"
	"github.com/jhoicas/liga-formativa-api/internal/domain/authz"
	"github.com/jhoicas/liga-formativa-api/internal/domain/entity"
	"github.com/jhoicas/liga-formativa-api/internal/domain/repository"
	"github.com/jhoicas/liga-formativa-api/pkg/textutil"
)

// TeamUseCase CRUD de equipos (solo administradores).
type TeamUseCase struct {
	store   repository.Store
	cfg     LeagueConfig
	clock   clockwork.Clock
	metrics ports.Metrics
}

// NewTeamUseCase construye el caso de uso.
func NewTeamUseCase(store repository.Store, cfg LeagueConfig, clock clockwork.Clock, metrics ports.Metrics) *TeamUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &TeamUseCase{store: store, cfg: cfg, clock: clock, metrics: metrics}
}

// ListTeams ordenados por fecha de creación descendente.
func (uc *TeamUseCase) ListTeams(ctx context.Context, s *entity.Session) ([]dto.TeamResponse, error) {
	if err := authz.Authorize(s, authz.ManageTeams, nil); err != nil {
		return nil, err
	}
	teams, err := uc.store.Teams().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar equipos: %w", err)
	}
	out := make([]dto.TeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamResponse(t))
	}
	return out, nil
}

// GetTeamByID obtiene un equipo; ErrNotFound si no existe.
func (uc *TeamUseCase) GetTeamByID(ctx context.Context, s *entity.Session, id string) (*dto.TeamResponse, error) {
	if err := authz.Authorize(s, authz.ManageTeams, nil); err != nil {
		return nil, err
	}
	t, err := uc.store.Teams().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener equipo: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	resp := toTeamResponse(t)
	return &resp, nil
}

// CreateTeam crea un equipo.
func (uc *TeamUseCase) CreateTeam(ctx context.Context, s *entity.Session, in dto.TeamRequest) (resp *dto.TeamResponse, err error) {
	defer func() { uc.metrics.RecordSaved("teams", "create", outcome(err)) }()

	if err := authz.Authorize(s, authz.ManageTeams, nil); err != nil {
		return nil, err
	}
	in.Name = textutil.Clean(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}
	team := &entity.Team{Name: in.Name, CreatedAt: uc.clock.Now()}
	err = withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		return uc.store.Teams().Create(ctx, team)
	})
	if err != nil {
		return nil, err
	}
	out := toTeamResponse(team)
	return &out, nil
}

// UpdateTeam renombra un equipo.
func (uc *TeamUseCase) UpdateTeam(ctx context.Context, s *entity.Session, id string, in dto.TeamRequest) (resp *dto.TeamResponse, err error) {
	defer func() { uc.metrics.RecordSaved("teams", "update", outcome(err)) }()

	if err := authz.Authorize(s, authz.ManageTeams, nil); err != nil {
		return nil, err
	}
	in.Name = textutil.Clean(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}
	var updated *entity.Team
	err = withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			t, err := tx.Teams().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if t == nil {
				return domain.ErrNotFound
			}
			t.Name = in.Name
			if err := tx.Teams().Update(ctx, t); err != nil {
				return err
			}
			updated = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	out := toTeamResponse(updated)
	return &out, nil
}

// DeleteTeam elimina un equipo sin referencias. ErrTeamInUse mientras algún jugador o
// team_admin apunte a él: primero hay que reasignarlos.
func (uc *TeamUseCase) DeleteTeam(ctx context.Context, s *entity.Session, id string) (err error) {
	defer func() { uc.metrics.RecordSaved("teams", "delete", outcome(err)) }()

	if err := authz.Authorize(s, authz.ManageTeams, nil); err != nil {
		return err
	}
	return withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			t, err := tx.Teams().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if t == nil {
				return domain.ErrNotFound
			}
			used, err := tx.Players().ExistsByTeam(ctx, id)
			if err != nil {
				return err
			}
			if !used {
				used, err = tx.Users().ExistsTeamAdmin(ctx, id)
				if err != nil {
					return err
				}
			}
			if used {
				return domain.ErrTeamInUse
			}
			return tx.Teams().Delete(ctx, id)
		})
	})
}

// TeamNames mapa id -> nombre para resolver teamName en respuestas de jugadores.
func TeamNames(ctx context.Context, repo repository.TeamRepository) (map[string]string, error) {
	teams, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar equipos: %w", err)
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}
