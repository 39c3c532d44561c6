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
	"github.com/jhoicas/liga-formativa-api/pkg/logger"
	"github.com/jhoicas/liga-formativa-api/pkg/password"
	"github.com/jhoicas/liga-formativa-api/pkg/textutil"
)

// UserUseCase aplica reglas de negocio para usuarios: email único, superadministrador protegido
// y nunca eliminar el último usuario. Todas las comprobaciones se hacen en la misma transacción
// que la escritura.
type UserUseCase struct {
	store   repository.Store
	cfg     LeagueConfig
	clock   clockwork.Clock
	log     *logger.Logger
	metrics ports.Metrics
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(store repository.Store, cfg LeagueConfig, clock clockwork.Clock, log *logger.Logger, metrics ports.Metrics) *UserUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{store: store, cfg: cfg, clock: clock, log: log, metrics: metrics}
}

func (uc *UserUseCase) isSuper(u *entity.User) bool {
	return u != nil && textutil.NormalizeEmail(u.Email) == uc.cfg.SuperEmail()
}

// EnsureSuperAdmin devuelve todos los usuarios garantizando que el superadministrador exista y
// tenga rol admin. Si falta se crea en la misma transacción que la lectura; si su rol fue alterado
// se corrige aparte y un fallo en esa corrección solo se registra. Si hay varios registros con el
// email reservado, solo el más antiguo es el superadministrador.
func (uc *UserUseCase) EnsureSuperAdmin(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	err := uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
		list, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}
		if uc.primarySuper(list) != nil {
			users = list
			return nil
		}
		hash, err := password.Hash(uc.cfg.SuperAdminPassword)
		if err != nil {
			return err
		}
		seed := &entity.User{
			Email:     uc.cfg.SuperEmail(),
			Password:  hash,
			Name:      SuperAdminName,
			Role:      entity.RoleAdmin,
			CreatedAt: uc.clock.Now(),
		}
		if err := tx.Users().Create(ctx, seed); err != nil {
			return err
		}
		users = append(list, seed)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}

	primary := uc.primarySuper(users)
	for _, u := range users {
		if u != primary && uc.isSuper(u) {
			uc.log.Warn().Str("user_id", u.ID).Str("primary_id", primary.ID).Msg("registro duplicado con el email del superadministrador")
		}
	}
	if primary.Role != entity.RoleAdmin {
		uc.log.Warn().Str("user_id", primary.ID).Str("role", primary.Role).Msg("rol del superadministrador alterado, se corrige a admin")
		primary.Role = entity.RoleAdmin
		fixed := *primary
		if err := uc.store.Users().Update(ctx, &fixed); err != nil {
			uc.log.Error().Err(err).Str("user_id", primary.ID).Msg("no se pudo corregir el rol del superadministrador")
		}
	}
	return users, nil
}

// primarySuper el registro más antiguo con el email reservado (a igual fecha, el de menor ID);
// nil si no hay ninguno.
func (uc *UserUseCase) primarySuper(users []*entity.User) *entity.User {
	var primary *entity.User
	for _, u := range users {
		if !uc.isSuper(u) {
			continue
		}
		if primary == nil || u.CreatedAt.Before(primary.CreatedAt) ||
			(u.CreatedAt.Equal(primary.CreatedAt) && u.ID < primary.ID) {
			primary = u
		}
	}
	return primary
}

// isPrimarySuper indica si u es el superadministrador y no un duplicado con su email.
func (uc *UserUseCase) isPrimarySuper(ctx context.Context, c repository.Collections, u *entity.User) (bool, error) {
	if !uc.isSuper(u) {
		return false, nil
	}
	list, err := c.Users().List(ctx)
	if err != nil {
		return false, err
	}
	primary := uc.primarySuper(list)
	return primary == nil || primary.ID == u.ID, nil
}

// IsSuperAdmin indica si u es el superadministrador vigente (los duplicados de su email no lo son).
func (uc *UserUseCase) IsSuperAdmin(ctx context.Context, u *entity.User) (bool, error) {
	return uc.isPrimarySuper(ctx, uc.store, u)
}

// Describe arma la respuesta pública de u.
func (uc *UserUseCase) Describe(ctx context.Context, u *entity.User) (dto.UserResponse, error) {
	isSuper, err := uc.IsSuperAdmin(ctx, u)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return userResponse(u, isSuper), nil
}

// ListUsers lista todos los usuarios (requiere manageUsers).
func (uc *UserUseCase) ListUsers(ctx context.Context, s *entity.Session) ([]dto.UserResponse, error) {
	if err := authz.Authorize(s, authz.ManageUsers, nil); err != nil {
		return nil, err
	}
	users, err := uc.EnsureSuperAdmin(ctx)
	if err != nil {
		return nil, err
	}
	primary := uc.primarySuper(users)
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u, u == primary))
	}
	return out, nil
}

// GetUserByID obtiene un usuario; ErrNotFound si no existe.
func (uc *UserUseCase) GetUserByID(ctx context.Context, s *entity.Session, id string) (*dto.UserResponse, error) {
	if err := authz.Authorize(s, authz.ManageUsers, nil); err != nil {
		return nil, err
	}
	u, err := uc.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	resp, err := uc.Describe(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	return &resp, nil
}

// CreateUser crea un usuario con la contraseña hasheada.
// ErrDuplicateEmail si el email ya existe o es el reservado del superadministrador.
func (uc *UserUseCase) CreateUser(ctx context.Context, s *entity.Session, in dto.CreateUserRequest) (resp *dto.UserResponse, err error) {
	defer func() { uc.metrics.RecordSaved("users", "create", outcome(err)) }()

	if err := authz.Authorize(s, authz.ManageUsers, nil); err != nil {
		return nil, err
	}
	in.Name = textutil.Clean(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}
	email := textutil.NormalizeEmail(in.Email)
	if email == uc.cfg.SuperEmail() {
		return nil, domain.ErrDuplicateEmail
	}
	teamID := ""
	if in.Role == entity.RoleTeamAdmin {
		teamID = in.TeamID
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Email:     email,
		Password:  hash,
		Name:      in.Name,
		Role:      in.Role,
		TeamID:    teamID,
		CreatedAt: uc.clock.Now(),
	}

	err = withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			existing, err := tx.Users().FindByEmail(ctx, email)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrDuplicateEmail
			}
			if err := checkTeamExists(ctx, tx, teamID); err != nil {
				return err
			}
			user.ID = ""
			return tx.Users().Create(ctx, user)
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("usuario creado")
	out := ToUserResponse(user, uc.cfg.SuperEmail())
	return &out, nil
}

// UpdateUser aplica cambios parciales respetando las reglas del superadministrador.
func (uc *UserUseCase) UpdateUser(ctx context.Context, s *entity.Session, id string, in dto.UpdateUserRequest) (resp *dto.UserResponse, err error) {
	defer func() { uc.metrics.RecordSaved("users", "update", outcome(err)) }()

	if err := authz.Authorize(s, authz.ManageUsers, nil); err != nil {
		return nil, err
	}
	return uc.update(ctx, id, in)
}

// UpdateProfile edición de la propia cuenta; cualquier rol puede usarla pero no cambia rol ni equipo.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, s *entity.Session, in dto.UpdateProfileRequest) (resp *dto.UserResponse, err error) {
	defer func() { uc.metrics.RecordSaved("users", "profile", outcome(err)) }()

	if s == nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.update(ctx, s.ID, dto.UpdateUserRequest{Name: in.Name, Email: in.Email, Password: in.Password})
}

// update aplica los cambios sin comprobar permisos (lo usan UpdateUser y UpdateProfile).
func (uc *UserUseCase) update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if in.Name != nil {
		v := textutil.Clean(*in.Name)
		in.Name = &v
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	var hash string
	if in.Password != nil && *in.Password != "" {
		h, err := password.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var (
		updated      *entity.User
		superUpdated bool
	)
	err := withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			target, err := tx.Users().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if target == nil {
				return domain.ErrNotFound
			}
			u := *target
			isSuper, err := uc.isPrimarySuper(ctx, tx, target)
			if err != nil {
				return err
			}

			if in.Email != nil {
				email := textutil.NormalizeEmail(*in.Email)
				if email != textutil.NormalizeEmail(target.Email) {
					if isSuper {
						return domain.ErrImmutableSuperAdminEmail
					}
					if email == uc.cfg.SuperEmail() {
						return domain.ErrDuplicateEmail
					}
					other, err := tx.Users().FindByEmail(ctx, email)
					if err != nil {
						return err
					}
					if other != nil && other.ID != id {
						return domain.ErrDuplicateEmail
					}
					u.Email = email
				}
			}
			if in.Role != nil && *in.Role != u.Role {
				if isSuper && *in.Role != entity.RoleAdmin {
					return domain.ErrImmutableSuperAdminRole
				}
				u.Role = *in.Role
			}
			if isSuper {
				u.Role = entity.RoleAdmin
			}
			if in.TeamID != nil {
				u.TeamID = *in.TeamID
			}
			if u.Role != entity.RoleTeamAdmin {
				u.TeamID = ""
			} else if u.TeamID == "" {
				return fmt.Errorf("%w: teamId es obligatorio para team_admin", domain.ErrInvalidInput)
			}
			if u.TeamID != target.TeamID {
				if err := checkTeamExists(ctx, tx, u.TeamID); err != nil {
					return err
				}
			}
			if in.Name != nil {
				u.Name = *in.Name
			}
			if hash != "" {
				u.Password = hash
			}
			if err := tx.Users().Update(ctx, &u); err != nil {
				return err
			}
			updated, superUpdated = &u, isSuper
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	out := userResponse(updated, superUpdated)
	return &out, nil
}

// DeleteUser elimina un usuario. ErrSuperAdminProtected para el superadministrador y
// ErrLastUserProtected si es el único usuario que queda.
func (uc *UserUseCase) DeleteUser(ctx context.Context, s *entity.Session, id string) (err error) {
	defer func() { uc.metrics.RecordSaved("users", "delete", outcome(err)) }()

	if err := authz.Authorize(s, authz.ManageUsers, nil); err != nil {
		return err
	}
	err = withSaveTimeout(ctx, uc.cfg.SaveTimeout, func(ctx context.Context) error {
		return uc.store.RunInTx(ctx, func(ctx context.Context, tx repository.Collections) error {
			target, err := tx.Users().GetByID(ctx, id)
			if err != nil {
				return err
			}
			if target == nil {
				return domain.ErrNotFound
			}
			isSuper, err := uc.isPrimarySuper(ctx, tx, target)
			if err != nil {
				return err
			}
			if isSuper {
				return domain.ErrSuperAdminProtected
			}
			n, err := tx.Users().Count(ctx)
			if err != nil {
				return err
			}
			if n <= 1 {
				return domain.ErrLastUserProtected
			}
			return tx.Users().Delete(ctx, id)
		})
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", id).Msg("usuario eliminado")
	return nil
}

// checkTeamExists valida la referencia a equipo; teamID vacío no se comprueba.
func checkTeamExists(ctx context.Context, tx repository.Collections, teamID string) error {
	if teamID == "" {
		return nil
	}
	team, err := tx.Teams().GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return domain.ErrTeamNotFound
	}
	return nil
}
